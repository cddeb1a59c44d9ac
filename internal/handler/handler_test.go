package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnmate/learnmate/internal/agent"
	"github.com/learnmate/learnmate/internal/content"
	"github.com/learnmate/learnmate/internal/engine"
	appI18n "github.com/learnmate/learnmate/internal/i18n"
	"github.com/learnmate/learnmate/internal/model"
	"github.com/learnmate/learnmate/internal/router"
	"github.com/learnmate/learnmate/internal/store"
)

func TestMain(m *testing.M) {
	if err := appI18n.Init("en"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type stubGen struct{ resp string }

func (s *stubGen) Generate(_ context.Context, _, _ string, _ float32) (string, error) {
	return s.resp, nil
}

// newTestServer spins up the full API over an in-memory store with one
// seeded user and returns a valid bearer token.
func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	userID, err := db.CreateUser(model.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         "admin",
		Active:       true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := db.CreateAuthSession(userID)
	if err != nil {
		t.Fatalf("create auth session: %v", err)
	}

	gen := &stubGen{resp: "unknown"}
	agg := content.NewAggregator(content.NewYouTube(""), content.NewWikipedia(), content.NewGitHub(""), 3)
	eng := engine.New(db, router.New(gen), agent.NewRegistry(gen, agg), engine.Defaults{})

	h := New(db, eng, model.Config{LLMModel: "test-model"})
	r := chi.NewRouter()
	r.Use(appI18n.Middleware("en"))
	h.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, token
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthIsPublic(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz = %d", resp.StatusCode)
	}
}

func TestChatRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/chat", "", map[string]string{"message": "hi"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthorized chat = %d, want 401", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/chat", "wrong-token", map[string]string{"message": "hi"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token chat = %d, want 401", resp.StatusCode)
	}
}

func TestLoginFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"username": "admin", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad password login = %d, want 401", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"username": "admin", "password": "secret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login = %d", resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if body.Token == "" {
		t.Fatal("empty token")
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/status", body.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status with fresh token = %d", resp.StatusCode)
	}
	var status struct {
		Status   string          `json:"status"`
		Services map[string]bool `json:"services"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("status = %q", status.Status)
	}
	if status.Services["youtube"] {
		t.Error("youtube reported configured without a key")
	}
	if !status.Services["wikipedia"] {
		t.Error("wikipedia should always be available")
	}
}

func TestChatMintsThreadID(t *testing.T) {
	srv, token := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/chat", token, map[string]string{"message": "todos"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat = %d", resp.StatusCode)
	}
	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ThreadID == "" {
		t.Error("no thread id minted")
	}
	if body.Action != model.ActionShowTodos {
		t.Errorf("action = %q, want show_todos", body.Action)
	}
	if body.Reply == "" {
		t.Error("empty reply")
	}

	// The minted thread is now inspectable.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/threads/"+body.ThreadID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("thread fetch = %d", resp.StatusCode)
	}
	var state model.SessionState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if len(state.History) != 2 {
		t.Errorf("history = %d entries", len(state.History))
	}
}

func TestChatValidation(t *testing.T) {
	srv, token := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/chat", token, map[string]string{"message": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty message = %d, want 400", resp.StatusCode)
	}
}

func TestThreadEndpoints(t *testing.T) {
	srv, token := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/chat", token, map[string]string{
		"thread_id": "t1", "message": "todos",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/threads/t1/progress", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("progress = %d", resp.StatusCode)
	}
	var report agent.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalDays != 0 || report.Percent != 0 {
		t.Errorf("report = %+v, want empty progress", report)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/threads/t1/messages", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("messages = %d", resp.StatusCode)
	}
	var msgs []model.LogMessage
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("log = %d rows, want 2", len(msgs))
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/threads/t1/messages?limit=1", token, nil)
	msgs = nil
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		t.Fatalf("decode limited messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("limited log = %d rows, want 1", len(msgs))
	}
	if msgs[0].Role != model.RoleAssistant {
		t.Errorf("limit should keep the newest row, got role %q", msgs[0].Role)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/threads/t1/reset", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset = %d", resp.StatusCode)
	}
	var state model.SessionState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode reset state: %v", err)
	}
	if len(state.History) != 0 {
		t.Error("reset state still has history")
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/threads/missing", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown thread = %d, want 404", resp.StatusCode)
	}
}
