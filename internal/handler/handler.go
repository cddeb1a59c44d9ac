// Package handler exposes the JSON API over chi.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnmate/learnmate/internal/agent"
	"github.com/learnmate/learnmate/internal/engine"
	"github.com/learnmate/learnmate/internal/model"
	"github.com/learnmate/learnmate/internal/store"
)

const maxMessageBytes = 1 << 16

type Handler struct {
	store  *store.Store
	engine *engine.Engine
	config model.Config
}

func New(s *store.Store, e *engine.Engine, cfg model.Config) *Handler {
	return &Handler{store: s, engine: e, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Post("/api/v1/auth/login", h.handleLogin)
	r.Post("/api/v1/auth/logout", h.handleLogout)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/status", h.handleStatus)
		r.Post("/chat", h.handleChat)
		r.Route("/threads/{threadID}", func(r chi.Router) {
			r.Get("/", h.handleThread)
			r.Get("/progress", h.handleProgress)
			r.Get("/messages", h.handleMessages)
			r.Post("/reset", h.handleReset)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.ListThreadIDs()
	if err != nil {
		slog.Error("list threads", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"model":   h.config.LLMModel,
		"threads": len(ids),
		"services": map[string]bool{
			"youtube":   h.config.YouTubeKey != "",
			"github":    h.config.GitHubToken != "",
			"wikipedia": true,
		},
	})
}

type chatRequest struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

type chatResponse struct {
	ThreadID string       `json:"thread_id"`
	Reply    string       `json:"reply"`
	Action   model.Action `json:"action"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.ThreadID == "" {
		req.ThreadID = uuid.NewString()
	}

	result, err := h.engine.Turn(r.Context(), req.ThreadID, req.Message)
	if err != nil {
		slog.Error("turn failed", "thread_id", req.ThreadID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		ThreadID: req.ThreadID,
		Reply:    result.Reply,
		Action:   result.Action,
	})
}

func (h *Handler) loadThread(w http.ResponseWriter, r *http.Request) *model.SessionState {
	threadID := chi.URLParam(r, "threadID")
	state, err := h.engine.State(threadID)
	if err != nil {
		slog.Error("load thread", "thread_id", threadID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if state == nil {
		writeError(w, http.StatusNotFound, "thread not found")
		return nil
	}
	return state
}

func (h *Handler) handleThread(w http.ResponseWriter, r *http.Request) {
	state := h.loadThread(w, r)
	if state == nil {
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	state := h.loadThread(w, r)
	if state == nil {
		return
	}
	writeJSON(w, http.StatusOK, agent.BuildReport(state))
}

func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	msgs, err := h.store.GetLog(threadID)
	if err != nil {
		slog.Error("load messages", "thread_id", threadID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if msgs == nil {
		msgs = []model.LogMessage{}
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 && limit < len(msgs) {
		msgs = msgs[len(msgs)-limit:]
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	state, err := h.engine.Reset(threadID)
	if err != nil {
		slog.Error("reset thread", "thread_id", threadID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, state)
}
