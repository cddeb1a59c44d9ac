package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnmate/learnmate/internal/agent"
	"github.com/learnmate/learnmate/internal/content"
	"github.com/learnmate/learnmate/internal/engine"
	"github.com/learnmate/learnmate/internal/handler"
	appI18n "github.com/learnmate/learnmate/internal/i18n"
	"github.com/learnmate/learnmate/internal/llm"
	"github.com/learnmate/learnmate/internal/model"
	"github.com/learnmate/learnmate/internal/router"
	"github.com/learnmate/learnmate/internal/store"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "learnmate",
		Short: "Conversational learning assistant powered by LLMs",
	}

	serve := serveCmd()
	root.AddCommand(serve, chatCmd(), exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `learnmate --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func commonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("db", "learnmate.db", "SQLite database path")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.StringP("lang", "l", "en", "Reply language")
	f.Int("duration-days", 7, "Default curriculum length in days")
	f.String("skill-level", "beginner", "Default skill level (beginner, intermediate, advanced)")
	f.String("youtube-key", "", "YouTube Data API key (empty = curated fallbacks)")
	f.String("github-token", "", "GitHub API token (empty = unauthenticated)")
	f.Int("max-results", 3, "Results per content provider")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	commonFlags(cmd)
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("admin-password", "", "Initial admin password (or set LEARNMATE_ADMIN_PASSWORD)")
	return cmd
}

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat session in the terminal",
		RunE:  runChat,
	}
	commonFlags(cmd)
	cmd.Flags().String("thread", "", "Thread id to resume (default: last used)")
	cmd.Flags().Bool("new", false, "Start a fresh thread")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all threads as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "learnmate.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(v *viper.Viper) {
	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("LEARNMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("learnmate")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/learnmate")
	v.AddConfigPath("/etc/learnmate")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func configFromViper(v *viper.Viper) model.Config {
	return model.Config{
		Addr:         v.GetString("addr"),
		DBPath:       v.GetString("db"),
		LLMURL:       v.GetString("llm-url"),
		LLMKey:       v.GetString("llm-key"),
		LLMModel:     v.GetString("llm-model"),
		Lang:         v.GetString("lang"),
		DurationDays: v.GetInt("duration-days"),
		SkillLevel:   v.GetString("skill-level"),
		YouTubeKey:   v.GetString("youtube-key"),
		GitHubToken:  v.GetString("github-token"),
		MaxResults:   v.GetInt("max-results"),
	}
}

// buildEngine wires the store, LLM client, router, handlers and dispatcher.
func buildEngine(db *store.Store, cfg model.Config) (*engine.Engine, error) {
	if err := appI18n.Init(cfg.Lang); err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}

	llmClient := llm.New(cfg.LLMURL, cfg.LLMKey, cfg.LLMModel)
	if err := llmClient.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("LLM health check: %w", err)
	}
	slog.Info("LLM endpoint OK", "url", cfg.LLMURL, "model", cfg.LLMModel)

	agg := content.NewAggregator(
		content.NewYouTube(cfg.YouTubeKey),
		content.NewWikipedia(),
		content.NewGitHub(cfg.GitHubToken),
		cfg.MaxResults,
	)

	handlers := agent.NewRegistry(llmClient, agg)
	defaults := engine.Defaults{DurationDays: cfg.DurationDays, SkillLevel: cfg.SkillLevel}
	return engine.New(db, router.New(llmClient), handlers, defaults), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)
	cfg := configFromViper(v)

	db, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := seedAdmin(db, v.GetString("admin-password")); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	eng, err := buildEngine(db, cfg)
	if err != nil {
		return err
	}

	h := handler.New(db, eng, cfg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(cfg.Lang))
	h.Routes(r)

	slog.Info("starting server",
		"addr", cfg.Addr,
		"model", cfg.LLMModel,
		"llm_url", cfg.LLMURL,
		"lang", cfg.Lang,
		"duration_days", cfg.DurationDays,
		"skill_level", cfg.SkillLevel,
	)
	return http.ListenAndServe(cfg.Addr, r)
}

const lastThreadKey = "last_thread_id"

func runChat(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)
	cfg := configFromViper(v)

	db, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	eng, err := buildEngine(db, cfg)
	if err != nil {
		return err
	}

	threadID := v.GetString("thread")
	if threadID == "" && !v.GetBool("new") {
		threadID, _ = db.GetMetadata(lastThreadKey)
	}
	if threadID == "" {
		threadID = uuid.NewString()
	}
	if err := db.SetMetadata(lastThreadKey, threadID); err != nil {
		slog.Warn("save last thread id", "error", err)
	}

	fmt.Printf("Thread %s. Type a message, or \"exit\" to quit.\n", threadID)

	ctx := appI18n.WithLocalizer(cmd.Context(), appI18n.NewLocalizer(cfg.Lang))
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		result, err := eng.Turn(ctx, threadID, line)
		if err != nil {
			return fmt.Errorf("turn: %w", err)
		}
		fmt.Println(result.Reply)
	}
	return scanner.Err()
}

func runExport(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportAll()
	if err != nil {
		return fmt.Errorf("export threads: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)

	return nil
}

// seedAdmin creates the default admin account when the users table is empty.
// The generated password is logged once when none was configured.
func seedAdmin(db *store.Store, password string) error {
	count, err := db.UserCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	generated := false
	if password == "" {
		b := make([]byte, 12)
		if _, err := rand.Read(b); err != nil {
			return err
		}
		password = hex.EncodeToString(b)
		generated = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = db.CreateUser(model.User{
		Username:     "admin",
		DisplayName:  "Administrator",
		PasswordHash: string(hash),
		Role:         "admin",
		Active:       true,
	})
	if err != nil {
		return err
	}
	if generated {
		slog.Info("created default admin user", "username", "admin", "password", password)
	} else {
		slog.Info("created default admin user", "username", "admin")
	}
	return nil
}
