package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"capture-gpt/backend/internal/api"
	"capture-gpt/backend/internal/config"
	"capture-gpt/backend/internal/llm"
	"capture-gpt/backend/internal/prompts"
	"capture-gpt/backend/internal/service"
	"capture-gpt/backend/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired components of a running instance.
type App struct {
	Config   *config.Config
	Storage  *storage.Adapter
	Client   *llm.Client
	Store    *service.ConversationStore
	Settings *service.SettingsService
	Models   *service.ModelService
	Server   *http.Server
}

// Run is the server entry point. It returns the process exit code.
func Run() int {
	cfg, err := Init(os.Stdout)
	if err != nil {
		return 1
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		return 1
	}
	return 0
}

// Init loads the configuration and installs the JSON logger writing to w.
func Init(w io.Writer) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return nil, err
	}

	setupLogger(w, cfg.LogLevel)
	logConfigSource()
	return cfg, nil
}

// NewApp wires storage, the completion client and the services. Storage that
// cannot be opened degrades to memory; a bad model file or knowledge path is
// fatal.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	registry := llm.DefaultRegistry()
	if cfg.ModelsFile != "" {
		var err error
		registry, err = llm.LoadRegistryFile(cfg.ModelsFile)
		if err != nil {
			return nil, err
		}
		slog.Info("Loaded model registry", "file", cfg.ModelsFile, "models", len(registry.Models()))
	}

	knowledge, err := prompts.LoadKnowledge(cfg.KnowledgePath)
	if err != nil {
		return nil, err
	}
	library, err := prompts.NewLibrary(knowledge)
	if err != nil {
		return nil, err
	}

	client := llm.NewClient(llm.Config{
		BaseURL: cfg.OpenAIBaseURL,
		APIKey:  cfg.OpenAIAPIKey,
		Timeout: cfg.OpenAITimeout,
	}, registry, library)
	if !client.Configured() {
		slog.Warn("OPENAI_API_KEY is not set; replies will ask for configuration.")
	}

	adapter := storage.NewAdapter(openBackend(ctx, cfg), cfg.StoragePrefix)
	settingsService := service.NewSettingsService(adapter, registry)
	modelService := service.NewModelService(registry)
	store := service.NewConversationStore(ctx, adapter, client, service.StoreOptions{
		AutosaveDelay: cfg.AutosaveDelay,
		Models:        settingsService,
	})

	chatHandler := api.NewChatHandler(store, settingsService)
	modelHandler := api.NewModelHandler(modelService)
	router := api.NewRouter(chatHandler, modelHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		Config:   cfg,
		Storage:  adapter,
		Client:   client,
		Store:    store,
		Settings: settingsService,
		Models:   modelService,
		Server:   server,
	}, nil
}

// Serve listens until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", a.Config.AppPort)
		errCh <- a.Server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Close saves any unsaved conversation and releases the storage backend.
func (a *App) Close() {
	a.Store.Close(context.Background())
	if err := a.Storage.Close(); err != nil {
		slog.Error("Failed to close storage", "error", err)
	}
}

// openBackend opens the configured storage. On failure it logs and falls back
// to memory so the session still works, without persistence.
func openBackend(ctx context.Context, cfg *config.Config) storage.Backend {
	var (
		backend storage.Backend
		err     error
	)
	switch cfg.StorageDriver {
	case config.DriverRedis:
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		backend, err = storage.OpenRedis(pingCtx, cfg.RedisAddr)
	case config.DriverMemory:
		return storage.NewMemoryBackend()
	default:
		backend, err = storage.OpenSQLite(cfg.DatabasePath)
	}
	if err != nil {
		slog.Error("Storage unavailable, falling back to memory", "driver", cfg.StorageDriver, "error", err)
		return storage.NewMemoryBackend()
	}
	slog.Info("Storage ready", "driver", cfg.StorageDriver)
	return backend
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(w io.Writer, logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
