package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/contacttriage/internal/adapter/driven/gemini"
	sqliteadapter "github.com/ericfisherdev/contacttriage/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/contacttriage/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/contacttriage/internal/adapter/driving/web"
	"github.com/ericfisherdev/contacttriage/internal/application"
	"github.com/ericfisherdev/contacttriage/internal/config"
	"github.com/ericfisherdev/contacttriage/internal/domain/model"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"env_api_key", cfg.HasGeminiAPIKey(),
		"encryption", cfg.HasSecretKey(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Credential store, encrypted at rest when a secret key is configured.
	key, err := sqliteadapter.DeriveKey(cfg.SecretKey)
	if err != nil {
		return err
	}
	if key == nil {
		slog.Warn("CONTACTTRIAGE_SECRET_KEY not set, API keys are stored unencrypted")
	}
	credentialStore := sqliteadapter.NewCredentialRepo(db, key)

	// 6. Application services. The analyzer follows every credential change.
	creds := application.NewCredentialService(credentialStore, cfg.GeminiAPIKey, slog.Default())
	provider := application.NewAnalyzerProvider(gemini.NewAnalyzerFactory(), slog.Default())
	creds.Subscribe(provider.Replace)

	if _, source := creds.ResolveWithSource(ctx); source == model.CredentialSourceNone {
		slog.Info("no gemini api key configured, classifications use the default result until one is saved")
	} else {
		slog.Info("gemini api key resolved", "source", source)
	}

	classifier := application.NewClassifierService(creds, provider, slog.Default())
	form := application.NewCredentialForm(creds, nil)

	// 7. HTTP routes.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(creds, classifier, slog.Default()))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(creds, form, classifier, slog.Default()))

	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("contacttriage started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
