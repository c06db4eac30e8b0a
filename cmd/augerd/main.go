// Command augerd is the augerd HTTP server binary. It loads a YAML
// configuration file, opens the PostgreSQL report archive, the SQLite
// fetch cache, and the tamper-evident audit log, exposes the REST API over
// HTTP, and shuts down gracefully on SIGTERM or SIGINT.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/augerlabs/auger/internal/audit"
	"github.com/augerlabs/auger/internal/auger"
	"github.com/augerlabs/auger/internal/config"
	"github.com/augerlabs/auger/internal/fetchcache"
	"github.com/augerlabs/auger/internal/rpcclient"
	"github.com/augerlabs/auger/internal/server/rest"
	"github.com/augerlabs/auger/internal/storage"
)

func main() {
	configPath := flag.String("config", "/etc/augerd/config.yaml", "path to the augerd YAML configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		// No logger is configured yet; report to stderr directly.
		os.Stderr.WriteString("augerd: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("config_path", *configPath),
		slog.String("listen_addr", cfg.ListenAddr),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Error("failed to open report archive", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("report archive connected")

	cache, err := fetchcache.Open(cfg.FetchCachePath)
	if err != nil {
		logger.Error("failed to open fetch cache", slog.String("path", cfg.FetchCachePath), slog.Any("error", err))
		os.Exit(1)
	}
	defer cache.Close()
	logger.Info("fetch cache opened", slog.String("path", cfg.FetchCachePath))

	auditLog, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		logger.Error("failed to open audit log", slog.String("path", cfg.AuditLogPath), slog.Any("error", err))
		os.Exit(1)
	}
	defer auditLog.Close()
	logger.Info("audit log opened", slog.String("path", cfg.AuditLogPath))

	rpc := rpcclient.New(cfg.SolanaRPCEndpoint)
	fetcher := rpcclient.NewCachingFetcher(rpc, cache)

	srv := rest.NewServer(logger, store, fetcher, auditLog, auger.DefaultConfig())
	httpHandler := rest.NewRouter(srv, cfg.APIKeys)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	httpErrCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", slog.String("addr", cfg.ListenAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			httpErrCh <- err
		}
		close(httpErrCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-httpErrCh:
		if err != nil {
			logger.Error("HTTP server error", slog.Any("error", err))
		}
	}

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", slog.Any("error", err))
	}

	logger.Info("augerd exited cleanly")
}

// newLogger constructs a *slog.Logger that writes JSON-structured log records
// to stderr at the requested minimum level.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
