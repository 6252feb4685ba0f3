package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/galaxyfolio/backend/internal/config"
	"github.com/galaxyfolio/backend/internal/contact"
	"github.com/galaxyfolio/backend/internal/health"
	"github.com/galaxyfolio/backend/internal/logger"
	"github.com/galaxyfolio/backend/internal/mailer"
	"github.com/galaxyfolio/backend/internal/ratelimit"
	"github.com/galaxyfolio/backend/internal/server"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.DefaultConfig(), os.Stdout)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Per-IP counter store: in-process by default, Redis when
	// configured so multiple relay instances share one budget.
	var store ratelimit.Store
	if cfg.RateLimit.RedisAddr != "" {
		redisStore, err := ratelimit.NewRedisStore(cfg.RateLimit.RedisAddr, cfg.RateLimit.Points, cfg.RateLimit.Window)
		if err != nil {
			log.Error("failed to connect to redis", "error", err, "addr", cfg.RateLimit.RedisAddr)
			os.Exit(1)
		}
		defer redisStore.Close()
		store = redisStore
		log.Info("rate limiter using redis store", "addr", cfg.RateLimit.RedisAddr)
	} else {
		memStore := ratelimit.NewMemoryStore(cfg.RateLimit.Points, cfg.RateLimit.Window)
		defer memStore.Close()
		store = memStore
	}

	composer := contact.NewComposer(cfg.SMTP.From, cfg.SMTP.To)
	smtpMailer := mailer.New(&cfg.SMTP, log)
	contactHandler := contact.NewHandler(store, composer, smtpMailer, log, cfg.Development())
	healthHandler := health.NewHandler()

	router := server.NewRouter(cfg, log, contactHandler, healthHandler)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("starting server",
			"addr", cfg.Server.Addr(),
			"frontend_url", cfg.CORS.AllowedOrigin,
			"mail_account", cfg.SMTP.Username,
			"env", cfg.Env,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	healthHandler.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server exited")
}
