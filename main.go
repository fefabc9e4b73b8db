package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Zachkp/quantum-portfolio/internal/config"
	"github.com/Zachkp/quantum-portfolio/internal/content"
	"github.com/Zachkp/quantum-portfolio/internal/logging"
	"github.com/Zachkp/quantum-portfolio/internal/metrics"
	"github.com/Zachkp/quantum-portfolio/internal/quantum"
	"github.com/Zachkp/quantum-portfolio/internal/version"
	"github.com/Zachkp/quantum-portfolio/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logging.SetGlobalLogger(logger)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	portfolio, err := content.Load(cfg.ContentPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load portfolio content")
	}

	store, err := metrics.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open visitor database")
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := store.Cleanup(ctx); err != nil {
		logger.Error().Err(err).Msg("privacy cleanup failed")
	}

	sessions := web.NewSessionStore(cfg.SessionTTL, cfg.Toggle(), func() *quantum.Game {
		return quantum.New(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}, logger)
	go sessions.Run(ctx, time.Minute)

	var admin *metrics.Admin
	if cfg.AdminEnabled() {
		admin = metrics.NewAdmin(store, metrics.Credentials{Username: cfg.Admin.Username, Password: cfg.Admin.Password}, logger)
	} else {
		logger.Warn().Msg("admin routes disabled: set ADMIN_USERNAME and ADMIN_PASSWORD to non-default values")
	}

	r := web.NewRouter(web.Deps{
		Portfolio:     portfolio,
		Sessions:      sessions,
		Mailer:        web.NewSMTPMailer(cfg.SMTP),
		Metrics:       store,
		Admin:         admin,
		TemplatesGlob: cfg.TemplatesGlob,
		StaticDir:     "./static",
		Log:           logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("version", version.Version).Msg("portfolio listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
