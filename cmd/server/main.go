package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fe-select/backend/internal/carrier"
	"github.com/fe-select/backend/internal/config"
	"github.com/fe-select/backend/internal/db"
	"github.com/fe-select/backend/internal/forms"
	httpapi "github.com/fe-select/backend/internal/http"
	"github.com/fe-select/backend/internal/script"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "fe-select-backend").Logger()

	doc, problems := script.Load(cfg.ScriptPath)
	if doc == nil {
		logger.Fatal().Str("path", cfg.ScriptPath).Msg("failed to load script")
	}
	for _, p := range problems {
		logger.Warn().Err(p).Msg("script validation issue")
	}

	carriers, err := carrier.Load(cfg.CarriersPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.CarriersPath).Msg("failed to load carriers")
	}

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	var submitter forms.Submitter
	if cfg.FormURL == "" {
		submitter = forms.MockSubmitter{}
		logger.Info().Msg("using mock form submitter")
	} else {
		submitter = forms.HTTPSubmitter{FormURL: cfg.FormURL, Mappings: forms.DefaultFieldMappings}
	}

	router := httpapi.Router(cfg, store, doc, carriers, submitter, logger)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
