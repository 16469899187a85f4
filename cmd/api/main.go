package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"moodspec/internal/app"
	"moodspec/internal/http/handlers"
	httpapi "moodspec/internal/http/httpapi"
	"moodspec/internal/infra"
	"moodspec/internal/infra/credentials"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := credentials.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open credential store")
	}
	defer closeStore()

	svc, err := app.New(cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build services")
	}

	handlerApp := handlers.NewApp(svc.Analyzer, svc.Previewer, svc.Handoff, credentials.NewResolver(store), &logger)
	handlerApp.MaxUploadBytes = cfg.MaxUploadBytes

	router := httpapi.NewRouter(handlerApp, httpapi.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMin:    cfg.RateLimitPerMin,
		Logger:             logger,
	})
	server := infra.NewHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", server.Addr()).
			Str("analysis_model", cfg.AnalysisModel).
			Msg("moodspec bridge listening")
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		stop()
		closeStore()
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
