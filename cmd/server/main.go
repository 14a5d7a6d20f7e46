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

	"github.com/ertis-service/backend/internal/ai"
	"github.com/ertis-service/backend/internal/auth"
	"github.com/ertis-service/backend/internal/config"
	"github.com/ertis-service/backend/internal/db"
	"github.com/ertis-service/backend/internal/geocode"
	httpapi "github.com/ertis-service/backend/internal/http"
	"github.com/ertis-service/backend/internal/service"
	"github.com/ertis-service/backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "ertis-backend").Logger()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	if err := store.Seed(ctx); err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}

	var client ai.Client
	if cfg.OpenAIAPIKey == "" {
		client = ai.MockClient{}
		logger.Info().Msg("using mock AI client")
	} else {
		client = &ai.OpenAIClient{
			BaseURL:     cfg.OpenAIBaseURL,
			APIKey:      cfg.OpenAIAPIKey,
			TextModel:   cfg.OpenAITextModel,
			VisionModel: cfg.OpenAIVisionModel,
			Timeout:     cfg.AITimeout,
		}
	}

	files := &storage.FileStore{
		BaseDir:  cfg.UploadDir,
		MaxBytes: cfg.MaxUploadBytes(),
		Logger:   logger,
	}
	issuer := auth.TokenIssuer{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}
	geocoder := &geocode.YandexGeocoder{APIKey: cfg.YandexMapsAPIKey}
	notifier := &service.Notifier{Store: store, Logger: logger}
	triage := &service.TriageService{
		Store:     store,
		AI:        client,
		Files:     files,
		Notifier:  notifier,
		Logger:    logger,
		AITimeout: cfg.AITimeout,
	}
	ratings := &service.RatingService{Store: store, Logger: logger}

	router := httpapi.Router(cfg, httpapi.Deps{
		Store:    store,
		Triage:   triage,
		Ratings:  ratings,
		Notifier: notifier,
		Geocoder: geocoder,
		Files:    files,
		Issuer:   issuer,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
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
