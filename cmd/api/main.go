package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/api"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/service"
	mongorepo "github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/infrastructure/db/mongo"
	redisrepo "github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/infrastructure/db/redis"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/infrastructure/queue"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/infrastructure/storage"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/pkg/config"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Martial Arts Social Network API
// @version      1.0
// @description  REST backend for a martial-arts social network: sessions, profiles, publications and engagement analytics.
// @BasePath     /
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	// --- Redis ---
	rdb, err := redisrepo.Connect(ctx, redisrepo.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Cloudinary (optional: image features are disabled without it) ---
	var images ports.ImageStore
	if cfg.Cloudinary.URL != "" {
		store, err := storage.NewCloudinaryStore(
			cfg.Cloudinary.URL,
			cfg.Cloudinary.Folder,
			cfg.Cloudinary.MaxFileSize,
			log,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("cloudinary initialisation failed")
		}
		images = store
	} else {
		log.Warn().Msg("CLOUDINARY_URL not set, image uploads disabled")
	}

	// --- Engagement pipeline ---
	engagementRepo := mongorepo.NewEngagementRepository(db)
	engagementService := service.NewEngagementService(engagementRepo, log)
	dispatcher := queue.NewDispatcher(0, engagementService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, cfg, images, dispatcher, log)

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
}
