package main

import (
	"context"
	"log"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/insights-service/handlers"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/insights-service/routes"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/insights-service/services"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/classifier"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/config"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/credentials"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/db"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/logger"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/store"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

const defaultPort = "8080"

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	lggr, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer func() { _ = lggr.Sync() }()

	// Initialize database
	database, err := db.NewDB(ctx, cfg.Database, lggr)
	if err != nil {
		lggr.Fatalw("Failed to connect to database", "driver", cfg.Database.Driver, "err", err)
	}
	defer func() {
		if cerr := db.Close(database); cerr != nil {
			lggr.Errorw("Error closing database", "err", cerr)
		}
	}()

	hasher, err := credentials.NewHasher(cfg.Auth.PasswordHash)
	if err != nil {
		lggr.Fatalw("Invalid password hash setting", "err", err)
	}
	users := credentials.NewStore(database, hasher, lggr)
	issuer := utils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	model, err := classifier.Load(cfg.Model.Path)
	if err != nil {
		lggr.Fatalw("Failed to load model", "path", cfg.Model.Path, "err", err)
	}

	datasets, err := store.New(ctx, cfg.Store)
	if err != nil {
		lggr.Fatalw("Failed to open dataset store", "driver", cfg.Store.Driver, "err", err)
	}
	defer func() {
		if cerr := datasets.Close(); cerr != nil {
			lggr.Errorw("Error closing dataset store", "err", cerr)
		}
	}()

	// Create service manager with all dependencies
	serviceManager := services.NewServiceManager(users, issuer, model, datasets, cfg.Store.TTL, lggr)

	// Create handler manager with service manager
	handlerManager := handlers.NewHandlerManager(serviceManager)

	r := routes.SetupRoutes(handlerManager, routes.Options{
		Issuer:      issuer,
		Users:       users,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      lggr,
	})

	port := cfg.Server.Port
	if port == "" {
		port = defaultPort
	}

	lggr.Infow("Insights Service starting", "port", port, "store", datasets.Name(), "hash", hasher.Name())
	if err := r.Run(":" + port); err != nil {
		lggr.Fatalw("Insights Service stopped", "err", err)
	}
}
