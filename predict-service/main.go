package main

import (
	"context"
	"log"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/predict-service/handlers"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/predict-service/routes"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/predict-service/services"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/classifier"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/config"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/logger"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/store"
)

const defaultPort = "8081"

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	lggr, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer func() { _ = lggr.Sync() }()

	// Load the trained model once; it is read-only afterwards
	model, err := classifier.Load(cfg.Model.Path)
	if err != nil {
		lggr.Fatalw("Failed to load model", "path", cfg.Model.Path, "err", err)
	}
	info := model.Info()
	lggr.Infow("Loaded model", "path", cfg.Model.Path, "kind", info.Kind, "features", info.FeatureCount)

	results, err := store.New(context.Background(), cfg.Store)
	if err != nil {
		lggr.Fatalw("Failed to open result store", "driver", cfg.Store.Driver, "err", err)
	}
	defer func() {
		if cerr := results.Close(); cerr != nil {
			lggr.Errorw("Error closing result store", "err", cerr)
		}
	}()

	// Create service manager with all dependencies
	serviceManager := services.NewServiceManager(model, results, cfg.Store.TTL, lggr)

	// Create handler manager with service manager
	handlerManager := handlers.NewHandlerManager(serviceManager)

	// Setup routes
	r := routes.SetupRoutes(handlerManager, cfg.Server.CORSOrigins, lggr)

	port := cfg.Server.Port
	if port == "" {
		port = defaultPort
	}

	lggr.Infow("Prediction Service starting", "port", port, "store", results.Name())
	if err := r.Run(":" + port); err != nil {
		lggr.Fatalw("Prediction Service stopped", "err", err)
	}
}
