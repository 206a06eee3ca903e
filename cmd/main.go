package main

import (
	"go.uber.org/zap"

	"github.com/athmaw/ttis-tracker/internal/model"
	"github.com/athmaw/ttis-tracker/internal/router"
	"github.com/athmaw/ttis-tracker/pkg/config"
	"github.com/athmaw/ttis-tracker/pkg/database"
	"github.com/athmaw/ttis-tracker/pkg/jwtutil"
	"github.com/athmaw/ttis-tracker/pkg/logger"
	"github.com/athmaw/ttis-tracker/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("ttis-tracker")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting inventory tracker", cfg.LogFields()...)

	// Initialize database
	if _, err := database.InitDB(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(&model.User{}, &model.Item{}, &model.Sale{}); err != nil {
		log.Fatal("Failed to migrate models", zap.Error(err))
	}
	log.Info("Database migrations complete")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", cfg.Metrics.Prefix))

	e := router.New()

	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
