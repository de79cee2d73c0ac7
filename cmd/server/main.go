package main

import (
	"fmt"
	"log"

	"streamify-backend/internal/app"
	"streamify-backend/internal/config"
	"streamify-backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Init(cfg.LogFile, cfg.Debug)
	defer logger.Log.Sync()

	// Initialize router
	router := app.NewRouter(cfg)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	logger.Log.Info("server starting", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Log.Fatal("failed to start server", zap.Error(err))
	}
}
