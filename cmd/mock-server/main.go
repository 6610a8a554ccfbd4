package main

import (
	"log"

	"github.com/Victor-armando18/discount-function/internal/mockserver"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := mockserver.LoadConfig(".env")
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	var replay mockserver.ReplayGuard
	if cfg.RedisAddr != "" {
		guard := mockserver.NewRedisReplayGuard(cfg.RedisAddr, cfg.RedisPass)
		defer guard.Close()
		replay = guard
	} else {
		replay = mockserver.NewMemoryReplayGuard()
	}

	srv := mockserver.NewServer(mockserver.NewVerifier(cfg), replay, logger)
	logger.Info("listening", zap.String("port", cfg.Port), zap.Bool("development", cfg.Development()))
	if err := srv.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
