package main

import (
	"log"

	"math_arena_backend/internal/app"
	"math_arena_backend/internal/config"
	"math_arena_backend/pkg/configwatcher"
	"math_arena_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", application.ReloadConfig)

	application.Run()
}
