// @title Grade Predictor API
// @version 1.0
// @description Study habits form and grade prediction proxy.

// @host localhost:8080
// @BasePath /api

package main

import (
	"flag"
	"grade_predictor/internal/app"
	"grade_predictor/internal/config"
	"grade_predictor/pkg/logger"
	"log"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	port := flag.String("port", "", "override server.port")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
