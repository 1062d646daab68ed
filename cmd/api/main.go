// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maboutique/maboutique-api/internal/config"
	"github.com/maboutique/maboutique-api/internal/infrastructure/database"
	"github.com/maboutique/maboutique-api/internal/infrastructure/database/migration"
	"github.com/maboutique/maboutique-api/internal/interfaces/http"
	"github.com/maboutique/maboutique-api/internal/pkg/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting service")

	// Connect to database
	db, err := database.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// Run database migrations
	m := migration.NewMigration(db.GetDB(), log)

	if err := m.RunAutoMigrations(); err != nil {
		log.WithError(err).Fatal("Database migration failed")
	}

	if err := m.CreateIndexes(); err != nil {
		log.WithError(err).Warn("Index creation failed")
	}

	server := http.NewServer(cfg, db, log)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}
