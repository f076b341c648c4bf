package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/datalift/datalift/internal/metrics"
	"github.com/datalift/datalift/internal/server"
	"github.com/datalift/datalift/internal/store/badger"
	"go.uber.org/zap"
)

func main() {
	var (
		dataDir = flag.String("data-dir", "/var/datalift", "Data directory for BadgerDB")
		port    = flag.Int("port", 8080, "API server port")
	)
	flag.Parse()

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Initialize store
	store, err := badger.NewStore(*dataDir)
	if err != nil {
		logger.Fatal("Failed to create store", zap.Error(err))
	}
	defer store.Close()

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector(logger)

	// Initialize API server
	apiServer, err := server.NewServer(server.Config{
		Store:   store,
		Metrics: metricsCollector,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Failed to create API server", zap.Error(err))
	}

	// Start API server
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		logger.Info("Starting tracking server", zap.String("addr", addr))
		if err := apiServer.Start(addr); err != nil {
			logger.Fatal("API server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down API server", zap.Error(err))
	}
}
