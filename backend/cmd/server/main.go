package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lingograph/backend/internal/api"
	"lingograph/backend/internal/catalog"
	"lingograph/backend/internal/graph"
	"lingograph/backend/internal/recommend"
	"lingograph/backend/pkg/config"
	"lingograph/backend/pkg/logger"
)

func main() {
	// Load configuration first so the logger knows the environment
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting recommendation engine server...")

	// Connect to Neo4j; the store owns the only long-lived resource
	ctx := context.Background()
	store, err := graph.NewStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer store.Close(ctx)

	log.Info("Connected to Neo4j", zap.String("uri", cfg.Neo4jURI))

	// Wire dependencies
	engine := recommend.NewEngine(store)
	cat := catalog.NewService(store)
	handler := api.NewHandler(engine, cat)
	router := api.NewRouter(handler, cfg, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
