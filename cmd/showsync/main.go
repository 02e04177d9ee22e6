package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skoller/showsync/internal/config"
	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/logger"
	"github.com/skoller/showsync/internal/server"
)

func main() {
	// Print startup banner
	fmt.Println("=====================================")
	fmt.Println("  ShowSync - Series Tracking Server  ")
	fmt.Println("=====================================")

	// Initialize configuration system first
	configPath := os.Getenv("SHOWSYNC_CONFIG_PATH")
	if configPath == "" {
		if _, err := os.Stat("./showsync.yaml"); err == nil {
			configPath = "./showsync.yaml"
		}
	}

	if err := config.Load(configPath); err != nil {
		log.Printf("⚠️  Warning: Failed to load configuration from %s: %v", configPath, err)
		log.Printf("Using default configuration")
	} else if configPath != "" {
		log.Printf("✅ Configuration loaded from: %s", configPath)
	} else {
		log.Printf("✅ Using default configuration")
	}

	// Initialize database
	database.Initialize()
	if database.GetDB() == nil {
		log.Fatal("Failed to initialize database")
	}

	// Setup router and module system
	r, err := server.SetupRouter()
	if err != nil {
		log.Fatalf("Failed to set up server: %v", err)
	}

	cfg := config.Get()

	// Create a context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reload configuration when the file changes on disk
	if configPath != "" {
		go func() {
			if err := config.Watch(ctx, configPath); err != nil {
				logger.Warn("Config watcher stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\nShutting down gracefully...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		server.Shutdown(shutdownCtx)
		cancel()
	}()

	log.Printf("🚀 Starting ShowSync server on %s:%d", cfg.Server.Host, cfg.Server.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}

	<-ctx.Done()
	log.Println("Server shutdown complete")
}
