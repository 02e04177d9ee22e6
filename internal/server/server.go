// Package server wires the HTTP surface together: the gin engine, the
// event bus, and the module system.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skoller/showsync/internal/config"
	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/logger"
	"github.com/skoller/showsync/internal/middleware"
	"github.com/skoller/showsync/internal/modules/modulemanager"

	// Import all modules to trigger their registration
	_ "github.com/skoller/showsync/internal/modules/catalogmodule"
	_ "github.com/skoller/showsync/internal/modules/socialmodule"
	_ "github.com/skoller/showsync/internal/modules/trackingmodule"
	_ "github.com/skoller/showsync/internal/modules/usermodule"
)

// Global instances
var (
	systemEventBus    events.EventBus
	moduleInitialized bool
)

// SetupRouter configures and returns the main router
func SetupRouter() (*gin.Engine, error) {
	r := gin.Default()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())

	if config.Get().Server.EnableCORS {
		r.Use(corsMiddleware())
	}

	if err := initializeEventBus(); err != nil {
		return nil, err
	}
	if err := initializeModules(); err != nil {
		return nil, err
	}

	setupRoutes(r)
	return r, nil
}

// Shutdown stops the modules and the event bus in reverse startup order
func Shutdown(ctx context.Context) {
	modulemanager.ShutdownAll(ctx)

	if systemEventBus != nil {
		if err := systemEventBus.Stop(ctx); err != nil {
			logger.Warn("Event bus shutdown error", "error", err)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// initializeEventBus starts the system event bus and publishes it
// globally so modules can reach it during Init.
func initializeEventBus() error {
	if systemEventBus != nil {
		return nil
	}

	bus := events.NewEventBus(1000)
	if err := bus.Start(context.Background()); err != nil {
		return err
	}

	systemEventBus = bus
	events.SetGlobalEventBus(bus)

	bus.PublishAsync(events.Event{
		Type:    events.EventSystemStarted,
		Source:  "server",
		Message: "ShowSync starting",
		Data:    map[string]interface{}{"time": time.Now().Format(time.RFC3339)},
	})
	return nil
}

// initializeModules migrates and initializes every registered module
func initializeModules() error {
	if moduleInitialized {
		return nil
	}

	if err := modulemanager.LoadAll(database.GetDB()); err != nil {
		return err
	}
	moduleInitialized = true
	return nil
}
