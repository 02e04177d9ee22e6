package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/modules/modulemanager"
	"github.com/skoller/showsync/internal/server/handlers"
)

// setupRoutes registers server-level routes and delegates the rest to
// the modules.
func setupRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", healthCheck)

		if systemEventBus != nil {
			eventsHandler := handlers.NewEventsHandler(systemEventBus)
			eventsGroup := api.Group("/events")
			{
				eventsGroup.GET("", eventsHandler.GetEvents)
				eventsGroup.GET("/stream", eventsHandler.StreamEvents)
			}
		}

		adminHandler := handlers.NewAdminHandler()
		adminGroup := api.Group("/admin")
		{
			adminGroup.GET("/system", adminHandler.GetSystemStatus)
			adminGroup.GET("/modules", listModules)
		}
	}

	// Module routes (catalog, tracking, social, users)
	modulemanager.RegisterRoutes(r)
}

// healthCheck reports liveness plus the health of the core dependencies
func healthCheck(c *gin.Context) {
	status := http.StatusOK
	health := gin.H{"status": "ok"}

	if sqlDB, err := database.GetDB().DB(); err != nil || sqlDB.Ping() != nil {
		status = http.StatusServiceUnavailable
		health["status"] = "degraded"
		health["database"] = "unreachable"
	} else {
		health["database"] = "ok"
	}

	if systemEventBus != nil {
		if err := systemEventBus.Health(); err != nil {
			health["events"] = err.Error()
		} else {
			health["events"] = "ok"
		}
	}

	c.JSON(status, health)
}

// listModules reports the registered modules and their state
func listModules(c *gin.Context) {
	type moduleInfo struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Core bool   `json:"core"`
	}

	modules := modulemanager.ListModules()
	out := make([]moduleInfo, 0, len(modules))
	for _, m := range modules {
		out = append(out, moduleInfo{ID: m.ID(), Name: m.Name(), Core: m.Core()})
	}
	c.JSON(http.StatusOK, gin.H{"modules": out, "count": len(out)})
}
