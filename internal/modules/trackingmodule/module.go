// Package trackingmodule owns per-user watch state: viewing history,
// season and series percentages, the series-watched cascade, and the
// watchlist.
package trackingmodule

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/logger"
	"github.com/skoller/showsync/internal/modules/databasemodule"
	"github.com/skoller/showsync/internal/modules/modulemanager"
	"github.com/skoller/showsync/internal/modules/trackingmodule/api"
	"github.com/skoller/showsync/internal/services"
	"gorm.io/gorm"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the tracking module
	ModuleID = "system.tracking"

	// ModuleName is the display name for the tracking module
	ModuleName = "Watch Tracking"
)

// Module implements watch tracking as a module
type Module struct {
	db       *gorm.DB
	eventBus events.EventBus
	service  services.TrackingService
}

// Register registers the tracking module with the module system
func Register() {
	modulemanager.Register(&Module{})
}

// ID returns the unique module identifier
func (m *Module) ID() string {
	return ModuleID
}

// Name returns the module display name
func (m *Module) Name() string {
	return ModuleName
}

// Core returns whether this is a core module
func (m *Module) Core() bool {
	return true
}

// Migrate performs database migrations
func (m *Module) Migrate(db *gorm.DB) error {
	logger.Info("Migrating tracking database schema")
	return db.AutoMigrate(
		&database.ViewingHistoryEntry{},
		&database.SeriesProgress{},
		&database.SeasonProgress{},
		&database.WatchedSeries{},
		&database.WatchlistEntry{},
	)
}

// Init initializes the tracking module
func (m *Module) Init() error {
	logger.Info("Initializing tracking module")

	if m.db == nil {
		m.db = database.GetDB()
	}
	if m.eventBus == nil {
		m.eventBus = events.GetGlobalEventBus()
	}

	catalog := services.MustGetService[services.CatalogService](services.CatalogServiceName)
	txm := databasemodule.NewTransactionManager(m.db)

	m.service = NewService(m.db, txm, catalog, m.eventBus)
	services.RegisterService(services.TrackingServiceName, m.service)

	logger.Info("Tracking service registered with service registry")
	return nil
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	handler := api.NewHandler(m.service, m.db)
	api.RegisterRoutes(router, handler)
}

// Shutdown gracefully shuts down the module
func (m *Module) Shutdown(ctx context.Context) error {
	return nil
}
