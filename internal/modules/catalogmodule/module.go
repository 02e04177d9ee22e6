// Package catalogmodule owns the local show catalog: the external
// catalog client, the cache of shows/seasons/episodes, and the
// ingestion pipeline that fills it.
package catalogmodule

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/skoller/showsync/internal/config"
	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/logger"
	"github.com/skoller/showsync/internal/modules/catalogmodule/api"
	"github.com/skoller/showsync/internal/modules/catalogmodule/client"
	"github.com/skoller/showsync/internal/modules/catalogmodule/ingest"
	"github.com/skoller/showsync/internal/modules/catalogmodule/store"
	"github.com/skoller/showsync/internal/modules/databasemodule"
	"github.com/skoller/showsync/internal/modules/modulemanager"
	"github.com/skoller/showsync/internal/services"
	"gorm.io/gorm"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the catalog module
	ModuleID = "system.catalog"

	// ModuleName is the display name for the catalog module
	ModuleName = "Show Catalog"
)

// Module implements the catalog functionality as a module
type Module struct {
	db       *gorm.DB
	eventBus events.EventBus

	cache    *store.Store
	catalog  client.Client
	pipeline *ingest.Pipeline

	service services.CatalogService
}

// Register registers the catalog module with the module system
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
	logger.Info("Migrating catalog database schema")
	return db.AutoMigrate(
		&database.Show{},
		&database.Season{},
		&database.Episode{},
	)
}

// Init initializes the catalog module
func (m *Module) Init() error {
	logger.Info("Initializing catalog module")

	if m.db == nil {
		m.db = database.GetDB()
	}
	if m.eventBus == nil {
		m.eventBus = events.GetGlobalEventBus()
	}

	cfg := config.Get().Catalog
	if m.catalog == nil {
		m.catalog = client.New(client.Options{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.RequestTimeout,
			UserAgent: cfg.UserAgent,
			Logger:    hclog.Default(),
		})
	}

	m.cache = store.NewStore(m.db)
	txm := databasemodule.NewTransactionManager(m.db)
	m.pipeline = ingest.NewPipeline(m.catalog, m.cache, txm, m.eventBus)

	m.service = NewService(m.pipeline, m.cache, m.catalog)
	services.RegisterService(services.CatalogServiceName, m.service)

	logger.Info("Catalog service registered with service registry")
	return nil
}

// SetCatalogClient overrides the remote client; used by tests
func (m *Module) SetCatalogClient(c client.Client) {
	m.catalog = c
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	handler := api.NewHandler(m.service)
	api.RegisterRoutes(router, handler)
}

// Shutdown gracefully shuts down the module
func (m *Module) Shutdown(ctx context.Context) error {
	return nil
}
