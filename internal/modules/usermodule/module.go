// Package usermodule owns user accounts. There is no authentication;
// accounts exist so watch state and social features have an owner.
package usermodule

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/logger"
	"github.com/skoller/showsync/internal/modules/modulemanager"
	"github.com/skoller/showsync/internal/modules/usermodule/api"
	"github.com/skoller/showsync/internal/services"
	"gorm.io/gorm"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the user module
	ModuleID = "system.users"

	// ModuleName is the display name for the user module
	ModuleName = "Users"
)

// Module implements user management as a module
type Module struct {
	db       *gorm.DB
	eventBus events.EventBus
	service  services.UserService
}

// Register registers the user module with the module system
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
	logger.Info("Migrating user database schema")
	return db.AutoMigrate(&database.User{})
}

// Init initializes the user module
func (m *Module) Init() error {
	logger.Info("Initializing user module")

	if m.db == nil {
		m.db = database.GetDB()
	}
	if m.eventBus == nil {
		m.eventBus = events.GetGlobalEventBus()
	}

	m.service = NewService(m.db, m.eventBus)
	services.RegisterService(services.UserServiceName, m.service)

	logger.Info("User service registered with service registry")
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
