// Package socialmodule owns the social layer: likes, reviews, follows,
// badges, and in-app notifications.
package socialmodule

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/logger"
	"github.com/skoller/showsync/internal/modules/modulemanager"
	"github.com/skoller/showsync/internal/modules/socialmodule/api"
	"github.com/skoller/showsync/internal/services"
	"gorm.io/gorm"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the social module
	ModuleID = "system.social"

	// ModuleName is the display name for the social module
	ModuleName = "Social"
)

// Module implements the social features as a module
type Module struct {
	db       *gorm.DB
	eventBus events.EventBus

	service  *Service
	badges   *BadgeEvaluator
	notifier *Notifier
}

// Register registers the social module with the module system
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
	return false
}

// Migrate performs database migrations
func (m *Module) Migrate(db *gorm.DB) error {
	logger.Info("Migrating social database schema")
	return db.AutoMigrate(
		&database.SeriesLike{},
		&database.Review{},
		&database.Follow{},
		&database.Badge{},
		&database.UserBadge{},
		&database.Notification{},
	)
}

// Init initializes the social module
func (m *Module) Init() error {
	logger.Info("Initializing social module")

	if m.db == nil {
		m.db = database.GetDB()
	}
	if m.eventBus == nil {
		m.eventBus = events.GetGlobalEventBus()
	}

	catalog := services.MustGetService[services.CatalogService](services.CatalogServiceName)
	m.service = NewService(m.db, catalog, m.eventBus)

	m.badges = NewBadgeEvaluator(m.db, m.eventBus)
	if err := m.badges.Seed(context.Background()); err != nil {
		return err
	}
	if err := m.badges.Subscribe(m.eventBus); err != nil {
		return err
	}

	m.notifier = NewNotifier(m.db)
	if err := m.notifier.Subscribe(m.eventBus); err != nil {
		return err
	}

	logger.Info("Social module initialized", "badges_seeded", len(defaultBadges))
	return nil
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	handler := api.NewHandler(m.service, m.badges, m.notifier)
	api.RegisterRoutes(router, handler)
}

// Shutdown gracefully shuts down the module
func (m *Module) Shutdown(ctx context.Context) error {
	return nil
}
