// Package database provides the shared gorm connection and the
// persistence models used by all modules. Schema migration is owned by
// the modules themselves through their Migrate hooks.
package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/skoller/showsync/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// Initialize sets up the database connection based on the configured type
func Initialize() {
	cfg := config.Get().Database

	var err error
	switch cfg.Type {
	case "postgres":
		db, err = connectPostgres(cfg)
	case "sqlite", "":
		db, err = connectSQLite(cfg)
	default:
		log.Fatalf("Unsupported database type: %s", cfg.Type)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to access underlying connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnLifetime)

	log.Printf("✅ Database initialized with %s", cfg.Type)
}

func connectPostgres(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogMode(cfg),
	})
}

func connectSQLite(cfg config.DatabaseConfig) (*gorm.DB, error) {
	path := cfg.DatabasePath
	if dir := filepath.Dir(path); dir != "." {
		os.MkdirAll(dir, 0755)
	}

	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogMode(cfg),
	})
}

func gormLogMode(cfg config.DatabaseConfig) gormlogger.Interface {
	if cfg.LogQueries {
		return gormlogger.Default.LogMode(gormlogger.Info)
	}
	return gormlogger.Default.LogMode(gormlogger.Warn)
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// SetDB replaces the shared instance; used by tests to substitute an
// in-memory database.
func SetDB(instance *gorm.DB) {
	db = instance
}
