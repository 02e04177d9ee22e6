// Package config provides centralized configuration management for ShowSync.
// Configuration is loaded from a YAML file with environment variable
// overrides and struct-tag defaults, then exposed through a process-wide
// accessor. Components receive their dependencies by injection; only the
// process entry point reads the global.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	Catalog  CatalogConfig  `yaml:"catalog" json:"catalog"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host         string        `yaml:"host" json:"host" env:"SHOWSYNC_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" json:"port" env:"SHOWSYNC_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout" env:"SHOWSYNC_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout" env:"SHOWSYNC_WRITE_TIMEOUT" default:"30s"`
	EnableCORS   bool          `yaml:"enable_cors" json:"enable_cors" env:"SHOWSYNC_ENABLE_CORS" default:"true"`
}

// DatabaseConfig holds persistence configuration
type DatabaseConfig struct {
	Type         string        `yaml:"type" json:"type" env:"DATABASE_TYPE" default:"sqlite"`
	Host         string        `yaml:"host" json:"host" env:"POSTGRES_HOST" default:"localhost"`
	Port         int           `yaml:"port" json:"port" env:"POSTGRES_PORT" default:"5432"`
	Username     string        `yaml:"username" json:"username" env:"POSTGRES_USER" default:"showsync"`
	Password     string        `yaml:"password" json:"password" env:"POSTGRES_PASSWORD"`
	Database     string        `yaml:"database" json:"database" env:"POSTGRES_DB" default:"showsync"`
	DatabasePath string        `yaml:"database_path" json:"database_path" env:"SHOWSYNC_DATABASE_PATH" default:"./data/showsync.db"`
	MaxOpenConns int           `yaml:"max_open_conns" json:"max_open_conns" env:"DB_MAX_OPEN_CONNS" default:"50"`
	MaxIdleConns int           `yaml:"max_idle_conns" json:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" default:"2h"`
	LogQueries   bool          `yaml:"log_queries" json:"log_queries" env:"DB_LOG_QUERIES" default:"false"`
}

// CatalogConfig holds external show catalog configuration
type CatalogConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url" env:"SHOWSYNC_CATALOG_URL" default:"https://api.tvmaze.com"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout" env:"SHOWSYNC_CATALOG_TIMEOUT" default:"15s"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent" env:"SHOWSYNC_CATALOG_USER_AGENT" default:"ShowSync/1.0"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" env:"LOG_LEVEL" default:"info"`
	Format string `yaml:"format" json:"format" env:"LOG_FORMAT" default:"text"`
}

var (
	current *Config
	mu      sync.RWMutex
)

// Load reads configuration from the given path (optional) and applies
// defaults and environment overrides. Safe to call again on reload.
func Load(path string) error {
	cfg := &Config{}
	applyDefaults(reflect.ValueOf(cfg).Elem())

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(reflect.ValueOf(cfg).Elem())

	mu.Lock()
	current = cfg
	mu.Unlock()
	return nil
}

// Get returns the current configuration, loading defaults if Load was
// never called (tests mostly).
func Get() *Config {
	mu.RLock()
	if current != nil {
		defer mu.RUnlock()
		return current
	}
	mu.RUnlock()

	_ = Load("")
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// applyDefaults walks struct fields and fills zero values from `default` tags
func applyDefaults(v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			applyDefaults(field)
			continue
		}
		def := t.Field(i).Tag.Get("default")
		if def == "" || !field.IsZero() {
			continue
		}
		setField(field, def)
	}
}

// applyEnvOverrides walks struct fields and applies `env` tag values
func applyEnvOverrides(v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			applyEnvOverrides(field)
			continue
		}
		envName := t.Field(i).Tag.Get("env")
		if envName == "" {
			continue
		}
		if val, ok := os.LookupEnv(envName); ok && val != "" {
			setField(field, val)
		}
	}
}

func setField(field reflect.Value, raw string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		if b, err := strconv.ParseBool(strings.ToLower(raw)); err == nil {
			field.SetBool(b)
		}
	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			if d, err := time.ParseDuration(raw); err == nil {
				field.SetInt(int64(d))
			}
			return
		}
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			field.SetInt(n)
		}
	}
}
