package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Metrics  MetricsConfig
	Activity ActivityConfig
	Import   ImportConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level string
}

// DatabaseConfig selects the record store and holds its connection settings.
// Host through PoolMax apply to postgres only; SQLitePath to sqlite only.
type DatabaseConfig struct {
	Driver      string
	SQLitePath  string
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	PoolMin     int
	PoolMax     int
	AutoMigrate bool
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// ActivityConfig holds defaults for activity log entries.
type ActivityConfig struct {
	// Actor is recorded as created_by when a request does not name one.
	Actor string
}

// ImportConfig holds defaults for the lead spreadsheet importer.
type ImportConfig struct {
	DefaultCounty string
	HomeState     string
	MaxUploadMB   int
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("SQLITE_PATH", "dirtboard.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "dirtboard")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("ACTIVITY_ACTOR", "system")
	v.SetDefault("IMPORT_DEFAULT_COUNTY", "Putnam")
	v.SetDefault("IMPORT_HOME_STATE", "FL")
	v.SetDefault("IMPORT_MAX_UPLOAD_MB", 10)

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(v.GetString("STORE_DRIVER")),
			SQLitePath:  v.GetString("SQLITE_PATH"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			PoolMin:     v.GetInt("DB_POOL_MIN"),
			PoolMax:     v.GetInt("DB_POOL_MAX"),
			AutoMigrate: v.GetBool("AUTO_MIGRATE"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
		Activity: ActivityConfig{
			Actor: v.GetString("ACTIVITY_ACTOR"),
		},
		Import: ImportConfig{
			DefaultCounty: v.GetString("IMPORT_DEFAULT_COUNTY"),
			HomeState:     strings.ToUpper(v.GetString("IMPORT_HOME_STATE")),
			MaxUploadMB:   v.GetInt("IMPORT_MAX_UPLOAD_MB"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
// Connection settings are only checked for the selected driver.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if err := c.Database.validatePostgres(); err != nil {
			return err
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}
	if c.Activity.Actor == "" {
		return fmt.Errorf("ACTIVITY_ACTOR is required")
	}
	if c.Import.DefaultCounty == "" {
		return fmt.Errorf("IMPORT_DEFAULT_COUNTY is required")
	}
	if c.Import.MaxUploadMB < 1 {
		return fmt.Errorf("IMPORT_MAX_UPLOAD_MB must be at least 1")
	}

	return nil
}

func (d DatabaseConfig) validatePostgres() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
