package config

import (
	"os"
	"testing"
)

var configEnvVars = []string{
	"PORT", "ENV", "LOG_LEVEL", "STORE_DRIVER", "SQLITE_PATH",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_POOL_MIN", "DB_POOL_MAX",
	"AUTO_MIGRATE", "CORS_ORIGINS", "METRICS_ENABLED", "ACTIVITY_ACTOR",
	"IMPORT_DEFAULT_COUNTY", "IMPORT_HOME_STATE", "IMPORT_MAX_UPLOAD_MB",
}

// clearConfigEnvVars unsets every config variable for the duration of the test.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Env: "development"},
		Database: DatabaseConfig{
			Driver: DriverPostgres,
			Host:   "localhost", Port: "5432", Name: "dirtboard",
			User: "postgres", Password: "postgres", PoolMin: 2, PoolMax: 10,
		},
		CORS:     CORSConfig{Origins: []string{"http://localhost:3000"}},
		Activity: ActivityConfig{Actor: "system"},
		Import:   ImportConfig{DefaultCounty: "Putnam", HomeState: "FL", MaxUploadMB: 10},
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars(t)
	t.Setenv("DB_PASSWORD", "testpass")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected log level info, got %s", cfg.Log.Level)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Expected driver postgres, got %s", cfg.Database.Driver)
	}
	if cfg.Database.Name != "dirtboard" {
		t.Errorf("Expected db name dirtboard, got %s", cfg.Database.Name)
	}
	if cfg.Database.PoolMin != 2 || cfg.Database.PoolMax != 10 {
		t.Errorf("Expected pool 2..10, got %d..%d", cfg.Database.PoolMin, cfg.Database.PoolMax)
	}
	if !cfg.Database.AutoMigrate {
		t.Error("Expected AUTO_MIGRATE to default to true")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Expected metrics enabled by default")
	}
	if cfg.Activity.Actor != "system" {
		t.Errorf("Expected actor system, got %s", cfg.Activity.Actor)
	}
	if cfg.Import.DefaultCounty != "Putnam" || cfg.Import.HomeState != "FL" {
		t.Errorf("Unexpected import defaults: %+v", cfg.Import)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	clearConfigEnvVars(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_POOL_MIN", "5")
	t.Setenv("DB_POOL_MAX", "20")
	t.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("ACTIVITY_ACTOR", "sean")
	t.Setenv("IMPORT_HOME_STATE", "ga")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if !cfg.IsProduction() {
		t.Error("Expected production env")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Database.Host != "db" {
		t.Errorf("Expected host db, got %s", cfg.Database.Host)
	}
	if cfg.Database.PoolMin != 5 || cfg.Database.PoolMax != 20 {
		t.Errorf("Expected pool 5..20, got %d..%d", cfg.Database.PoolMin, cfg.Database.PoolMax)
	}
	if cfg.Metrics.Enabled {
		t.Error("Expected metrics disabled")
	}
	if cfg.Activity.Actor != "sean" {
		t.Errorf("Expected actor sean, got %s", cfg.Activity.Actor)
	}
	if cfg.Import.HomeState != "GA" {
		t.Errorf("Expected home state upper-cased, got %s", cfg.Import.HomeState)
	}
	if cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Expected first origin http://example.com, got %s", cfg.CORS.Origins[0])
	}
}

func TestLoad_MissingPassword(t *testing.T) {
	clearConfigEnvVars(t)

	_, err := Load()
	if err == nil {
		t.Error("Expected error when DB_PASSWORD is missing")
	}
}

func TestLoad_SQLiteNeedsNoPassword(t *testing.T) {
	clearConfigEnvVars(t)
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/leads.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Expected driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Database.SQLitePath != "/tmp/leads.db" {
		t.Errorf("Expected sqlite path, got %s", cfg.Database.SQLitePath)
	}
}

func TestValidate_InvalidPoolSizes(t *testing.T) {
	tests := []struct {
		name    string
		poolMin int
		poolMax int
		wantErr bool
	}{
		{name: "negative pool min", poolMin: -1, poolMax: 10, wantErr: true},
		{name: "zero pool max", poolMin: 0, poolMax: 0, wantErr: true},
		{name: "pool min greater than max", poolMin: 15, poolMax: 10, wantErr: true},
		{name: "valid pool sizes", poolMin: 2, poolMax: 10, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database.PoolMin = tt.poolMin
			cfg.Database.PoolMax = tt.poolMax

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }},
		{name: "missing db host", mutate: func(c *Config) { c.Database.Host = "" }},
		{name: "missing db password", mutate: func(c *Config) { c.Database.Password = "" }},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }},
		{name: "sqlite without path", mutate: func(c *Config) {
			c.Database.Driver = DriverSQLite
			c.Database.SQLitePath = ""
		}},
		{name: "missing CORS origins", mutate: func(c *Config) { c.CORS.Origins = []string{} }},
		{name: "missing actor", mutate: func(c *Config) { c.Activity.Actor = "" }},
		{name: "missing import county", mutate: func(c *Config) { c.Import.DefaultCounty = "" }},
		{name: "zero upload limit", mutate: func(c *Config) { c.Import.MaxUploadMB = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error but got none")
			}
		})
	}
}

func TestValidate_SQLiteIgnoresPostgresSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{Driver: DriverSQLite, SQLitePath: ":memory:"}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "single origin", input: "http://localhost:3000", expect: []string{"http://localhost:3000"}},
		{name: "multiple origins", input: "http://localhost:3000,http://localhost:3001", expect: []string{"http://localhost:3000", "http://localhost:3001"}},
		{name: "origins with spaces", input: " http://localhost:3000 , http://localhost:3001 ", expect: []string{"http://localhost:3000", "http://localhost:3001"}},
		{name: "empty string", input: "", expect: []string{}},
		{name: "only commas", input: ",,,", expect: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseOrigins(tt.input)
			if len(result) != len(tt.expect) {
				t.Errorf("Expected %d origins, got %d", len(tt.expect), len(result))
				return
			}
			for i, origin := range result {
				if origin != tt.expect[i] {
					t.Errorf("Expected origin %s at index %d, got %s", tt.expect[i], i, origin)
				}
			}
		})
	}
}
