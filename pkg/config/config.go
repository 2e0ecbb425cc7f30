package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// Config holds all configuration for hotels-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, signing keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Warehouse database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Reservation source configuration
	Source SourceConfig `yaml:"source"`

	// Pipeline configuration
	Pipeline PipelineConfig `yaml:"pipeline"`

	// RebuildKey signs and verifies the bearer tokens accepted by the
	// internal rebuild endpoint. Server will fail to start without it.
	RebuildKey string `yaml:"-" env:"REBUILD_KEY"` // Secret - not in YAML
}

// DatabaseConfig holds PostgreSQL warehouse configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"hotels"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"hotels_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// SourceConfig selects where raw reservations are loaded from.
// Kind is one of "csv", "postgres" or "mssql".
type SourceConfig struct {
	Kind string `yaml:"kind" env:"SOURCE_KIND" env-default:"postgres"`

	// CSVPath is a local file path or an http(s) URL, used when Kind is "csv".
	CSVPath string `yaml:"csv_path" env:"SOURCE_CSV_PATH" env-default:""`

	// MSSQL source connection, used when Kind is "mssql".
	MSSQL MSSQLConfig `yaml:"mssql"`
}

// MSSQLConfig holds SQL Server source connection settings.
type MSSQLConfig struct {
	Host     string `yaml:"host" env:"MSSQL_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"MSSQL_PORT" env-default:"1433"`
	User     string `yaml:"user" env:"MSSQL_USER" env-default:"sa"`
	Password string `yaml:"-" env:"MSSQL_PASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"MSSQL_DATABASE" env-default:"reservations"`
	Table    string `yaml:"table" env:"MSSQL_TABLE" env-default:"hotel_reservations"`
}

// ConnectionString returns a go-mssqldb connection URL.
func (c *MSSQLConfig) ConnectionString() string {
	return fmt.Sprintf(
		"sqlserver://%s:%s@%s:%d?database=%s",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

// PipelineConfig holds the dataset calendar and aggregation bounds. The
// span is configured in one place and injected everywhere a calendar axis
// is needed, so every densified table agrees on its extent.
type PipelineConfig struct {
	SpanStart string `yaml:"span_start" env:"PIPELINE_SPAN_START" env-default:"2015-07-01"`
	SpanEnd   string `yaml:"span_end" env:"PIPELINE_SPAN_END" env-default:"2017-08-31"`

	// MaxLeadTime bounds the lead-time cancellation table; longer lead
	// times are excluded from it.
	MaxLeadTime int `yaml:"max_lead_time" env:"PIPELINE_MAX_LEAD_TIME" env-default:"365"`
}

// Span parses the configured dataset span.
func (c *PipelineConfig) Span() (models.DateSpan, error) {
	start, err := time.ParseInLocation(time.DateOnly, c.SpanStart, time.UTC)
	if err != nil {
		return models.DateSpan{}, fmt.Errorf("invalid span_start: %w", err)
	}
	end, err := time.ParseInLocation(time.DateOnly, c.SpanEnd, time.UTC)
	if err != nil {
		return models.DateSpan{}, fmt.Errorf("invalid span_end: %w", err)
	}
	if end.Before(start) {
		return models.DateSpan{}, fmt.Errorf("span_end %s before span_start %s", c.SpanEnd, c.SpanStart)
	}
	return models.DateSpan{Start: start, End: end}, nil
}

// Load reads configuration from config.yaml with environment variable
// overrides. When no config.yaml exists, configuration comes from the
// environment alone. The version parameter is injected at build time and set
// on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if _, err := cfg.Pipeline.Span(); err != nil {
		return nil, err
	}

	return cfg, nil
}
