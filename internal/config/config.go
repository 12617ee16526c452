package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "config.yaml"

// IngestMode decides what happens to vacancies already stored for a
// company when it is ingested again.
type IngestMode string

const (
	// IngestModeAppend keeps old rows and appends the new listing set.
	IngestModeAppend IngestMode = "append"
	// IngestModeReplace drops the company's rows before inserting.
	IngestModeReplace IngestMode = "replace"
)

// ParseIngestMode accepts "append" and "replace" in any case; empty means
// append.
func ParseIngestMode(s string) (IngestMode, error) {
	switch mode := IngestMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return IngestModeAppend, nil
	case IngestModeAppend, IngestModeReplace:
		return mode, nil
	default:
		return "", fmt.Errorf("ingest mode must be %q or %q, got %q", IngestModeAppend, IngestModeReplace, s)
	}
}

// Config holds the application configuration
type Config struct {
	LogLevel string         `yaml:"log_level"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Server   ServerConfig   `yaml:"server"`

	// Postgres is read from Database.ConfigFile, never from YAML.
	Postgres PostgresParams `yaml:"-"`
}

// APIConfig holds hh.ru client settings
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DatabaseConfig points at the ini file with connection parameters
type DatabaseConfig struct {
	ConfigFile string `yaml:"config_file"`
	Section    string `yaml:"section"`
}

// IngestConfig holds ingestion settings
type IngestConfig struct {
	EmployersFile string     `yaml:"employers_file"`
	Mode          IngestMode `yaml:"mode"`
}

// ServerConfig holds the HTTP API listen address
type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// Default returns a configuration usable without any file.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		API: APIConfig{
			BaseURL: "https://api.hh.ru",
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			ConfigFile: "database.ini",
			Section:    DefaultSection,
		},
		Ingest: IngestConfig{
			EmployersFile: "data/companies.json",
			Mode:          IngestModeAppend,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
		},
	}
}

// Load reads .env (if any), the YAML file named by APP_CONFIG (or
// config.yaml), applies environment overrides and finally the database ini
// file. A missing ini file or section is an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	path := DefaultConfigFile
	if v := os.Getenv("APP_CONFIG"); v != "" {
		path = v
	}

	cfg, err := LoadYAML(path, Default)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	params, err := LoadPostgres(cfg.Database.ConfigFile, cfg.Database.Section)
	if err != nil {
		return nil, err
	}
	cfg.Postgres = params

	return cfg, nil
}

// LoadYAML starts from the defaults built by fn and overlays the YAML file
// at path. An empty path or a missing file yields the defaults unchanged.
func LoadYAML[T any](path string, fn func() *T) (*T, error) {
	cfg := fn()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("HH_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("EMPLOYERS_FILE"); v != "" {
		c.Ingest.EmployersFile = v
	}
	if v := os.Getenv("INGEST_MODE"); v != "" {
		c.Ingest.Mode = IngestMode(v)
	}
	if v := os.Getenv("DATABASE_CONFIG"); v != "" {
		c.Database.ConfigFile = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var problems []string

	if mode, err := ParseIngestMode(string(c.Ingest.Mode)); err != nil {
		problems = append(problems, err.Error())
	} else {
		c.Ingest.Mode = mode
	}

	if c.Ingest.EmployersFile == "" {
		problems = append(problems, "employers file is required")
	}

	if c.Database.ConfigFile == "" {
		problems = append(problems, "database config file is required")
	}

	if c.Database.Section == "" {
		c.Database.Section = DefaultSection
	}

	if c.API.Timeout < 0 {
		problems = append(problems, "api timeout cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}
