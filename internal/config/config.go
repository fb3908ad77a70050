// Package config assembles the runtime configuration for the voyant commands.
// Values layer in order: built-in defaults, an optional YAML file, then
// environment variables. Environment always wins, and API keys only ever come
// from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/voyant/pkg/domain"
)

// Config drives agent and server construction.
type Config struct {
	Model         string `yaml:"model"`
	MaxRounds     int    `yaml:"max_rounds"`
	ParallelTools bool   `yaml:"parallel_tools"`
	ProfilePath   string `yaml:"profile_path"`
	LogLevel      string `yaml:"log_level"`

	Serve  Serve  `yaml:"serve"`
	Search Search `yaml:"search"`
	Store  Store  `yaml:"store"`

	// Secrets, environment-only.
	GoogleAPIKey string `yaml:"-"`
	SerpAPIKey   string `yaml:"-"`
	StoreKey     string `yaml:"-"` // enables at-rest thread encryption when set
}

// Serve configures the HTTP API server.
type Serve struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Metrics bool   `yaml:"metrics"`
}

// Addr returns the listen address in host:port form.
func (s Serve) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Search configures the SerpAPI collaborators.
type Search struct {
	HL                   string `yaml:"hl"`
	GL                   string `yaml:"gl"`
	Currency             string `yaml:"currency"`
	FlightsTypeOverride  int    `yaml:"flights_type_override"`
	HotelsSortByOverride int    `yaml:"hotels_sort_by_override"`
}

// Overrides converts the configured forcing values to the domain form.
func (s Search) Overrides() domain.SearchOverrides {
	return domain.SearchOverrides{
		FlightsType:  s.FlightsTypeOverride,
		HotelsSortBy: s.HotelsSortByOverride,
	}
}

// Store selects thread and feedback persistence.
type Store struct {
	Backend    string `yaml:"backend"`  // "memory", "file" or "redis"
	FileDir    string `yaml:"file_dir"` // thread directory for the file backend
	RedisAddr  string `yaml:"redis_addr"`
	FeedbackDB string `yaml:"feedback_db"` // sqlite path; empty keeps feedback in memory

	// LockTTLSeconds bounds how long a crashed replica can hold a thread's
	// distributed lock. Zero keeps the built-in default.
	LockTTLSeconds int `yaml:"lock_ttl_seconds"`

	// MaskPatterns are regular expressions masked out of threads before they
	// are written, for keeping document numbers and the like off disk.
	MaskPatterns []string `yaml:"mask_patterns"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxRounds: domain.DefaultMaxRounds,
		LogLevel:  "info",
		Serve:     Serve{Host: "0.0.0.0", Port: 5001, Metrics: true},
		Search:    Search{HL: "en", GL: "us", Currency: "USD"},
		Store:     Store{Backend: "memory"},
	}
}

// Load builds the configuration. When path is empty, voyant.yaml in the
// working directory is tried and may be absent; an explicitly named file must
// exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = "voyant.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No file is fine; defaults plus environment apply.
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	c.SerpAPIKey = os.Getenv("SERPAPI_API_KEY")
	c.StoreKey = os.Getenv("VOYANT_STORE_KEY")

	c.Model = envOrDefault("VOYANT_MODEL", c.Model)
	c.MaxRounds = envIntOrDefault("VOYANT_MAX_ROUNDS", c.MaxRounds)
	c.ParallelTools = envBoolOrDefault("VOYANT_PARALLEL_TOOLS", c.ParallelTools)
	c.ProfilePath = envOrDefault("VOYANT_PROFILE", c.ProfilePath)
	c.LogLevel = envOrDefault("LOG_LEVEL", c.LogLevel)

	c.Serve.Host = envOrDefault("HOST", c.Serve.Host)
	c.Serve.Port = envIntOrDefault("PORT", c.Serve.Port)

	c.Search.HL = envOrDefault("SERPAPI_HL", c.Search.HL)
	c.Search.GL = envOrDefault("SERPAPI_GL", c.Search.GL)
	c.Search.Currency = envOrDefault("CURRENCY", c.Search.Currency)
	c.Search.FlightsTypeOverride = envIntOrDefault("FLIGHTS_TYPE_OVERRIDE", c.Search.FlightsTypeOverride)
	c.Search.HotelsSortByOverride = envIntOrDefault("HOTELS_SORT_BY_OVERRIDE", c.Search.HotelsSortByOverride)

	c.Store.Backend = envOrDefault("VOYANT_STORE", c.Store.Backend)
	c.Store.FileDir = envOrDefault("VOYANT_FILE_DIR", c.Store.FileDir)
	c.Store.RedisAddr = envOrDefault("VOYANT_REDIS_ADDR", c.Store.RedisAddr)
	c.Store.FeedbackDB = envOrDefault("VOYANT_FEEDBACK_DB", c.Store.FeedbackDB)
	c.Store.LockTTLSeconds = envIntOrDefault("VOYANT_LOCK_TTL_SECONDS", c.Store.LockTTLSeconds)
}

// EnvironmentStatus reports which required variables are missing.
type EnvironmentStatus struct {
	MissingVariables []string `json:"missing_variables"`
	IsConfigured     bool     `json:"is_configured"`
}

// CheckEnvironment verifies the keys the live collaborators require.
func (c Config) CheckEnvironment() EnvironmentStatus {
	missing := []string{}
	if c.SerpAPIKey == "" {
		missing = append(missing, "SERPAPI_API_KEY")
	}
	if c.GoogleAPIKey == "" {
		missing = append(missing, "GOOGLE_API_KEY")
	}
	return EnvironmentStatus{
		MissingVariables: missing,
		IsConfigured:     len(missing) == 0,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolOrDefault(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "1" || strings.EqualFold(v, "true")
}
