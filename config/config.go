package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Default values applied before any environment source is read.
const (
	DefaultRedirectURI = "http://localhost:8888/callback"
	DefaultThreshold   = 15.0
	DefaultWorkers     = 5
	DefaultSearchLimit = 10
	DefaultDataDir     = "data"
)

// Config holds all configuration values
type Config struct {
	Spotify SpotifyConfig
	Oracle  OracleConfig
	Matcher MatcherConfig
	DataDir string
}

// SpotifyConfig holds Spotify API configuration
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// OracleConfig holds the LLM judge configuration. An empty APIKey disables
// the oracle entirely; every track then falls through to distance scoring.
type OracleConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// MatcherConfig tunes the track-matching engine.
type MatcherConfig struct {
	Threshold   float64 // distance above which a match needs manual review
	Workers     int     // parallel search worker count
	SearchLimit int     // candidates requested per search query
}

// Load loads configuration following the specified order:
// 1. Start with default values
// 2. Load from OS environment variables (only if they exist)
// 3. Load from .env file (only if it exists and values exist)
func Load() (*Config, error) {
	config := &Config{}

	// Step 1: Initialize with default values
	config.initializeDefaults()

	// Step 2: Load from OS environment variables (only if they exist)
	config.applyEnv()

	// Step 3: Load from .env file (only if it exists and values exist)
	config.loadFromEnvFile()

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// initializeDefaults sets up the initial configuration with default values
func (c *Config) initializeDefaults() {
	c.Spotify = SpotifyConfig{
		RedirectURI: DefaultRedirectURI,
	}
	c.Matcher = MatcherConfig{
		Threshold:   DefaultThreshold,
		Workers:     DefaultWorkers,
		SearchLimit: DefaultSearchLimit,
	}
	c.DataDir = DefaultDataDir
}

// loadFromEnvFile loads configuration from a .env file when one exists.
func (c *Config) loadFromEnvFile() {
	if err := godotenv.Load(); err != nil {
		// No .env file, skip this step
		return
	}
	c.applyEnv()
}

// applyEnv copies every environment variable that is set and non-empty
// into the config.
func (c *Config) applyEnv() {
	if value := os.Getenv("SPOTIFY_CLIENT_ID"); value != "" {
		c.Spotify.ClientID = value
	}
	if value := os.Getenv("SPOTIFY_CLIENT_SECRET"); value != "" {
		c.Spotify.ClientSecret = value
	}
	if value := os.Getenv("SPOTIFY_REDIRECT_URI"); value != "" {
		c.Spotify.RedirectURI = value
	}

	if value := os.Getenv("OPENROUTER_API_KEY"); value != "" {
		c.Oracle.APIKey = value
	}
	if value := os.Getenv("OPENROUTER_MODEL"); value != "" {
		c.Oracle.Model = value
	}
	if value := os.Getenv("OPENROUTER_BASE_URL"); value != "" {
		c.Oracle.BaseURL = value
	}

	if value := os.Getenv("MATCH_THRESHOLD"); value != "" {
		if threshold, err := parsePositiveFloat(value); err == nil {
			c.Matcher.Threshold = threshold
		}
	}
	if value := os.Getenv("MATCH_WORKERS"); value != "" {
		if workers, err := parsePositiveInt(value); err == nil {
			c.Matcher.Workers = workers
		}
	}
	if value := os.Getenv("MATCH_SEARCH_LIMIT"); value != "" {
		if limit, err := parsePositiveInt(value); err == nil {
			c.Matcher.SearchLimit = limit
		}
	}

	if value := os.Getenv("DATA_DIR"); value != "" {
		c.DataDir = value
	}
}

// parsePositiveFloat parses a float that must be greater than zero.
func parsePositiveFloat(value string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s': %w", value, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("value must be positive, got %s", value)
	}
	return parsed, nil
}

// parsePositiveInt parses an integer that must be greater than zero.
func parsePositiveInt(value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid integer '%s': %w", value, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("value must be positive, got %s", value)
	}
	return parsed, nil
}

// validate checks that all required configuration values are present
func (c *Config) validate() error {
	var missingFields []string

	if c.Spotify.ClientID == "" {
		missingFields = append(missingFields, "SPOTIFY_CLIENT_ID")
	}
	if c.Spotify.ClientSecret == "" {
		missingFields = append(missingFields, "SPOTIFY_CLIENT_SECRET")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required configuration values:\n%s\n\nSet these values via environment variables or a .env file", strings.Join(missingFields, "\n"))
	}

	return nil
}
