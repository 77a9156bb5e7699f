package config

import (
	"os"
	"strings"
	"testing"
)

func TestConfigValidation(t *testing.T) {
	// Test that validation fails when required fields are missing
	cfg := &Config{}

	err := cfg.validate()
	if err == nil {
		t.Error("Expected validation to fail with empty config")
	}

	// Check that error message includes helpful information
	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "SPOTIFY_CLIENT_ID") {
		t.Error("Expected error message to mention SPOTIFY_CLIENT_ID")
	}
	if !strings.Contains(errorMsg, "SPOTIFY_CLIENT_SECRET") {
		t.Error("Expected error message to mention SPOTIFY_CLIENT_SECRET")
	}

	// Test valid configuration
	cfg = &Config{
		Spotify: SpotifyConfig{
			ClientID:     "test_client_id",
			ClientSecret: "test_client_secret",
		},
	}

	err = cfg.validate()
	if err != nil {
		t.Errorf("Expected no validation error, got %v", err)
	}

	// Test missing Spotify ClientID
	cfg.Spotify.ClientID = ""
	err = cfg.validate()
	if err == nil {
		t.Error("Expected validation error for missing ClientID")
	}

	// Test missing Spotify ClientSecret
	cfg.Spotify.ClientID = "test_client_id"
	cfg.Spotify.ClientSecret = ""
	err = cfg.validate()
	if err == nil {
		t.Error("Expected validation error for missing ClientSecret")
	}

	// The oracle key is optional; leaving it empty must not fail validation
	cfg.Spotify.ClientSecret = "test_client_secret"
	cfg.Oracle.APIKey = ""
	err = cfg.validate()
	if err != nil {
		t.Errorf("Expected no validation error without oracle key, got %v", err)
	}
}

func TestInitializeDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.initializeDefaults()

	// Test that defaults are set correctly
	if cfg.Spotify.ClientID != "" {
		t.Errorf("Expected empty ClientID, got '%s'", cfg.Spotify.ClientID)
	}
	if cfg.Spotify.ClientSecret != "" {
		t.Errorf("Expected empty ClientSecret, got '%s'", cfg.Spotify.ClientSecret)
	}
	if cfg.Spotify.RedirectURI != "http://localhost:8888/callback" {
		t.Errorf("Expected default RedirectURI, got '%s'", cfg.Spotify.RedirectURI)
	}

	if cfg.Oracle.APIKey != "" {
		t.Errorf("Expected empty oracle APIKey, got '%s'", cfg.Oracle.APIKey)
	}

	if cfg.Matcher.Threshold != 15.0 {
		t.Errorf("Expected default threshold 15, got %v", cfg.Matcher.Threshold)
	}
	if cfg.Matcher.Workers != 5 {
		t.Errorf("Expected default workers 5, got %d", cfg.Matcher.Workers)
	}
	if cfg.Matcher.SearchLimit != 10 {
		t.Errorf("Expected default search limit 10, got %d", cfg.Matcher.SearchLimit)
	}

	if cfg.DataDir != "data" {
		t.Errorf("Expected default data dir 'data', got '%s'", cfg.DataDir)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{}
	cfg.initializeDefaults()

	// Set some environment variables
	os.Setenv("SPOTIFY_CLIENT_ID", "test_client_id")
	os.Setenv("OPENROUTER_API_KEY", "test_oracle_key")
	os.Setenv("MATCH_THRESHOLD", "22.5")
	os.Setenv("MATCH_WORKERS", "3")
	os.Setenv("DATA_DIR", "/tmp/nts")
	defer func() {
		os.Unsetenv("SPOTIFY_CLIENT_ID")
		os.Unsetenv("OPENROUTER_API_KEY")
		os.Unsetenv("MATCH_THRESHOLD")
		os.Unsetenv("MATCH_WORKERS")
		os.Unsetenv("DATA_DIR")
	}()

	cfg.applyEnv()

	// Test that values were loaded
	if cfg.Spotify.ClientID != "test_client_id" {
		t.Errorf("Expected ClientID 'test_client_id', got '%s'", cfg.Spotify.ClientID)
	}
	if cfg.Oracle.APIKey != "test_oracle_key" {
		t.Errorf("Expected oracle APIKey 'test_oracle_key', got '%s'", cfg.Oracle.APIKey)
	}
	if cfg.Matcher.Threshold != 22.5 {
		t.Errorf("Expected threshold 22.5, got %v", cfg.Matcher.Threshold)
	}
	if cfg.Matcher.Workers != 3 {
		t.Errorf("Expected workers 3, got %d", cfg.Matcher.Workers)
	}
	if cfg.DataDir != "/tmp/nts" {
		t.Errorf("Expected data dir '/tmp/nts', got '%s'", cfg.DataDir)
	}

	// Test that unset values don't override defaults
	if cfg.Spotify.RedirectURI != "http://localhost:8888/callback" {
		t.Errorf("Expected default RedirectURI, got '%s'", cfg.Spotify.RedirectURI)
	}
	if cfg.Matcher.SearchLimit != 10 {
		t.Errorf("Expected default search limit 10, got %d", cfg.Matcher.SearchLimit)
	}
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	cfg := &Config{}
	cfg.initializeDefaults()

	os.Setenv("MATCH_THRESHOLD", "nonsense")
	os.Setenv("MATCH_WORKERS", "-2")
	defer func() {
		os.Unsetenv("MATCH_THRESHOLD")
		os.Unsetenv("MATCH_WORKERS")
	}()

	cfg.applyEnv()

	// Unparseable or non-positive numbers keep the defaults
	if cfg.Matcher.Threshold != 15.0 {
		t.Errorf("Expected default threshold 15, got %v", cfg.Matcher.Threshold)
	}
	if cfg.Matcher.Workers != 5 {
		t.Errorf("Expected default workers 5, got %d", cfg.Matcher.Workers)
	}
}

func TestParsePositiveHelpers(t *testing.T) {
	if _, err := parsePositiveFloat("0"); err == nil {
		t.Error("Expected error for zero threshold")
	}
	if v, err := parsePositiveFloat(" 12.5 "); err != nil || v != 12.5 {
		t.Errorf("Expected 12.5, got %v (err %v)", v, err)
	}
	if _, err := parsePositiveInt("abc"); err == nil {
		t.Error("Expected error for non-numeric worker count")
	}
	if v, err := parsePositiveInt("8"); err != nil || v != 8 {
		t.Errorf("Expected 8, got %d (err %v)", v, err)
	}
}
