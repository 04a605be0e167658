// Package config provides application configuration management with support
// for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	API     APIConfig
	Stub    StubConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds local data storage configuration.
type StorageConfig struct {
	// DataPath is the base directory for the local database, the
	// catalog search index, and cached images.
	DataPath string
}

// APIConfig holds backend API client configuration.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StubConfig holds development backend configuration.
type StubConfig struct {
	Port         string
	DatabasePath string        // defaults to {data}/stub.db
	Seed         bool          // load the sample catalog on startup
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// PASETO v4 symmetric key, hex-encoded. Set from
	// auth.LoadOrGenerateKey in main when empty.
	AccessTokenKey      string
	AccessTokenDuration time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for local data storage")
	apiBaseURL := flag.String("api-url", "", "Backend API base URL")
	apiTimeout := flag.String("api-timeout", "", "Backend request timeout (default: 30s)")

	stubPort := flag.String("port", "", "Development backend port (default: 8080)")
	stubDBPath := flag.String("stub-db-path", "", "Development backend database path")
	stubSeed := flag.String("seed", "", "Seed the sample catalog on startup (default: true)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	accessTokenDuration := flag.String("access-token-duration", "", "Access token lifetime (default: 720h)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			DataPath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		API: APIConfig{
			BaseURL: getConfigValue(*apiBaseURL, "API_URL", "http://localhost:8080"),
		},
		Stub: StubConfig{
			Port:           getConfigValue(*stubPort, "STUB_PORT", "8080"),
			DatabasePath:   getConfigValue(*stubDBPath, "STUB_DB_PATH", ""),
			Seed:           getBoolConfigValue(*stubSeed, "STUB_SEED", true),
			AccessTokenKey: getConfigValue("", "STUB_ACCESS_TOKEN_KEY", ""),
		},
	}

	durations := []struct {
		dest     *time.Duration
		flagVal  string
		envKey   string
		fallback string
	}{
		{&cfg.API.Timeout, *apiTimeout, "API_TIMEOUT", "30s"},
		{&cfg.Stub.ReadTimeout, *readTimeout, "STUB_READ_TIMEOUT", "15s"},
		{&cfg.Stub.WriteTimeout, *writeTimeout, "STUB_WRITE_TIMEOUT", "15s"},
		{&cfg.Stub.IdleTimeout, *idleTimeout, "STUB_IDLE_TIMEOUT", "60s"},
		{&cfg.Stub.AccessTokenDuration, *accessTokenDuration, "ACCESS_TOKEN_DURATION", "720h"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagVal, d.envKey, d.fallback)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dest = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if cfg.Stub.DatabasePath == "" {
		cfg.Stub.DatabasePath = filepath.Join(cfg.Storage.DataPath, "stub.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}
	if c.API.BaseURL == "" {
		return errors.New("API base URL is required")
	}

	return nil
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/.jewel.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, ".jewel")

	expanded, err := expandPath(c.Storage.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts "true", "1", "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	switch strings.ToLower(strValue) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// loadEnvFile loads KEY=VALUE pairs from a file into the process
// environment. Existing environment variables are not overwritten.
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}
