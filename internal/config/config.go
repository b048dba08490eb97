package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App  AppConfig
	API  APIConfig
	Sync SyncConfig
}

// AppConfig holds the local agent's own HTTP surface configuration
type AppConfig struct {
	Port          int
	Env           string
	LogLevel      string
	AllowedOrigin string
}

// APIConfig holds remote HRIS backend configuration
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SyncConfig holds local persistence and background refresh configuration
type SyncConfig struct {
	DataDir         string
	RefreshInterval time.Duration
	ReconcileDelay  time.Duration
	RetryInterval   time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("AGENT_PORT", "4117"))
	if err != nil {
		return nil, fmt.Errorf("invalid AGENT_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:          appPort,
		Env:           getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("UI_ORIGIN", "http://localhost:3000"),
	}

	apiTimeout, err := getEnvDuration("HRIS_API_TIMEOUT", "30s")
	if err != nil {
		return nil, fmt.Errorf("invalid HRIS_API_TIMEOUT: %w", err)
	}

	config.API = APIConfig{
		BaseURL: getEnv("HRIS_API_BASE_URL", ""),
		Timeout: apiTimeout,
	}

	refreshInterval, err := getEnvDuration("SIDEBAR_REFRESH_INTERVAL", "5m")
	if err != nil {
		return nil, fmt.Errorf("invalid SIDEBAR_REFRESH_INTERVAL: %w", err)
	}

	reconcileDelay, err := getEnvDuration("SIDEBAR_RECONCILE_DELAY", "2s")
	if err != nil {
		return nil, fmt.Errorf("invalid SIDEBAR_RECONCILE_DELAY: %w", err)
	}

	retryInterval, err := getEnvDuration("SUBMISSION_RETRY_INTERVAL", "1m")
	if err != nil {
		return nil, fmt.Errorf("invalid SUBMISSION_RETRY_INTERVAL: %w", err)
	}

	config.Sync = SyncConfig{
		DataDir:         getEnv("AGENT_DATA_DIR", defaultDataDir()),
		RefreshInterval: refreshInterval,
		ReconcileDelay:  reconcileDelay,
		RetryInterval:   retryInterval,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("HRIS_API_BASE_URL is required")
	}
	if c.Sync.DataDir == "" {
		return fmt.Errorf("AGENT_DATA_DIR is required")
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hris-sync"
	}
	return home + string(os.PathSeparator) + ".hris-sync"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key, fallback string) (time.Duration, error) {
	return time.ParseDuration(getEnv(key, fallback))
}
