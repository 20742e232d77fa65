// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Store variant names, fixed at startup and never branched on per call.
const (
	StoreVariantMemory = "memory"
	StoreVariantRemote = "remote"
)

type Config struct {
	Server ServerConfig
	Store  StoreConfig
}

type ServerConfig struct {
	Addr        string
	Environment string
}

type StoreConfig struct {
	Variant     string
	MockLatency bool

	// Remote variant: endpoint plus the two opaque credentials the record
	// store hands out. Their validity is the record store's concern.
	RemoteBaseURL string
	RemoteAppID   string
	RemoteAPIKey  string
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("TASKFLOW_ADDR", ":8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Store: StoreConfig{
			Variant:       getEnv("TASKFLOW_STORE", StoreVariantMemory),
			MockLatency:   getEnvAsBool("TASKFLOW_MOCK_LATENCY", false),
			RemoteBaseURL: getEnv("TASKFLOW_RECORD_API_URL", ""),
			RemoteAppID:   getEnv("TASKFLOW_RECORD_APP_ID", ""),
			RemoteAPIKey:  getEnv("TASKFLOW_RECORD_API_KEY", ""),
		},
	}, nil
}

// ValidateConfig rejects configurations the process cannot start with.
func (c *Config) ValidateConfig() error {
	switch c.Store.Variant {
	case StoreVariantMemory:
	case StoreVariantRemote:
		if c.Store.RemoteBaseURL == "" {
			return fmt.Errorf("TASKFLOW_RECORD_API_URL is required for the remote store")
		}
		if c.Store.RemoteAppID == "" || c.Store.RemoteAPIKey == "" {
			return fmt.Errorf("TASKFLOW_RECORD_APP_ID and TASKFLOW_RECORD_API_KEY are required for the remote store")
		}
	default:
		return fmt.Errorf("unknown store variant %q", c.Store.Variant)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
