package main

import (
	"fmt"
	"os"
)

// Config holds all environment variables for the bff-service.
type Config struct {
	Port     string            // Service port (default: 3000)
	Services map[string]string // Service name -> base URL
}

// LoadConfig loads the proxy target map from environment variables. At least
// one downstream service must be configured.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port: os.Getenv("PORT"),
		Services: map[string]string{
			"product": os.Getenv("PRODUCT_SERVICE_URL"),
			"cart":    os.Getenv("CART_SERVICE_URL"),
			"import":  os.Getenv("IMPORT_SERVICE_URL"),
		},
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	for name, url := range cfg.Services {
		if url == "" {
			delete(cfg.Services, name)
		}
	}
	if len(cfg.Services) == 0 {
		return nil, fmt.Errorf("no downstream services configured")
	}

	return cfg, nil
}
