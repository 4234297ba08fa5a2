package main

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all environment variables for the product-service.
type Config struct {
	Port           string // Service port (default: 8082)
	ProductsTable  string // DynamoDB table for catalog entries
	StocksTable    string // DynamoDB table for stock rows
	RecordQueueURL string // SQS queue carrying import records
	SNSTopicArn    string // Topic for import-completed notifications
	BatchSize      int32  // Records consumed per processor batch
	RedisURL       string // Optional cache; empty disables caching
}

// LoadConfig loads environment variables into Config struct and validates
// them before any event is processed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           os.Getenv("PORT"),
		ProductsTable:  os.Getenv("PRODUCTS_TABLE"),
		StocksTable:    os.Getenv("STOCKS_TABLE"),
		RecordQueueURL: os.Getenv("CATALOG_ITEMS_QUEUE_URL"),
		SNSTopicArn:    os.Getenv("SNS_TOPIC_ARN"),
		BatchSize:      5,
		RedisURL:       os.Getenv("REDIS_URL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8082"
	}
	if raw := os.Getenv("IMPORT_BATCH_SIZE"); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || size < 1 || size > 10 {
			return nil, fmt.Errorf("invalid IMPORT_BATCH_SIZE: %q", raw)
		}
		cfg.BatchSize = int32(size)
	}

	if cfg.ProductsTable == "" {
		return nil, fmt.Errorf("PRODUCTS_TABLE is required")
	}
	if cfg.StocksTable == "" {
		return nil, fmt.Errorf("STOCKS_TABLE is required")
	}
	if cfg.RecordQueueURL == "" {
		return nil, fmt.Errorf("CATALOG_ITEMS_QUEUE_URL is required")
	}
	if cfg.SNSTopicArn == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN is required")
	}

	return cfg, nil
}
