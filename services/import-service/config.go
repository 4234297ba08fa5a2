package main

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all environment variables for the import-service.
type Config struct {
	Port           string // Service port (default: 8083)
	BucketName     string // S3 bucket holding staged and archived CSV files
	StagingPrefix  string // Key prefix for not-yet-processed uploads
	ArchivePrefix  string // Key prefix for processed uploads
	EventsQueueURL string // SQS queue receiving S3 object-creation events
	RecordQueueURL string // SQS queue carrying one message per catalog record
	PresignExpiry  int64  // Presigned upload URL lifetime in seconds
}

// LoadConfig loads environment variables into Config struct and validates
// them. Missing required values fail immediately so no event is processed
// against a broken configuration.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           os.Getenv("PORT"),
		BucketName:     os.Getenv("BUCKET_NAME"),
		StagingPrefix:  os.Getenv("UPLOAD_PREFIX"),
		ArchivePrefix:  os.Getenv("PARSED_PREFIX"),
		EventsQueueURL: os.Getenv("EVENTS_QUEUE_URL"),
		RecordQueueURL: os.Getenv("CATALOG_ITEMS_QUEUE_URL"),
		PresignExpiry:  300,
	}

	if cfg.Port == "" {
		cfg.Port = "8083"
	}
	if cfg.StagingPrefix == "" {
		cfg.StagingPrefix = "uploaded/"
	}
	if cfg.ArchivePrefix == "" {
		cfg.ArchivePrefix = "parsed/"
	}
	if raw := os.Getenv("PRESIGN_EXPIRY_SECONDS"); raw != "" {
		expiry, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || expiry <= 0 {
			return nil, fmt.Errorf("invalid PRESIGN_EXPIRY_SECONDS: %q", raw)
		}
		cfg.PresignExpiry = expiry
	}

	if cfg.BucketName == "" {
		return nil, fmt.Errorf("BUCKET_NAME is required")
	}
	if cfg.EventsQueueURL == "" {
		return nil, fmt.Errorf("EVENTS_QUEUE_URL is required")
	}
	if cfg.RecordQueueURL == "" {
		return nil, fmt.Errorf("CATALOG_ITEMS_QUEUE_URL is required")
	}

	return cfg, nil
}
