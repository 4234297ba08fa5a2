package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ImportRecord is the validated, typed projection of one catalog CSV row. It
// is produced by the import parser, carried as a JSON queue message body and
// consumed by the catalog batch processor.
type ImportRecord struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Count       int     `json:"count"`
}

// importRecordWire mirrors ImportRecord with pointer fields so that a missing
// field can be told apart from a present zero value.
type importRecordWire struct {
	Title       *string  `json:"title" validate:"required,min=1"`
	Description *string  `json:"description" validate:"required,min=1"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Count       *int     `json:"count" validate:"required,gte=0"`
}

var validate = validator.New()

// UnmarshalImportRecord decodes and validates a queue message body. All four
// fields must be present, price and count non-negative.
func UnmarshalImportRecord(data []byte) (*ImportRecord, error) {
	var wire importRecordWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("invalid record payload: %w", err)
	}
	if err := validate.Struct(&wire); err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}
	return &ImportRecord{
		Title:       *wire.Title,
		Description: *wire.Description,
		Price:       *wire.Price,
		Count:       *wire.Count,
	}, nil
}

// ParseCSVRow coerces one CSV row into an ImportRecord. The fixed column
// order is title, description, price, count.
func ParseCSVRow(fields []string) (*ImportRecord, error) {
	if len(fields) != 4 {
		return nil, fmt.Errorf("expected 4 columns, got %d", len(fields))
	}

	title := strings.TrimSpace(fields[0])
	description := strings.TrimSpace(fields[1])
	if title == "" || description == "" {
		return nil, fmt.Errorf("title and description are required")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", fields[2], err)
	}
	if price < 0 {
		return nil, fmt.Errorf("price must be non-negative, got %v", price)
	}

	count, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid count %q: %w", fields[3], err)
	}
	if count < 0 {
		return nil, fmt.Errorf("count must be non-negative, got %d", count)
	}

	return &ImportRecord{
		Title:       title,
		Description: description,
		Price:       price,
		Count:       count,
	}, nil
}
