package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/cloudshop/backend/services/product-service/models"
)

var (
	// ErrNotFound is returned when a product does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when the conditional dual write is
	// cancelled because a product or stock item with the same id exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// CatalogRepo is the storage interface for catalog entries and their stock.
type CatalogRepo interface {
	// FindByID returns the product with its stock count joined in.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// FindAll returns all products with stock counts joined in.
	FindAll(ctx context.Context) ([]*models.Product, error)
	// CreateWithStock writes the catalog entry and its stock row as one
	// all-or-nothing transaction, conditioned on the id not existing in
	// either table.
	CreateWithStock(ctx context.Context, product *models.Product) error
}
