package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	common "github.com/cloudshop/backend/services/common/models"
	"github.com/cloudshop/backend/services/product-service/models"
	"github.com/cloudshop/backend/services/product-service/repository"
)

// CatalogService implements catalog queries and the atomic product+stock
// create used by both the HTTP handler and the batch processor.
type CatalogService struct {
	repo repository.CatalogRepo
}

func NewCatalogService(repo repository.CatalogRepo) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListProducts returns all catalog entries with stock counts joined in.
func (s *CatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProduct returns one catalog entry with its stock count.
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// CreateProduct generates a fresh id for the record and commits the catalog
// entry together with its stock row in one transaction. The id is always
// generated here; import-originated records never carry one.
func (s *CatalogService) CreateProduct(ctx context.Context, record *common.ImportRecord) (*models.Product, error) {
	product := &models.Product{
		ID:          uuid.New(),
		Title:       record.Title,
		Description: record.Description,
		Price:       record.Price,
		Count:       record.Count,
	}
	if err := s.repo.CreateWithStock(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
