package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	common "github.com/cloudshop/backend/services/common/models"
	"github.com/cloudshop/backend/services/product-service/models"
	"github.com/cloudshop/backend/services/product-service/repository"
)

const DefaultContextTimeout = 30 * time.Second

const invalidInputMessage = "Invalid input. Required fields: {description: string, title: string, price: number >= 0, count: number >= 0}"

// CatalogServiceAPI defines the interface for catalog operations.
type CatalogServiceAPI interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, record *common.ImportRecord) (*models.Product, error)
}

// ProductController handles the catalog HTTP surface.
type ProductController struct {
	catalog CatalogServiceAPI
	cache   *CacheManager
	timeout time.Duration
}

func NewProductController(catalog CatalogServiceAPI, cache *CacheManager) *ProductController {
	return &ProductController{
		catalog: catalog,
		cache:   cache,
		timeout: DefaultContextTimeout,
	}
}

// GetProducts lists all products with stock counts joined in.
func (pc *ProductController) GetProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.timeout)
	defer cancel()

	if pc.cache != nil {
		if products, ok := pc.cache.GetProductList(ctx); ok {
			c.JSON(http.StatusOK, products)
			return
		}
	}

	products, err := pc.catalog.ListProducts(ctx)
	if err != nil {
		zap.L().Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if products == nil {
		products = []*models.Product{}
	}

	if pc.cache != nil {
		pc.cache.SetProductListAsync(products)
	}
	c.JSON(http.StatusOK, products)
}

// GetProductByID returns one product joined with its stock count.
func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.timeout)
	defer cancel()

	if pc.cache != nil {
		if product, ok := pc.cache.GetProduct(ctx, id.String()); ok {
			c.JSON(http.StatusOK, product)
			return
		}
	}

	product, err := pc.catalog.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		zap.L().Error("Failed to get product", zap.Error(err), zap.String("id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if pc.cache != nil {
		pc.cache.SetProductAsync(product)
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct validates the request body exactly like the batch processor
// validates queue records and commits it through the same conditional dual
// write.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": invalidInputMessage})
		return
	}

	record, err := common.UnmarshalImportRecord(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": invalidInputMessage})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.timeout)
	defer cancel()

	product, err := pc.catalog.CreateProduct(ctx, record)
	if err != nil {
		zap.L().Error("Failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if pc.cache != nil {
		if err := pc.cache.Invalidate(ctx); err != nil {
			zap.L().Error("Failed to invalidate cache after create", zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, product)
}
