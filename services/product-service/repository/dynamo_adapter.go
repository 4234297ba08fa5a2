package repository

import (
	"context"
	"errors"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloudshop/backend/services/product-service/models"
)

// DynamoAPI is the subset of the DynamoDB client the adapter needs.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// DynamoAdapter is a DynamoDB-backed CatalogRepo over the products and stocks
// tables. Products are keyed by `id`, stocks by `product_id`.
type DynamoAdapter struct {
	client        DynamoAPI
	productsTable string
	stocksTable   string
}

func NewDynamoAdapter(client DynamoAPI, productsTable, stocksTable string) *DynamoAdapter {
	return &DynamoAdapter{
		client:        client,
		productsTable: productsTable,
		stocksTable:   stocksTable,
	}
}

type ddbProduct struct {
	ID          string  `dynamodbav:"id"`
	Title       string  `dynamodbav:"title"`
	Description string  `dynamodbav:"description"`
	Price       float64 `dynamodbav:"price"`
}

type ddbStock struct {
	ProductID string `dynamodbav:"product_id"`
	Count     int    `dynamodbav:"count"`
}

// CreateWithStock performs a single transaction with two conditional puts so
// a catalog entry and its stock row are created together or not at all.
func (d *DynamoAdapter) CreateWithStock(ctx context.Context, product *models.Product) error {
	productItem, err := attributevalue.MarshalMap(ddbProduct{
		ID:          product.ID.String(),
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
	})
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	stockItem, err := attributevalue.MarshalMap(ddbStock{
		ProductID: product.ID.String(),
		Count:     product.Count,
	})
	if err != nil {
		return fmt.Errorf("marshal stock: %w", err)
	}

	_, err = d.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &d.productsTable,
					Item:                productItem,
					ConditionExpression: sdkaws.String("attribute_not_exists(id)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           &d.stocksTable,
					Item:                stockItem,
					ConditionExpression: sdkaws.String("attribute_not_exists(product_id)"),
				},
			},
		},
	})
	if err != nil {
		if isConditionalCancellation(err) {
			return fmt.Errorf("product %s: %w", product.ID, ErrAlreadyExists)
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			zap.L().Error("Transact write failed",
				zap.String("code", apiErr.ErrorCode()),
				zap.String("product_id", product.ID.String()),
			)
		}
		return fmt.Errorf("transact write failed: %w", err)
	}
	return nil
}

// isConditionalCancellation reports whether a transaction was cancelled only
// because the existence conditions failed, i.e. the items are already there.
func isConditionalCancellation(err error) bool {
	var cancelled *types.TransactionCanceledException
	if !errors.As(err, &cancelled) {
		return false
	}
	sawConditional := false
	for _, reason := range cancelled.CancellationReasons {
		if reason.Code == nil || *reason.Code == "None" {
			continue
		}
		if *reason.Code != "ConditionalCheckFailed" {
			return false
		}
		sawConditional = true
	}
	return sawConditional
}

// FindByID fetches the catalog entry and joins its stock count. A missing
// stock row reads as count 0.
func (d *DynamoAdapter) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	productKey, err := attributevalue.MarshalMap(map[string]string{"id": id.String()})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &d.productsTable,
		Key:       productKey,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var dp ddbProduct
	if err := attributevalue.UnmarshalMap(out.Item, &dp); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}

	product, err := toProduct(dp)
	if err != nil {
		return nil, err
	}

	stockKey, err := attributevalue.MarshalMap(map[string]string{"product_id": id.String()})
	if err != nil {
		return nil, fmt.Errorf("marshal stock key: %w", err)
	}
	stockOut, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &d.stocksTable,
		Key:       stockKey,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem on stocks failed: %w", err)
	}
	if len(stockOut.Item) > 0 {
		var ds ddbStock
		if err := attributevalue.UnmarshalMap(stockOut.Item, &ds); err != nil {
			return nil, fmt.Errorf("unmarshal stock: %w", err)
		}
		product.Count = ds.Count
	}

	return product, nil
}

// FindAll scans both tables and joins counts by product id.
func (d *DynamoAdapter) FindAll(ctx context.Context) ([]*models.Product, error) {
	counts, err := d.scanStocks(ctx)
	if err != nil {
		return nil, err
	}

	var products []*models.Product
	var startKey map[string]types.AttributeValue
	for {
		out, err := d.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &d.productsTable,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan products failed: %w", err)
		}
		for _, item := range out.Items {
			var dp ddbProduct
			if err := attributevalue.UnmarshalMap(item, &dp); err != nil {
				return nil, fmt.Errorf("unmarshal product: %w", err)
			}
			product, err := toProduct(dp)
			if err != nil {
				return nil, err
			}
			product.Count = counts[dp.ID]
			products = append(products, product)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return products, nil
}

func (d *DynamoAdapter) scanStocks(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	var startKey map[string]types.AttributeValue
	for {
		out, err := d.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &d.stocksTable,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan stocks failed: %w", err)
		}
		for _, item := range out.Items {
			var ds ddbStock
			if err := attributevalue.UnmarshalMap(item, &ds); err != nil {
				return nil, fmt.Errorf("unmarshal stock: %w", err)
			}
			counts[ds.ProductID] = ds.Count
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return counts, nil
}

func toProduct(dp ddbProduct) (*models.Product, error) {
	id, err := uuid.Parse(dp.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id %q: %w", dp.ID, err)
	}
	return &models.Product{
		ID:          id,
		Title:       dp.Title,
		Description: dp.Description,
		Price:       dp.Price,
	}, nil
}
