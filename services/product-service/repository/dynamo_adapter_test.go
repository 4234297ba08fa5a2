package repository

import (
	"context"
	"errors"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/cloudshop/backend/services/product-service/models"
)

type fakeDynamo struct {
	transactInput *dynamodb.TransactWriteItemsInput
	transactErr   error

	getFn  func(input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	scanFn func(input *dynamodb.ScanInput) (*dynamodb.ScanOutput, error)
}

func (f *fakeDynamo) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.transactInput = params
	if f.transactErr != nil {
		return nil, f.transactErr
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return f.getFn(params)
}

func (f *fakeDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return f.scanFn(params)
}

func mustMarshal(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return item
}

func TestCreateWithStockWritesBothItemsConditionally(t *testing.T) {
	fake := &fakeDynamo{}
	adapter := NewDynamoAdapter(fake, "products", "stocks")

	product := &models.Product{
		ID:          uuid.New(),
		Title:       "Widget",
		Description: "Simple widget",
		Price:       9.99,
		Count:       5,
	}
	if err := adapter.CreateWithStock(context.Background(), product); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := fake.transactInput.TransactItems
	if len(items) != 2 {
		t.Fatalf("expected 2 transact items, got %d", len(items))
	}

	productPut := items[0].Put
	if productPut == nil || *productPut.TableName != "products" {
		t.Fatalf("first item must be a put on the products table")
	}
	if *productPut.ConditionExpression != "attribute_not_exists(id)" {
		t.Fatalf("unexpected product condition: %q", *productPut.ConditionExpression)
	}

	stockPut := items[1].Put
	if stockPut == nil || *stockPut.TableName != "stocks" {
		t.Fatalf("second item must be a put on the stocks table")
	}
	if *stockPut.ConditionExpression != "attribute_not_exists(product_id)" {
		t.Fatalf("unexpected stock condition: %q", *stockPut.ConditionExpression)
	}

	var dp ddbProduct
	if err := attributevalue.UnmarshalMap(productPut.Item, &dp); err != nil {
		t.Fatalf("unmarshal product item: %v", err)
	}
	var ds ddbStock
	if err := attributevalue.UnmarshalMap(stockPut.Item, &ds); err != nil {
		t.Fatalf("unmarshal stock item: %v", err)
	}
	if dp.ID != product.ID.String() || ds.ProductID != product.ID.String() {
		t.Fatalf("product and stock must share the generated id: %q vs %q", dp.ID, ds.ProductID)
	}
	if ds.Count != 5 {
		t.Fatalf("expected stock count 5, got %d", ds.Count)
	}
}

func TestCreateWithStockMapsConditionalCancellation(t *testing.T) {
	fake := &fakeDynamo{
		transactErr: &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{
				{Code: sdkaws.String("ConditionalCheckFailed")},
				{Code: sdkaws.String("None")},
			},
		},
	}
	adapter := NewDynamoAdapter(fake, "products", "stocks")

	err := adapter.CreateWithStock(context.Background(), &models.Product{ID: uuid.New()})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateWithStockOtherCancellationIsFatal(t *testing.T) {
	fake := &fakeDynamo{
		transactErr: &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{
				{Code: sdkaws.String("TransactionConflict")},
				{Code: sdkaws.String("None")},
			},
		},
	}
	adapter := NewDynamoAdapter(fake, "products", "stocks")

	err := adapter.CreateWithStock(context.Background(), &models.Product{ID: uuid.New()})
	if err == nil || errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected fatal error, got %v", err)
	}
}

func TestCreateWithStockTransientErrorPropagates(t *testing.T) {
	fake := &fakeDynamo{transactErr: errors.New("service unavailable")}
	adapter := NewDynamoAdapter(fake, "products", "stocks")

	err := adapter.CreateWithStock(context.Background(), &models.Product{ID: uuid.New()})
	if err == nil || errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected transient error to propagate, got %v", err)
	}
}

func TestFindByIDJoinsStockCount(t *testing.T) {
	id := uuid.New()
	fake := &fakeDynamo{}
	fake.getFn = func(input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
		switch *input.TableName {
		case "products":
			return &dynamodb.GetItemOutput{Item: mustMarshal(t, ddbProduct{
				ID:          id.String(),
				Title:       "Widget",
				Description: "d",
				Price:       9.99,
			})}, nil
		case "stocks":
			return &dynamodb.GetItemOutput{Item: mustMarshal(t, ddbStock{
				ProductID: id.String(),
				Count:     7,
			})}, nil
		}
		t.Fatalf("unexpected table %q", *input.TableName)
		return nil, nil
	}
	adapter := NewDynamoAdapter(fake, "products", "stocks")

	product, err := adapter.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.ID != id || product.Title != "Widget" || product.Count != 7 {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestFindByIDMissingStockReadsZero(t *testing.T) {
	id := uuid.New()
	fake := &fakeDynamo{}
	fake.getFn = func(input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
		if *input.TableName == "products" {
			return &dynamodb.GetItemOutput{Item: mustMarshal(t, ddbProduct{
				ID:    id.String(),
				Title: "Widget",
				Price: 9.99,
			})}, nil
		}
		return &dynamodb.GetItemOutput{}, nil
	}
	adapter := NewDynamoAdapter(fake, "products", "stocks")

	product, err := adapter.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Count != 0 {
		t.Fatalf("expected count 0 for missing stock, got %d", product.Count)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	fake := &fakeDynamo{}
	fake.getFn = func(input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
		return &dynamodb.GetItemOutput{}, nil
	}
	adapter := NewDynamoAdapter(fake, "products", "stocks")

	_, err := adapter.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindAllJoinsCounts(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	fake := &fakeDynamo{}
	fake.scanFn = func(input *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
		switch *input.TableName {
		case "products":
			return &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{
				mustMarshal(t, ddbProduct{ID: id1.String(), Title: "Widget", Price: 9.99}),
				mustMarshal(t, ddbProduct{ID: id2.String(), Title: "Gadget", Price: 19.99}),
			}}, nil
		case "stocks":
			return &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{
				mustMarshal(t, ddbStock{ProductID: id1.String(), Count: 4}),
			}}, nil
		}
		t.Fatalf("unexpected table %q", *input.TableName)
		return nil, nil
	}
	adapter := NewDynamoAdapter(fake, "products", "stocks")

	products, err := adapter.FindAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	byID := map[uuid.UUID]*models.Product{products[0].ID: products[0], products[1].ID: products[1]}
	if byID[id1].Count != 4 {
		t.Fatalf("expected joined count 4, got %d", byID[id1].Count)
	}
	if byID[id2].Count != 0 {
		t.Fatalf("expected count 0 for product without stock, got %d", byID[id2].Count)
	}
}
