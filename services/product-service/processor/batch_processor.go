package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	awspkg "github.com/cloudshop/backend/pkg/aws"
	common "github.com/cloudshop/backend/services/common/models"
	"github.com/cloudshop/backend/services/product-service/models"
	"github.com/cloudshop/backend/services/product-service/repository"
)

const notificationSubject = "Products Import Notification"

// CatalogCreator commits one record as a product+stock pair.
type CatalogCreator interface {
	CreateProduct(ctx context.Context, record *common.ImportRecord) (*models.Product, error)
}

// RecordQueue is the subset of the SQS queue wrapper the processor needs.
type RecordQueue interface {
	ReceiveBatch(ctx context.Context, max int32) ([]types.Message, error)
	DeleteMessage(ctx context.Context, receiptHandle *string) error
}

// CacheInvalidator drops cached catalog listings after a committed batch.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// BatchProcessor consumes record-queue batches: each valid record becomes one
// atomic dual-table write, and a single notification summarizes every record
// committed in the batch.
type BatchProcessor struct {
	catalog   CatalogCreator
	queue     RecordQueue
	publisher awspkg.SNSPublisher
	topicArn  string
	cache     CacheInvalidator
}

func NewBatchProcessor(catalog CatalogCreator, queue RecordQueue, publisher awspkg.SNSPublisher, topicArn string, cache CacheInvalidator) *BatchProcessor {
	return &BatchProcessor{
		catalog:   catalog,
		queue:     queue,
		publisher: publisher,
		topicArn:  topicArn,
		cache:     cache,
	}
}

// ProcessBatch handles one delivered batch of queue messages.
//
// Invalid records are skipped and their messages deleted. A store failure
// aborts the batch: the failing and remaining messages stay leased and come
// back after the visibility timeout. A conditional-write cancellation means
// the record was already applied by a prior delivery, so the message is
// deleted without recounting the record as committed.
func (p *BatchProcessor) ProcessBatch(ctx context.Context, messages []types.Message) error {
	var committed []common.ImportRecord

	for _, msg := range messages {
		if msg.Body == nil {
			p.deleteMessage(ctx, msg)
			continue
		}

		record, err := common.UnmarshalImportRecord([]byte(*msg.Body))
		if err != nil {
			zap.L().Warn("Skipping invalid product record",
				zap.String("body", *msg.Body),
				zap.Error(err),
			)
			p.deleteMessage(ctx, msg)
			continue
		}

		if _, err := p.catalog.CreateProduct(ctx, record); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				zap.L().Info("Record already applied, treating redelivery as success",
					zap.String("title", record.Title),
				)
				p.deleteMessage(ctx, msg)
				continue
			}
			return fmt.Errorf("failed to commit record %q: %w", record.Title, err)
		}

		zap.L().Info("Successfully processed product", zap.String("title", record.Title))
		committed = append(committed, *record)
		p.deleteMessage(ctx, msg)
	}

	if len(committed) == 0 {
		return nil
	}

	if err := p.publishNotification(ctx, committed); err != nil {
		return err
	}

	if p.cache != nil {
		if err := p.cache.Invalidate(ctx); err != nil {
			zap.L().Error("Failed to invalidate product cache after import", zap.Error(err))
		}
	}
	return nil
}

func (p *BatchProcessor) publishNotification(ctx context.Context, committed []common.ImportRecord) error {
	notification := models.ImportNotification{
		Message:  "Products were imported successfully",
		Products: make([]models.NotificationProduct, 0, len(committed)),
	}
	for _, record := range committed {
		notification.Products = append(notification.Products, models.NotificationProduct{
			Title: record.Title,
			Price: record.Price,
			Count: record.Count,
		})
	}

	payload, err := json.MarshalIndent(notification, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := p.publisher.Publish(ctx, p.topicArn, notificationSubject, payload); err != nil {
		return fmt.Errorf("failed to publish import notification: %w", err)
	}

	zap.L().Info("Published import notification", zap.Int("products", len(committed)))
	return nil
}

// deleteMessage removes a settled message. Deletion failures are logged, not
// fatal: the message comes back and the existence condition makes the repeat
// write a no-op.
func (p *BatchProcessor) deleteMessage(ctx context.Context, msg types.Message) {
	if err := p.queue.DeleteMessage(ctx, msg.ReceiptHandle); err != nil {
		zap.L().Error("Failed to delete message", zap.Error(err))
	}
}
