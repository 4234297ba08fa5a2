package processor

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Consumer long-polls the record queue and hands each received batch to the
// processor. Batches are independent: messages are leased to exactly one
// in-flight batch at a time by the queue's visibility mechanism, so no
// cross-batch locking is needed.
type Consumer struct {
	queue     RecordQueue
	processor *BatchProcessor
	batchSize int32
}

func NewConsumer(queue RecordQueue, processor *BatchProcessor, batchSize int32) *Consumer {
	if batchSize <= 0 {
		batchSize = 5
	}
	return &Consumer{
		queue:     queue,
		processor: processor,
		batchSize: batchSize,
	}
}

// Start runs the consume loop until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	zap.L().Info("Catalog batch consumer started", zap.Int32("batch_size", c.batchSize))
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Catalog batch consumer shutting down")
			return
		default:
		}

		messages, err := c.queue.ReceiveBatch(ctx, c.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			zap.L().Error("Record queue receive error", zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}
		if len(messages) == 0 {
			continue
		}

		if err := c.processor.ProcessBatch(ctx, messages); err != nil {
			// Unsettled messages become visible again and are redelivered.
			zap.L().Error("Batch aborted", zap.Error(err))
		}
	}
}
