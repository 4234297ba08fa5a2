package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

// SQSQueue wraps a single SQS queue for sending and receiving.
type SQSQueue struct {
	client   *sqs.Client
	queueURL string
}

// NewSQSQueue creates an SQS queue wrapper for the given queue URL.
func NewSQSQueue(cfg sdkaws.Config, queueURL string) *SQSQueue {
	return &SQSQueue{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}
}

// URL returns the queue URL this wrapper operates on.
func (q *SQSQueue) URL() string { return q.queueURL }

// SendMessage sends a single message to the queue.
func (q *SQSQueue) SendMessage(ctx context.Context, body string) error {
	_, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    &q.queueURL,
		MessageBody: &body,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// ReceiveBatch long-polls the queue for up to max messages.
func (q *SQSQueue) ReceiveBatch(ctx context.Context, max int32) ([]types.Message, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            &q.queueURL,
		MaxNumberOfMessages: max,
		WaitTimeSeconds:     20,
		VisibilityTimeout:   30,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages: %w", err)
	}
	return out.Messages, nil
}

// DeleteMessage removes a processed message from the queue.
func (q *SQSQueue) DeleteMessage(ctx context.Context, receiptHandle *string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &q.queueURL,
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// MessageHandler processes one SQS message body.
type MessageHandler func(ctx context.Context, body string) error

// StartPolling polls the queue and processes messages one at a time with the
// handler. A message is deleted only after the handler succeeds; on failure it
// becomes visible again after the visibility timeout. Runs until the context
// is cancelled.
func (q *SQSQueue) StartPolling(ctx context.Context, handler MessageHandler) error {
	zap.L().Info("Starting SQS polling", zap.String("queue", q.queueURL))

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("SQS polling stopped", zap.String("queue", q.queueURL))
			return ctx.Err()
		default:
			messages, err := q.ReceiveBatch(ctx, 10)
			if err != nil {
				zap.L().Error("Error polling SQS", zap.Error(err))
				time.Sleep(5 * time.Second)
				continue
			}

			for _, msg := range messages {
				if msg.Body == nil {
					continue
				}
				if err := handler(ctx, *msg.Body); err != nil {
					zap.L().Error("Failed to process message", zap.Error(err))
					continue
				}
				if err := q.DeleteMessage(ctx, msg.ReceiptHandle); err != nil {
					zap.L().Error("Failed to delete message", zap.Error(err))
				}
			}
		}
	}
}
