package parser

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/cloudshop/backend/services/common/models"
)

// ObjectStore is the subset of the S3 client the parser needs.
type ObjectStore interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// RecordQueue publishes one message per parsed record.
type RecordQueue interface {
	SendMessage(ctx context.Context, body string) error
}

// FileParser streams uploaded CSV files row by row, forwards each valid
// record to the record queue and archives the source object afterwards.
type FileParser struct {
	store         ObjectStore
	records       RecordQueue
	stagingPrefix string
	archivePrefix string
}

func NewFileParser(store ObjectStore, records RecordQueue, stagingPrefix, archivePrefix string) *FileParser {
	return &FileParser{
		store:         store,
		records:       records,
		stagingPrefix: stagingPrefix,
		archivePrefix: archivePrefix,
	}
}

// HandleEvent processes one S3 event notification. Files are handled
// sequentially; a fatal error on one file aborts the remaining files so the
// whole notification is redelivered.
func (p *FileParser) HandleEvent(ctx context.Context, body string) error {
	event, err := DecodeEvent(body)
	if err != nil {
		return err
	}

	for _, record := range event.Records {
		key, err := DecodeObjectKey(record.S3.Object.Key)
		if err != nil {
			return err
		}
		if err := p.ProcessObject(ctx, record.S3.Bucket.Name, key); err != nil {
			return err
		}
	}
	return nil
}

// ProcessObject parses one staged CSV object and moves it to the archive
// prefix once every record has been enqueued.
func (p *FileParser) ProcessObject(ctx context.Context, bucket, key string) error {
	if !strings.HasPrefix(key, p.stagingPrefix) {
		zap.L().Warn("Ignoring object outside staging prefix",
			zap.String("bucket", bucket),
			zap.String("key", key),
		)
		return nil
	}

	zap.L().Info("Processing file", zap.String("bucket", bucket), zap.String("key", key))

	out, err := p.store.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	enqueued, skipped, err := p.parseAndEnqueue(ctx, out.Body)
	if err != nil {
		return fmt.Errorf("failed to parse %s/%s: %w", bucket, key, err)
	}

	zap.L().Info("Finished parsing file",
		zap.String("key", key),
		zap.Int("enqueued", enqueued),
		zap.Int("skipped", skipped),
	)

	return p.moveToArchive(ctx, bucket, key)
}

// parseAndEnqueue reads the CSV stream row by row. Malformed rows are skipped;
// each valid record is enqueued before the next row is read.
func (p *FileParser) parseAndEnqueue(ctx context.Context, body io.Reader) (enqueued, skipped int, err error) {
	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return enqueued, skipped, nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				zap.L().Warn("Skipping malformed CSV row", zap.Error(err))
				skipped++
				continue
			}
			return enqueued, skipped, fmt.Errorf("stream read failed: %w", err)
		}

		record, err := models.ParseCSVRow(row)
		if err != nil {
			zap.L().Warn("Skipping invalid CSV row",
				zap.Strings("row", row),
				zap.Error(err),
			)
			skipped++
			continue
		}

		payload, err := json.Marshal(record)
		if err != nil {
			return enqueued, skipped, fmt.Errorf("failed to encode record: %w", err)
		}
		if err := p.records.SendMessage(ctx, string(payload)); err != nil {
			return enqueued, skipped, fmt.Errorf("failed to enqueue record: %w", err)
		}
		enqueued++
	}
}

// moveToArchive copies the source object to the archive prefix and deletes
// the original. The copy must be acknowledged before the delete is attempted.
func (p *FileParser) moveToArchive(ctx context.Context, bucket, key string) error {
	targetKey := p.archivePrefix + strings.TrimPrefix(key, p.stagingPrefix)
	copySource := url.PathEscape(bucket + "/" + key)

	if _, err := p.store.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     &bucket,
		CopySource: &copySource,
		Key:        &targetKey,
	}); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", key, targetKey, err)
	}

	if _, err := p.store.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}); err != nil {
		return fmt.Errorf("failed to delete %s after archiving: %w", key, err)
	}

	zap.L().Info("Moved file to archive",
		zap.String("from", key),
		zap.String("to", targetKey),
	)
	return nil
}
