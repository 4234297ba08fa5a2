package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	awspkg "github.com/cloudshop/backend/pkg/aws"
)

// UploadService issues time-bounded presigned PUT URLs for staged CSV
// uploads. The resulting object lands under the staging prefix and is picked
// up by the file parser via the bucket's creation events.
type UploadService struct {
	s3Client      *s3.Client
	bucket        string
	stagingPrefix string
	expirySeconds int64
}

func NewUploadService(s3Client *s3.Client, bucket, stagingPrefix string, expirySeconds int64) *UploadService {
	return &UploadService{
		s3Client:      s3Client,
		bucket:        bucket,
		stagingPrefix: stagingPrefix,
		expirySeconds: expirySeconds,
	}
}

// GeneratePresignedUpload returns a presigned PUT URL for the named CSV file.
func (s *UploadService) GeneratePresignedUpload(ctx context.Context, fileName string) (string, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return "", fmt.Errorf("file name is required")
	}

	key := s.stagingPrefix + fileName
	url, err := awspkg.GeneratePresignedPutURL(ctx, s.s3Client, s.bucket, key, "text/csv", s.expirySeconds)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL for %s: %w", key, err)
	}
	return url, nil
}
