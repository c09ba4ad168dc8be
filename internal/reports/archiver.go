package reports

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/SAP-F-2025/lab-reservation-service/internal/config"
)

// Archiver stores a generated workbook and returns the key it was stored under.
type Archiver interface {
	Archive(ctx context.Context, key string, body []byte) (string, error)
}

// ArchiveKey places workbooks under reports/<kind>/<date>.xlsx.
func ArchiveKey(kind Kind, day time.Time) string {
	return fmt.Sprintf("reports/%s/%s.xlsx", kind, day.Format(time.DateOnly))
}

type S3Archiver struct {
	client *s3.Client
	bucket string
}

func NewS3Archiver(ctx context.Context, cfg config.S3Config) (*S3Archiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Archiver{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
	}, nil
}

func (a *S3Archiver) Archive(ctx context.Context, key string, body []byte) (string, error) {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	return key, nil
}

// NoopArchiver is used when no bucket is configured.
type NoopArchiver struct{}

func (NoopArchiver) Archive(ctx context.Context, key string, body []byte) (string, error) {
	return "", nil
}

// MockArchiver keeps archived workbooks in memory.
type MockArchiver struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func NewMockArchiver() *MockArchiver {
	return &MockArchiver{Objects: make(map[string][]byte)}
}

func (m *MockArchiver) Archive(ctx context.Context, key string, body []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.Objects[key] = append([]byte(nil), body...)
	return key, nil
}

func (m *MockArchiver) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Objects))
	for k := range m.Objects {
		keys = append(keys, k)
	}
	return keys
}
