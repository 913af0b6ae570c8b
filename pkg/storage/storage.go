package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/getmarco/medtextanalyze/pkg/logger"
	"github.com/getmarco/medtextanalyze/pkg/storage/minio"
	"github.com/getmarco/medtextanalyze/pkg/storage/s3"
)

// Backend selects the object store implementation.
type Backend string

const (
	BackendS3    Backend = "s3"
	BackendMinio Backend = "minio"
)

// Config carries what either backend needs; the factory picks the relevant
// fields.
type Config struct {
	Backend   Backend
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// UploadStore is the object-store boundary: issuing write-once upload
// locations and moving bytes for the pipeline (page-split fetches, task
// results).
type UploadStore interface {
	// PresignPut returns a pre-signed URL for an HTTP PUT of raw bytes to
	// the given key, valid for ttl.
	PresignPut(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Store writes an object.
	Store(ctx context.Context, key string, r io.Reader) error
	// Get reads an object.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes an object.
	Delete(ctx context.Context, key string) error
}

// New builds the configured backend. The AWS config is only consulted for
// the S3 backend.
func New(awsCfg aws.Config, cfg *Config, log logger.Logger) (UploadStore, error) {
	switch cfg.Backend {
	case BackendS3:
		return s3.NewStore(awsCfg, cfg.Bucket, log), nil
	case BackendMinio:
		return minio.NewStore(&minio.Config{
			Endpoint:  cfg.Endpoint,
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
		}, log)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
