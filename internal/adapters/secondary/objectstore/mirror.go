// Package objectstore mirrors persisted artifacts into an S3-compatible
// bucket. The mirror is a secondary copy for sharing and disaster recovery;
// the filesystem store remains the source of truth and the mirror never
// gates a pipeline run.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
}

func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	return nil
}

type Mirror struct {
	client *minio.Client
	bucket string
}

var _ ports.ArtifactMirror = (*Mirror)(nil)

func NewMirror(cfg Config) (*Mirror, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("objectstore config: %w", err)
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore client: %w", err)
	}
	return &Mirror{client: client, bucket: cfg.Bucket}, nil
}

// Upload copies one artifact payload to the bucket under
// <class>/<filename>. The latest alias is not mirrored; object stores have
// no atomic rename and consumers should list by key prefix instead.
func (m *Mirror) Upload(ctx context.Context, version *domain.ArtifactVersion, payload []byte) error {
	key := path.Join(string(version.Class), path.Base(version.Path))

	putCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	_, err := m.client.PutObject(
		putCtx,
		m.bucket,
		key,
		bytes.NewReader(payload),
		int64(len(payload)),
		minio.PutObjectOptions{ContentType: contentType(version.Class)},
	)
	if err != nil {
		return fmt.Errorf("mirror %s: %w", key, err)
	}
	log.WithFields(log.Fields{"bucket": m.bucket, "key": key}).Debug("artifact mirrored")
	return nil
}

func contentType(class domain.ArtifactClass) string {
	switch class {
	case domain.ClassMetrics:
		return "application/json"
	case domain.ClassPredictionSet:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
