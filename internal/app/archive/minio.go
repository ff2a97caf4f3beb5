package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"ytdl-bot/internal/config"
)

// Uploader keeps a copy of delivered artifacts in object storage. Archival is
// best effort and never affects delivery.
type Uploader interface {
	Store(ctx context.Context, localPath string, chatID int64) error
}

// Disabled is used when no endpoint is configured.
type Disabled struct{}

func (Disabled) Store(context.Context, string, int64) error { return nil }

type MinioUploader struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// New returns a Disabled uploader when cfg.Endpoint is empty.
func New(cfg config.MinioConfig, logger *zap.Logger) (Uploader, error) {
	if cfg.Endpoint == "" {
		return Disabled{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioUploader{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

func (u *MinioUploader) Store(ctx context.Context, localPath string, chatID int64) error {
	key := fmt.Sprintf("downloads/%d/%d-%s%s",
		chatID, time.Now().Unix(), uuid.New().String()[:8], filepath.Ext(localPath))

	_, err := u.client.FPutObject(ctx, u.bucket, key, localPath, minio.PutObjectOptions{
		UserMetadata: map[string]string{
			"original-name": filepath.Base(localPath),
			"chat-id":       fmt.Sprint(chatID),
			"uploaded-at":   time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", localPath, err)
	}
	u.logger.Info("artifact archived", zap.String("key", key))
	return nil
}
