package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"ledger-service/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const BillImagesBucket = "bill-images"

// MaxBillImageSize caps uploaded bill scans at 5 MiB.
const MaxBillImageSize int64 = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type MinioClient struct {
	client *minio.Client
	config config.MinioConfig
}

func NewMinioClient(cfg config.MinioConfig) (*MinioClient, error) {
	endpoint := strings.TrimPrefix(cfg.MinioURL, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	isSecure, err := strconv.ParseBool(cfg.MinioSecure)
	if err != nil {
		slog.Warn("invalid MinIO secure flag, defaulting to false", "value", cfg.MinioSecure)
		isSecure = false
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: isSecure,
		Region: cfg.MinioLocation,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mc := &MinioClient{client: client, config: cfg}
	if err := mc.ensureBucket(ctx, BillImagesBucket); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", BillImagesBucket, err)
	}
	if err := mc.setPublicReadPolicy(ctx, BillImagesBucket); err != nil {
		slog.Warn("failed to set public read policy", "bucket", BillImagesBucket, "error", err)
	}

	slog.Info("connected to MinIO", "endpoint", cfg.MinioURL)
	return mc, nil
}

func (mc *MinioClient) ensureBucket(ctx context.Context, bucketName string) error {
	exists, err := mc.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := mc.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: mc.config.MinioLocation}); err != nil {
		return fmt.Errorf("error creating bucket %s: %w", bucketName, err)
	}
	slog.Info("created bucket", "bucket", bucketName)
	return nil
}

func (mc *MinioClient) setPublicReadPolicy(ctx context.Context, bucketName string) error {
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": "*"},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, bucketName)
	return mc.client.SetBucketPolicy(ctx, bucketName, policy)
}

// ValidateBillImage checks the content type and size of an upload and returns
// the file extension used for its object key.
func ValidateBillImage(contentType string, size int64) (string, error) {
	ext, ok := allowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q: allowed types are image/jpeg, image/png, image/webp", contentType)
	}
	if size <= 0 {
		return "", fmt.Errorf("image is empty")
	}
	if size > MaxBillImageSize {
		return "", fmt.Errorf("image exceeds maximum size of %d bytes", MaxBillImageSize)
	}
	return ext, nil
}

// BillImageObjectName returns bills/<bill_id>/<uuid><ext>.
func BillImageObjectName(billID int64, ext string) string {
	return path.Join("bills", strconv.FormatInt(billID, 10), uuid.NewString()+ext)
}

// PublicURL joins the configured resource base URL with the bucket and key.
func PublicURL(resourceURL, bucket, objectName string) string {
	return strings.TrimRight(resourceURL, "/") + "/" + bucket + "/" + objectName
}

// PutBillImage stores a bill scan and returns its public URL.
func (mc *MinioClient) PutBillImage(ctx context.Context, billID int64, contentType string, size int64, reader io.Reader) (string, error) {
	ext, err := ValidateBillImage(contentType, size)
	if err != nil {
		return "", err
	}

	objectName := BillImageObjectName(billID, ext)
	_, err = mc.client.PutObject(ctx, BillImagesBucket, objectName, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s to bucket %s: %w", objectName, BillImagesBucket, err)
	}

	slog.Info("uploaded bill image", "bill_id", billID, "object", objectName)
	return PublicURL(mc.config.MinioResourceURL, BillImagesBucket, objectName), nil
}

func (mc *MinioClient) Close() error {
	return nil
}
