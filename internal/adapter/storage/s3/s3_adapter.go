// Package s3 stores uploaded images in a MinIO/S3 bucket. This is the
// production variant, selected when a MinIO endpoint is configured. Raster
// images are bounded to a maximum display size before upload so the bucket
// serves display-ready files.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/YamanTakala/Cars-Seller/internal/listing/domain"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Display bounds: images are scaled down to fit, never up.
const (
	maxWidth  = 800
	maxHeight = 600
)

type Storage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewStorage connects to MinIO and ensures the bucket exists.
func NewStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool, logger *zap.Logger) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	ctx := context.Background()
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: %w", bucket, err)
		}
	}

	logger.Info("Using remote storage for images",
		zap.String("endpoint", endpoint), zap.String("bucket", bucket))
	return &Storage{
		client: client,
		bucket: bucket,
		logger: logger.Named("S3Storage"),
	}, nil
}

// Store uploads one image under a unique object key and returns its public
// URL; the object key is the storage identifier.
func (s *Storage) Store(ctx context.Context, upload domain.Upload) (domain.Image, error) {
	data, err := io.ReadAll(upload.Content)
	if err != nil {
		return domain.Image{}, err
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	data, err = bound(data, ext)
	if err != nil {
		s.logger.Warn("Failed to resize image, uploading original",
			zap.String("filename", upload.Filename), zap.Error(err))
	}

	objectKey := fmt.Sprintf("cars/%s%s", uuid.New().String(), ext)
	_, err = s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: upload.ContentType,
	})
	if err != nil {
		s.logger.Error("PutObject failed",
			zap.String("bucket", s.bucket), zap.String("key", objectKey), zap.Error(err))
		return domain.Image{}, fmt.Errorf("failed to upload object %s: %w", objectKey, err)
	}

	return domain.Image{
		URL:       fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey),
		StorageID: objectKey,
	}, nil
}

// bound scales a raster image down to the display bounds, preserving aspect
// ratio. GIFs pass through untouched (resizing would drop animation frames).
// On any decode failure the original bytes are returned alongside the error
// so the upload still proceeds.
func bound(data []byte, ext string) ([]byte, error) {
	if ext == ".gif" {
		return data, nil
	}

	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data, err
	}
	if src.Bounds().Dx() <= maxWidth && src.Bounds().Dy() <= maxHeight {
		return data, nil
	}

	resized := imaging.Fit(src, maxWidth, maxHeight, imaging.Lanczos)

	format := imaging.JPEG
	var opts []imaging.EncodeOption
	if ext == ".png" {
		format = imaging.PNG
	} else {
		opts = append(opts, imaging.JPEGQuality(82))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, opts...); err != nil {
		return data, err
	}
	return buf.Bytes(), nil
}
