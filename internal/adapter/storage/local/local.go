// Package local stores uploaded images on the server's own disk. It is the
// development fallback used when no remote object store is configured.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/YamanTakala/Cars-Seller/internal/listing/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// URLPrefix is where the static file server exposes the upload directory.
const URLPrefix = "/uploads/cars"

type Storage struct {
	dir    string
	logger *zap.Logger
}

// NewStorage ensures the destination directory exists. Called once at
// process startup; MkdirAll is idempotent.
func NewStorage(dir string, logger *zap.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	logger.Info("Using local storage for images", zap.String("dir", dir))
	return &Storage{dir: dir, logger: logger.Named("LocalStorage")}, nil
}

// Store writes the file under a collision-resistant name and returns its
// relative URL; the filename doubles as the storage identifier.
func (s *Storage) Store(ctx context.Context, upload domain.Upload) (domain.Image, error) {
	name := fmt.Sprintf("car-%d-%s%s",
		time.Now().UnixMilli(),
		strings.ReplaceAll(uuid.New().String(), "-", "")[:8],
		strings.ToLower(filepath.Ext(upload.Filename)),
	)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		s.logger.Error("Failed to create upload file", zap.String("name", name), zap.Error(err))
		return domain.Image{}, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, upload.Content); err != nil {
		s.logger.Error("Failed to write upload file", zap.String("name", name), zap.Error(err))
		// A half-written file is useless; best effort cleanup.
		os.Remove(dst.Name())
		return domain.Image{}, err
	}

	return domain.Image{
		URL:       URLPrefix + "/" + name,
		StorageID: name,
	}, nil
}
