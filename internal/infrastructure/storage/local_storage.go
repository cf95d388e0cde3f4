package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	galleryapp "github.com/garmentcrm/backend/internal/application/gallery"
)

// Ensure LocalObjectStorage implements ObjectStorage
var _ galleryapp.ObjectStorage = (*LocalObjectStorage)(nil)

// LocalObjectStorage stores gallery objects on the local filesystem.
// Meant for development and tests; production uses S3.
type LocalObjectStorage struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewLocalObjectStorage creates a local store rooted at dir. Served URLs
// are baseURL plus the object key.
func NewLocalObjectStorage(dir, baseURL string, logger *zap.Logger) (*LocalObjectStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalObjectStorage{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Upload writes the payload under key and returns its served URL
func (s *LocalObjectStorage) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating object directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing object %s: %w", key, err)
	}
	s.logger.Debug("object stored", zap.String("path", path))
	return s.baseURL + "/" + key, nil
}

// Delete removes an object; deleting a missing key is not an error
func (s *LocalObjectStorage) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing object %s: %w", key, err)
	}
	return nil
}

// resolve maps a key to a filesystem path, refusing traversal outside dir
func (s *LocalObjectStorage) resolve(key string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return path, nil
}
