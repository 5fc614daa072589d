package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/shared"
	infraconfig "github.com/realty/backend/internal/infrastructure/config"
)

// Ensure LocalDocumentStore implements DocumentStore
var _ shared.BlobStore = (*LocalDocumentStore)(nil)

// LocalDocumentStore keeps documents on the local filesystem. Meant
// for development and tests; presigned URLs degrade to file:// paths.
type LocalDocumentStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalDocumentStore creates a store rooted at cfg.LocalPath
func NewLocalDocumentStore(cfg *infraconfig.StorageConfig, logger *zap.Logger) (*LocalDocumentStore, error) {
	if cfg == nil || cfg.LocalPath == "" {
		return nil, errors.New("storage local path is required")
	}
	if err := os.MkdirAll(cfg.LocalPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalDocumentStore{baseDir: cfg.LocalPath, logger: logger}, nil
}

// resolve maps a storage key onto the base dir, rejecting path escapes
func (s *LocalDocumentStore) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

// Upload writes a document under the base dir
func (s *LocalDocumentStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create document dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	s.logger.Debug("Document stored locally", zap.String("key", key), zap.String("path", path))
	return nil
}

// PresignedURL returns a file:// URL; expiry is ignored for local files
func (s *LocalDocumentStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("document not found: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// Delete removes a document
func (s *LocalDocumentStore) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
