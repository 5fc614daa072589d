package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/shared"
	infraconfig "github.com/realty/backend/internal/infrastructure/config"
)

// NewDocumentStore builds the blob store selected by cfg.Driver. The
// contract services use it for signed documents, the listing service
// for property photos.
func NewDocumentStore(cfg *infraconfig.StorageConfig, logger *zap.Logger) (shared.BlobStore, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3DocumentStore(cfg, logger)
	case "local", "":
		return NewLocalDocumentStore(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
