package gallery

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garmentcrm/backend/internal/domain/gallery"
	"github.com/garmentcrm/backend/internal/domain/shared"
)

// AllowedImageContentTypes is the whitelist of content types accepted
// for gallery uploads. SVG is excluded because it can carry scripts.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

// MaxImageSizeBytes caps a single gallery upload
const MaxImageSizeBytes = 10 << 20

// ObjectStorage is the blob store behind the gallery. Implemented by
// the infrastructure layer (S3 or the local stub).
type ObjectStorage interface {
	// Upload stores the payload under key and returns its public URL
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Delete removes an object; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

// ImageService manages gallery images for document items: raw file
// uploads pushed to object storage and references to already-hosted URLs.
type ImageService struct {
	assets  gallery.ImageAssetRepository
	storage ObjectStorage
	logger  *zap.Logger
}

// NewImageService creates a new image service
func NewImageService(assets gallery.ImageAssetRepository, storage ObjectStorage, logger *zap.Logger) *ImageService {
	return &ImageService{assets: assets, storage: storage, logger: logger}
}

// CreateFromFile uploads the payload to object storage and records the
// resulting asset. The stored object is removed again if the record
// cannot be written.
func (s *ImageService) CreateFromFile(ctx context.Context, itemID uuid.UUID, itemType gallery.ItemType, fileName, contentType string, data []byte, description, class string) (*gallery.ImageAsset, error) {
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "File payload cannot be empty")
	}
	if len(data) > MaxImageSizeBytes {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("File exceeds the %d byte limit", MaxImageSizeBytes))
	}
	if !AllowedImageContentTypes[strings.ToLower(contentType)] {
		return nil, shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE",
			fmt.Sprintf("Content type %q is not allowed", contentType))
	}

	key := storageKey(itemType, itemID, fileName)
	url, err := s.storage.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("uploading image: %w", err)
	}

	asset, err := gallery.NewImageAsset(itemID, itemType, url, key, description, class)
	if err != nil {
		return nil, err
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned object",
				zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("recording image asset: %w", err)
	}

	s.logger.Info("image uploaded",
		zap.String("key", key),
		zap.String("item_id", itemID.String()))
	return asset, nil
}

// CreateFromURL records an asset pointing at an already-hosted image
func (s *ImageService) CreateFromURL(ctx context.Context, itemID uuid.UUID, itemType gallery.ItemType, url, description, class string) (*gallery.ImageAsset, error) {
	asset, err := gallery.NewImageAsset(itemID, itemType, url, "", description, class)
	if err != nil {
		return nil, err
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("recording image asset: %w", err)
	}
	return asset, nil
}

// ListForItem returns the gallery of a document item
func (s *ImageService) ListForItem(ctx context.Context, itemID uuid.UUID, itemType gallery.ItemType) ([]gallery.ImageAsset, error) {
	return s.assets.FindByItem(ctx, itemID, itemType)
}

// Delete removes an asset record and, for uploaded files, its stored object
func (s *ImageService) Delete(ctx context.Context, asset *gallery.ImageAsset) error {
	if err := s.assets.Delete(ctx, asset.ID); err != nil {
		return err
	}
	if asset.StorageKey != "" {
		if err := s.storage.Delete(ctx, asset.StorageKey); err != nil {
			s.logger.Warn("failed to remove stored object",
				zap.String("key", asset.StorageKey), zap.Error(err))
		}
	}
	return nil
}

func storageKey(itemType gallery.ItemType, itemID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("gallery/%s/%s/%s%s",
		strings.ToLower(string(itemType)), itemID, uuid.NewString(), ext)
}
