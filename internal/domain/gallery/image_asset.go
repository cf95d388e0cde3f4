package gallery

import (
	"context"
	"time"

	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemType tags which kind of document item an image belongs to
type ItemType string

const (
	ItemTypeShipping ItemType = "SHIPPING"
	ItemTypeQuotes   ItemType = "QUOTES"
	ItemTypeOrders   ItemType = "ORDERS"
)

// ImageAsset is a stored image belonging to a document line item.
// Assets are append-only; a failed upload leaves no asset behind and
// never removes the owning item.
type ImageAsset struct {
	ID          uuid.UUID
	ItemID      uuid.UUID
	ItemType    ItemType
	URL         string
	StorageKey  string // empty for assets registered from a hosted URL
	Description string
	Class       string // LOGO, ARTWORK, OTHER
	CreatedAt   time.Time
}

// NewImageAsset creates an image asset record
func NewImageAsset(itemID uuid.UUID, itemType ItemType, url, storageKey, description, class string) (*ImageAsset, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if url == "" {
		return nil, shared.NewDomainError("INVALID_URL", "Image URL cannot be empty")
	}
	return &ImageAsset{
		ID:          uuid.New(),
		ItemID:      itemID,
		ItemType:    itemType,
		URL:         url,
		StorageKey:  storageKey,
		Description: description,
		Class:       class,
		CreatedAt:   time.Now(),
	}, nil
}

// ImageAssetRepository defines the interface for image asset persistence
type ImageAssetRepository interface {
	// Create persists an image asset
	Create(ctx context.Context, asset *ImageAsset) error

	// FindByItem finds assets for an item
	FindByItem(ctx context.Context, itemID uuid.UUID, itemType ItemType) ([]ImageAsset, error)

	// Delete deletes an asset record
	Delete(ctx context.Context, id uuid.UUID) error
}
