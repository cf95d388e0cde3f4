package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/garmentcrm/backend/internal/domain/gallery"
)

// ImageAssetModel is the persistence model for image assets
type ImageAssetModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null;index:idx_image_item"`
	ItemType    string    `gorm:"type:varchar(30);not null;index:idx_image_item"`
	URL         string    `gorm:"type:text;not null"`
	StorageKey  string    `gorm:"type:text"`
	Description string    `gorm:"type:text"`
	Class       string    `gorm:"type:varchar(30)"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ImageAssetModel) TableName() string {
	return "image_assets"
}

// ToDomain converts the persistence model to a domain ImageAsset
func (m *ImageAssetModel) ToDomain() *gallery.ImageAsset {
	return &gallery.ImageAsset{
		ID:          m.ID,
		ItemID:      m.ItemID,
		ItemType:    gallery.ItemType(m.ItemType),
		URL:         m.URL,
		StorageKey:  m.StorageKey,
		Description: m.Description,
		Class:       m.Class,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain ImageAsset
func (m *ImageAssetModel) FromDomain(a *gallery.ImageAsset) {
	m.ID = a.ID
	m.ItemID = a.ItemID
	m.ItemType = string(a.ItemType)
	m.URL = a.URL
	m.StorageKey = a.StorageKey
	m.Description = a.Description
	m.Class = a.Class
	m.CreatedAt = a.CreatedAt
}
