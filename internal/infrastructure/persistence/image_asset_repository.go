package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garmentcrm/backend/internal/domain/gallery"
	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/garmentcrm/backend/internal/infrastructure/persistence/models"
)

// GormImageAssetRepository implements ImageAssetRepository using GORM
type GormImageAssetRepository struct {
	db *gorm.DB
}

// NewGormImageAssetRepository creates a new GormImageAssetRepository
func NewGormImageAssetRepository(db *gorm.DB) *GormImageAssetRepository {
	return &GormImageAssetRepository{db: db}
}

// Create persists an image asset
func (r *GormImageAssetRepository) Create(ctx context.Context, asset *gallery.ImageAsset) error {
	var model models.ImageAssetModel
	model.FromDomain(asset)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByItem finds assets for an item
func (r *GormImageAssetRepository) FindByItem(ctx context.Context, itemID uuid.UUID, itemType gallery.ItemType) ([]gallery.ImageAsset, error) {
	var assetModels []models.ImageAssetModel
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND item_type = ?", itemID, string(itemType)).
		Order("created_at ASC").
		Find(&assetModels).Error; err != nil {
		return nil, err
	}

	assets := make([]gallery.ImageAsset, len(assetModels))
	for i, model := range assetModels {
		assets[i] = *model.ToDomain()
	}
	return assets, nil
}

// Delete deletes an asset record
func (r *GormImageAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ImageAssetModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormImageAssetRepository implements ImageAssetRepository
var _ gallery.ImageAssetRepository = (*GormImageAssetRepository)(nil)
