package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garmentcrm/backend/internal/domain/activity"
	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/garmentcrm/backend/internal/infrastructure/persistence/models"
)

// GormActivityRecordRepository implements RecordRepository using GORM
type GormActivityRecordRepository struct {
	db *gorm.DB
}

// NewGormActivityRecordRepository creates a new GormActivityRecordRepository
func NewGormActivityRecordRepository(db *gorm.DB) *GormActivityRecordRepository {
	return &GormActivityRecordRepository{db: db}
}

// Create appends an audit record
func (r *GormActivityRecordRepository) Create(ctx context.Context, record *activity.Record) error {
	var model models.ActivityRecordModel
	model.FromDomain(record)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByDocument finds records for a document, newest first
func (r *GormActivityRecordRepository) FindByDocument(ctx context.Context, documentID uuid.UUID, filter shared.Filter) ([]activity.Record, error) {
	var recordModels []models.ActivityRecordModel
	query := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]activity.Record, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Ensure GormActivityRecordRepository implements RecordRepository
var _ activity.RecordRepository = (*GormActivityRecordRepository)(nil)
