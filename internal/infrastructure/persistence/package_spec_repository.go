package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/garmentcrm/backend/internal/domain/shipping"
	"github.com/garmentcrm/backend/internal/infrastructure/persistence/models"
)

// GormPackageSpecRepository implements PackageSpecRepository using GORM
type GormPackageSpecRepository struct {
	db *gorm.DB
}

// NewGormPackageSpecRepository creates a new GormPackageSpecRepository
func NewGormPackageSpecRepository(db *gorm.DB) *GormPackageSpecRepository {
	return &GormPackageSpecRepository{db: db}
}

// FindByOrder finds all package specifications for an order
func (r *GormPackageSpecRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]shipping.PackageSpecification, error) {
	var specModels []models.PackageSpecificationModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&specModels).Error; err != nil {
		return nil, err
	}

	specs := make([]shipping.PackageSpecification, len(specModels))
	for i, model := range specModels {
		specs[i] = *model.ToDomain()
	}
	return specs, nil
}

// Create persists a new package specification
func (r *GormPackageSpecRepository) Create(ctx context.Context, spec *shipping.PackageSpecification) error {
	var model models.PackageSpecificationModel
	model.FromDomain(spec)
	return r.db.WithContext(ctx).Omit("Assignments").Create(&model).Error
}

// Update updates a persisted package specification
func (r *GormPackageSpecRepository) Update(ctx context.Context, spec *shipping.PackageSpecification) error {
	var model models.PackageSpecificationModel
	model.FromDomain(spec)
	result := r.db.WithContext(ctx).Omit("Assignments").Save(&model)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete deletes a package specification together with its assignments
func (r *GormPackageSpecRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PackageItemAssignmentModel{}, "package_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PackageSpecificationModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CreateAssignment persists a package-item assignment
func (r *GormPackageSpecRepository) CreateAssignment(ctx context.Context, assignment *shipping.PackageItemAssignment) error {
	var model models.PackageItemAssignmentModel
	model.FromDomain(assignment)
	return r.db.WithContext(ctx).Create(&model).Error
}

// DeleteAssignment deletes a single assignment by ID
func (r *GormPackageSpecRepository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PackageItemAssignmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAssignmentsForPackage deletes all assignments of a package
func (r *GormPackageSpecRepository) DeleteAssignmentsForPackage(ctx context.Context, packageID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.PackageItemAssignmentModel{}, "package_id = ?", packageID).Error
}

// DeleteAssignmentsForItem deletes all assignments of an item
func (r *GormPackageSpecRepository) DeleteAssignmentsForItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.PackageItemAssignmentModel{}, "item_id = ?", itemID).Error
}

// FindAssignmentsByPackage finds assignments for a package
func (r *GormPackageSpecRepository) FindAssignmentsByPackage(ctx context.Context, packageID uuid.UUID) ([]shipping.PackageItemAssignment, error) {
	var assignmentModels []models.PackageItemAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("package_id = ?", packageID).
		Order("created_at ASC").
		Find(&assignmentModels).Error; err != nil {
		return nil, err
	}

	assignments := make([]shipping.PackageItemAssignment, len(assignmentModels))
	for i, model := range assignmentModels {
		assignments[i] = *model.ToDomain()
	}
	return assignments, nil
}

// FindByTrackingCode finds a package specification by its tracking code
func (r *GormPackageSpecRepository) FindByTrackingCode(ctx context.Context, trackingCode string) (*shipping.PackageSpecification, error) {
	var model models.PackageSpecificationModel
	if err := r.db.WithContext(ctx).
		First(&model, "tracking_code = ?", trackingCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormPackageSpecRepository implements PackageSpecRepository
var _ shipping.PackageSpecRepository = (*GormPackageSpecRepository)(nil)
