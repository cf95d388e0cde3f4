package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/garmentcrm/backend/internal/domain/shipping"
	"github.com/garmentcrm/backend/internal/infrastructure/persistence/models"
)

// firstOrderNumber is issued when no shipping order exists yet
const firstOrderNumber = 1001

// GormShippingOrderRepository implements ShippingOrderRepository using GORM
type GormShippingOrderRepository struct {
	db *gorm.DB
}

// NewGormShippingOrderRepository creates a new GormShippingOrderRepository
func NewGormShippingOrderRepository(db *gorm.DB) *GormShippingOrderRepository {
	return &GormShippingOrderRepository{db: db}
}

// FindByID finds a shipping order with its line items by ID
func (r *GormShippingOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.ShippingOrder, error) {
	var model models.ShippingOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all shipping orders matching the filter
func (r *GormShippingOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipping.ShippingOrder, error) {
	var orderModels []models.ShippingOrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ShippingOrderModel{}), filter)

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]shipping.ShippingOrder, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// FindByCustomer finds shipping orders for a customer
func (r *GormShippingOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]shipping.ShippingOrder, error) {
	var orderModels []models.ShippingOrderModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ShippingOrderModel{}).Where("customer_id = ?", customerID),
		filter,
	)

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]shipping.ShippingOrder, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Search finds shipping orders whose order number, customer name or customer
// owner name matches the term
func (r *GormShippingOrderRepository) Search(ctx context.Context, term string, filter shared.Filter) ([]shipping.ShippingOrder, error) {
	var orderModels []models.ShippingOrderModel
	pattern := "%" + term + "%"
	query := r.db.WithContext(ctx).
		Model(&models.ShippingOrderModel{}).
		Joins("LEFT JOIN customers ON customers.id = shipping_orders.customer_id").
		Where("shipping_orders.order_number ILIKE ? OR customers.name ILIKE ? OR customers.owner_name ILIKE ?",
			pattern, pattern, pattern)

	// Columns must be qualified here, both tables carry created_at
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ShippingOrderSortFields, "created_at")
	query = query.Order("shipping_orders." + orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]shipping.ShippingOrder, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Save creates or updates the order header. Line items are managed through
// CreateItem, UpdateItem and DeleteItem.
func (r *GormShippingOrderRepository) Save(ctx context.Context, order *shipping.ShippingOrder) error {
	var model models.ShippingOrderModel
	model.FromDomain(order)
	return r.db.WithContext(ctx).Omit("Items").Save(&model).Error
}

// Delete deletes a shipping order together with its packages and items
func (r *GormShippingOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var packageIDs []uuid.UUID
		if err := tx.Model(&models.PackageSpecificationModel{}).
			Where("order_id = ?", id).
			Pluck("id", &packageIDs).Error; err != nil {
			return err
		}
		if len(packageIDs) > 0 {
			if err := tx.Delete(&models.PackageItemAssignmentModel{}, "package_id IN ?", packageIDs).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.PackageSpecificationModel{}, "order_id = ?", id).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.ShippingOrderItemModel{}, "order_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.ShippingOrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts shipping orders matching the filter
func (r *GormShippingOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ShippingOrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns shipping order counts grouped by status
func (r *GormShippingOrderRepository) CountByStatus(ctx context.Context) (map[shipping.OrderStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ShippingOrderModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[shipping.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[shipping.OrderStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// NextOrderNumber reserves the next sequential order number in the form "SO-1001"
func (r *GormShippingOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	var last string
	err := r.db.WithContext(ctx).
		Model(&models.ShippingOrderModel{}).
		Select("order_number").
		Order("LENGTH(order_number) DESC, order_number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}
	if last == "" {
		return fmt.Sprintf("SO-%d", firstOrderNumber), nil
	}

	seq, err := strconv.Atoi(strings.TrimPrefix(last, "SO-"))
	if err != nil {
		return "", fmt.Errorf("malformed order number %q: %w", last, err)
	}
	return fmt.Sprintf("SO-%d", seq+1), nil
}

// CreateItem persists a line item for an order
func (r *GormShippingOrderRepository) CreateItem(ctx context.Context, item *shipping.ShippingOrderItem) error {
	var model models.ShippingOrderItemModel
	model.FromDomain(item)
	return r.db.WithContext(ctx).Create(&model).Error
}

// UpdateItem updates a persisted line item
func (r *GormShippingOrderRepository) UpdateItem(ctx context.Context, item *shipping.ShippingOrderItem) error {
	var model models.ShippingOrderItemModel
	model.FromDomain(item)
	result := r.db.WithContext(ctx).Save(&model)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// DeleteItem deletes a line item
func (r *GormShippingOrderRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ShippingOrderItemModel{}, "id = ?", itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormShippingOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ShippingOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormShippingOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "user_owner":
			query = query.Where("user_owner = ?", value)
		}
	}

	return query
}

// Ensure GormShippingOrderRepository implements ShippingOrderRepository
var _ shipping.ShippingOrderRepository = (*GormShippingOrderRepository)(nil)
