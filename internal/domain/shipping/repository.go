package shipping

import (
	"context"

	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ShippingOrderRepository defines the interface for shipping order persistence
type ShippingOrderRepository interface {
	// FindByID finds a shipping order (with items) by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ShippingOrder, error)

	// FindAll finds shipping orders with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]ShippingOrder, error)

	// FindByCustomer finds shipping orders for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]ShippingOrder, error)

	// Search finds shipping orders matching a term against order number,
	// customer name and customer owner name
	Search(ctx context.Context, term string, filter shared.Filter) ([]ShippingOrder, error)

	// Save creates or updates the order header
	Save(ctx context.Context, order *ShippingOrder) error

	// Delete deletes a shipping order
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts shipping orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus returns order counts grouped by status
	CountByStatus(ctx context.Context) (map[OrderStatus]int64, error)

	// NextOrderNumber reserves the next sequential order number
	NextOrderNumber(ctx context.Context) (string, error)

	// CreateItem persists a line item for an order
	CreateItem(ctx context.Context, item *ShippingOrderItem) error

	// UpdateItem updates a persisted line item
	UpdateItem(ctx context.Context, item *ShippingOrderItem) error

	// DeleteItem deletes a line item
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

// PackageSpecRepository defines the interface for package specification persistence
type PackageSpecRepository interface {
	// FindByOrder finds all package specifications for an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]PackageSpecification, error)

	// FindByTrackingCode finds the package carrying the given tracking code
	FindByTrackingCode(ctx context.Context, trackingCode string) (*PackageSpecification, error)

	// Create persists a new package specification
	Create(ctx context.Context, spec *PackageSpecification) error

	// Update updates a persisted package specification
	Update(ctx context.Context, spec *PackageSpecification) error

	// Delete deletes a package specification, cascading to its assignments
	Delete(ctx context.Context, id uuid.UUID) error

	// CreateAssignment persists a package-item assignment
	CreateAssignment(ctx context.Context, assignment *PackageItemAssignment) error

	// DeleteAssignment deletes a single assignment by ID
	DeleteAssignment(ctx context.Context, id uuid.UUID) error

	// DeleteAssignmentsForPackage deletes all assignments of a package
	DeleteAssignmentsForPackage(ctx context.Context, packageID uuid.UUID) error

	// DeleteAssignmentsForItem deletes all assignments of an item
	DeleteAssignmentsForItem(ctx context.Context, itemID uuid.UUID) error

	// FindAssignmentsByPackage finds assignments for a package
	FindAssignmentsByPackage(ctx context.Context, packageID uuid.UUID) ([]PackageItemAssignment, error)
}
