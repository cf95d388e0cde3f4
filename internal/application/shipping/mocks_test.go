package shipping

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/garmentcrm/backend/internal/domain/gallery"
	"github.com/garmentcrm/backend/internal/domain/partner"
	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/garmentcrm/backend/internal/domain/shipping"
)

// MockShippingOrderRepository is a mock implementation of ShippingOrderRepository
type MockShippingOrderRepository struct {
	mock.Mock
}

func (m *MockShippingOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.ShippingOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.ShippingOrder), args.Error(1)
}

func (m *MockShippingOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipping.ShippingOrder, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]shipping.ShippingOrder), args.Error(1)
}

func (m *MockShippingOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]shipping.ShippingOrder, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]shipping.ShippingOrder), args.Error(1)
}

func (m *MockShippingOrderRepository) Search(ctx context.Context, term string, filter shared.Filter) ([]shipping.ShippingOrder, error) {
	args := m.Called(ctx, term, filter)
	return args.Get(0).([]shipping.ShippingOrder), args.Error(1)
}

func (m *MockShippingOrderRepository) Save(ctx context.Context, order *shipping.ShippingOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockShippingOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShippingOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShippingOrderRepository) CountByStatus(ctx context.Context) (map[shipping.OrderStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[shipping.OrderStatus]int64), args.Error(1)
}

func (m *MockShippingOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockShippingOrderRepository) CreateItem(ctx context.Context, item *shipping.ShippingOrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockShippingOrderRepository) UpdateItem(ctx context.Context, item *shipping.ShippingOrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockShippingOrderRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

// MockPackageSpecRepository is a mock implementation of PackageSpecRepository
type MockPackageSpecRepository struct {
	mock.Mock
}

func (m *MockPackageSpecRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]shipping.PackageSpecification, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.PackageSpecification), args.Error(1)
}

func (m *MockPackageSpecRepository) FindByTrackingCode(ctx context.Context, trackingCode string) (*shipping.PackageSpecification, error) {
	args := m.Called(ctx, trackingCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.PackageSpecification), args.Error(1)
}

func (m *MockPackageSpecRepository) Create(ctx context.Context, spec *shipping.PackageSpecification) error {
	args := m.Called(ctx, spec)
	return args.Error(0)
}

func (m *MockPackageSpecRepository) Update(ctx context.Context, spec *shipping.PackageSpecification) error {
	args := m.Called(ctx, spec)
	return args.Error(0)
}

func (m *MockPackageSpecRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPackageSpecRepository) CreateAssignment(ctx context.Context, assignment *shipping.PackageItemAssignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockPackageSpecRepository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPackageSpecRepository) DeleteAssignmentsForPackage(ctx context.Context, packageID uuid.UUID) error {
	args := m.Called(ctx, packageID)
	return args.Error(0)
}

func (m *MockPackageSpecRepository) DeleteAssignmentsForItem(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockPackageSpecRepository) FindAssignmentsByPackage(ctx context.Context, packageID uuid.UUID) ([]shipping.PackageItemAssignment, error) {
	args := m.Called(ctx, packageID)
	return args.Get(0).([]shipping.PackageItemAssignment), args.Error(1)
}

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCarrierService is a mock implementation of CarrierService
type MockCarrierService struct {
	mock.Mock
}

func (m *MockCarrierService) BuyLabel(ctx context.Context, shipmentRef, rateRef string) (*LabelData, error) {
	args := m.Called(ctx, shipmentRef, rateRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LabelData), args.Error(1)
}

// MockImageStore is a mock implementation of ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) CreateFromFile(ctx context.Context, itemID uuid.UUID, itemType gallery.ItemType, fileName, contentType string, data []byte, description, class string) (*gallery.ImageAsset, error) {
	args := m.Called(ctx, itemID, itemType, fileName, contentType, data, description, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gallery.ImageAsset), args.Error(1)
}

func (m *MockImageStore) CreateFromURL(ctx context.Context, itemID uuid.UUID, itemType gallery.ItemType, url, description, class string) (*gallery.ImageAsset, error) {
	args := m.Called(ctx, itemID, itemType, url, description, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gallery.ImageAsset), args.Error(1)
}

// MockAuditSink is a mock implementation of AuditSink
type MockAuditSink struct {
	mock.Mock
}

func (m *MockAuditSink) Record(ctx context.Context, customerID uuid.UUID, status, activity, activityType string, documentID uuid.UUID, documentType, userOwner string) error {
	args := m.Called(ctx, customerID, status, activity, activityType, documentID, documentType, userOwner)
	return args.Error(0)
}

// MockMetricsCache is a mock implementation of MetricsCache
type MockMetricsCache struct {
	mock.Mock
}

func (m *MockMetricsCache) GetDashboardMetrics(ctx context.Context) (*DashboardMetrics, bool) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*DashboardMetrics), args.Bool(1)
}

func (m *MockMetricsCache) SetDashboardMetrics(ctx context.Context, metrics *DashboardMetrics) error {
	args := m.Called(ctx, metrics)
	return args.Error(0)
}

func (m *MockMetricsCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
