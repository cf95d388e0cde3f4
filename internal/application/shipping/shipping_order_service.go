package shipping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/garmentcrm/backend/internal/domain/shipping"
)

// ShippingOrderService serves the read side of shipping orders plus
// deletion. All writes go through the Pipeline.
type ShippingOrderService struct {
	orders   shipping.ShippingOrderRepository
	packages shipping.PackageSpecRepository
	cache    MetricsCache
	logger   *zap.Logger
}

// NewShippingOrderService creates a new shipping order service. cache
// may be nil when dashboard caching is disabled.
func NewShippingOrderService(orders shipping.ShippingOrderRepository, packages shipping.PackageSpecRepository, cache MetricsCache, logger *zap.Logger) *ShippingOrderService {
	return &ShippingOrderService{orders: orders, packages: packages, cache: cache, logger: logger}
}

// Get returns one shipping order with its line items
func (s *ShippingOrderService) Get(ctx context.Context, id uuid.UUID) (*shipping.ShippingOrder, error) {
	return s.orders.FindByID(ctx, id)
}

// GetPackages returns the package specifications of an order
func (s *ShippingOrderService) GetPackages(ctx context.Context, orderID uuid.UUID) ([]shipping.PackageSpecification, error) {
	return s.packages.FindByOrder(ctx, orderID)
}

// List returns a page of shipping orders
func (s *ShippingOrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[shipping.ShippingOrder], error) {
	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListByCustomer returns a page of a customer's shipping orders
func (s *ShippingOrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]shipping.ShippingOrder, error) {
	return s.orders.FindByCustomer(ctx, customerID, filter)
}

// TrackPackage resolves a carrier tracking code to the package carrying it
func (s *ShippingOrderService) TrackPackage(ctx context.Context, trackingCode string) (*shipping.PackageSpecification, error) {
	return s.packages.FindByTrackingCode(ctx, trackingCode)
}

// Search matches orders against order number and customer name
func (s *ShippingOrderService) Search(ctx context.Context, term string, filter shared.Filter) ([]shipping.ShippingOrder, error) {
	return s.orders.Search(ctx, term, filter)
}

// Delete removes a shipping order, its items, packages and assignments
func (s *ShippingOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("failed to invalidate metrics cache", zap.Error(err))
		}
	}
	return nil
}

// DashboardMetrics returns the order aggregates for the overview page,
// served from cache when fresh and recomputed on a miss. Cache failures
// fall through to the database.
func (s *ShippingOrderService) DashboardMetrics(ctx context.Context) (*DashboardMetrics, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetDashboardMetrics(ctx); ok {
			return cached, nil
		}
	}

	total, err := s.orders.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	metrics := &DashboardMetrics{
		TotalOrders:  total,
		StatusCounts: byStatus,
		GeneratedAt:  time.Now(),
	}
	if s.cache != nil {
		if err := s.cache.SetDashboardMetrics(ctx, metrics); err != nil {
			s.logger.Warn("failed to cache dashboard metrics", zap.Error(err))
		}
	}
	return metrics, nil
}
