package shipping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garmentcrm/backend/internal/domain/gallery"
	"github.com/garmentcrm/backend/internal/domain/shipping"
)

// LabelData is the carrier's answer to a successful label purchase
type LabelData struct {
	TrackingCode   string
	LabelURL       string
	ShipmentStatus string
}

// CarrierService buys shipping labels from the rate provider.
// Implementations live in infrastructure/carrier.
type CarrierService interface {
	BuyLabel(ctx context.Context, shipmentRef, rateRef string) (*LabelData, error)
}

// ImageStore persists image payloads and their gallery records.
// Implemented by the gallery application service.
type ImageStore interface {
	CreateFromFile(ctx context.Context, itemID uuid.UUID, itemType gallery.ItemType, fileName, contentType string, data []byte, description, class string) (*gallery.ImageAsset, error)
	CreateFromURL(ctx context.Context, itemID uuid.UUID, itemType gallery.ItemType, url, description, class string) (*gallery.ImageAsset, error)
}

// AuditSink writes activity history records. Failures here never abort
// the pipeline; callers log and continue.
type AuditSink interface {
	Record(ctx context.Context, customerID uuid.UUID, status, activity, activityType string, documentID uuid.UUID, documentType, userOwner string) error
}

// CreateOrderInput carries everything needed to build a shipping order
// in one pipeline run: header fields, the item working set and the
// package working set.
type CreateOrderInput struct {
	CustomerID        uuid.UUID
	Status            shipping.OrderStatus
	SourceOrderID     *uuid.UUID
	SourceOrderNumber string
	OrderDate         time.Time
	ExpectedShipDate  *time.Time
	TaxRate           decimal.Decimal
	InsuranceValue    decimal.Decimal
	Currency          string
	Notes             string
	Terms             string
	UserOwner         string
	Items             []*shipping.WorkingItem
	Packages          []*shipping.WorkingPackage
}

// UpdateOrderInput mirrors CreateOrderInput for an existing order. The
// working sets are authoritative: persisted rows absent from them are
// deleted during reconciliation.
type UpdateOrderInput struct {
	OrderID          uuid.UUID
	Status           shipping.OrderStatus
	ExpectedShipDate *time.Time
	TaxRate          decimal.Decimal
	InsuranceValue   decimal.Decimal
	Notes            string
	Terms            string
	UserOwner        string
	Items            []*shipping.WorkingItem
	Packages         []*shipping.WorkingPackage
}

// PipelineResult is returned only when the run committed. Warnings
// collect the non-fatal label and image failures encountered on the way.
type PipelineResult struct {
	Order    *shipping.ShippingOrder
	State    State
	Warnings []string
}

// DashboardMetrics is the cached aggregate shown on the overview page
type DashboardMetrics struct {
	TotalOrders  int64                          `json:"total_orders"`
	StatusCounts map[shipping.OrderStatus]int64 `json:"status_counts"`
	GeneratedAt  time.Time                      `json:"generated_at"`
}

// MetricsCache is the read-through cache for dashboard aggregates.
// A miss returns ok=false; cache write failures are ignored by callers.
type MetricsCache interface {
	GetDashboardMetrics(ctx context.Context) (*DashboardMetrics, bool)
	SetDashboardMetrics(ctx context.Context, m *DashboardMetrics) error
	Invalidate(ctx context.Context) error
}
