package shipping

import (
	"time"

	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PackageSpecification is a physical shipping container record for one
// shipping order. Carrier/rate references come from the rate-quoting
// provider; label fields stay empty until a label is purchased.
type PackageSpecification struct {
	shared.BaseEntity
	OrderID         uuid.UUID
	Name            string
	CompanyName     string
	PhoneNumber     string
	Length          decimal.Decimal
	Width           decimal.Decimal
	Height          decimal.Decimal
	Weight          decimal.Decimal
	MeasurementUnit string
	Address         string
	City            string
	State           string
	Zip             string
	Country         string

	Carrier            string
	Service            string
	CarrierDescription string
	ShippingRateID     string
	ShipmentRef        string // provider shipment reference used to buy the label
	RateRef            string // provider rate reference within the shipment

	TrackingCode    string
	LabelURL        string
	ShipmentStatus  string
	EstDeliveryDays *int
}

// NewPackageSpecification creates a package specification for an order
func NewPackageSpecification(orderID uuid.UUID, name string) (*PackageSpecification, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PACKAGE_NAME", "Package name cannot be empty")
	}
	return &PackageSpecification{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		Name:       name,
	}, nil
}

// HasCarrierSelection reports whether both carrier and service are set
func (p *PackageSpecification) HasCarrierSelection() bool {
	return p.Carrier != "" && p.Service != ""
}

// NeedsLabel reports whether the package is rate-quoted but unlabeled
func (p *PackageSpecification) NeedsLabel() bool {
	return p.ShipmentRef != "" && p.RateRef != "" && p.TrackingCode == ""
}

// ApplyLabel records a purchased label. Label fields are set at most once;
// a package must be re-rated (tracking code cleared) before they can change.
func (p *PackageSpecification) ApplyLabel(trackingCode, labelURL, shipmentStatus string) error {
	if p.TrackingCode != "" {
		return shared.NewDomainError("LABEL_ALREADY_SET", "Package already has a purchased label")
	}
	if trackingCode == "" {
		return shared.NewDomainError("INVALID_LABEL", "Tracking code cannot be empty")
	}
	p.TrackingCode = trackingCode
	p.LabelURL = labelURL
	p.ShipmentStatus = shipmentStatus
	p.Touch()
	return nil
}

// PackageItemAssignment records how many units of an item ride in a package.
// Deleting a package cascades to its assignments.
type PackageItemAssignment struct {
	ID        uuid.UUID
	PackageID uuid.UUID
	ItemID    uuid.UUID
	Quantity  int
	CreatedAt time.Time
}

// NewPackageItemAssignment creates an assignment linking an item to a package
func NewPackageItemAssignment(packageID, itemID uuid.UUID, quantity int) (*PackageItemAssignment, error) {
	if packageID == uuid.Nil || itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSIGNMENT", "Package and item IDs are required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Assigned quantity must be positive")
	}
	return &PackageItemAssignment{
		ID:        uuid.New(),
		PackageID: packageID,
		ItemID:    itemID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}, nil
}
