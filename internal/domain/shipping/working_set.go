package shipping

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The working set is the client's in-flight edit state for one save:
// items and packages as the user currently sees them, tagged with what
// changed since last load. Persisted identity is explicit per variant
// instead of being encoded in the sign of an integer ID.

// PackageKind tags a working package as not-yet-persisted or persisted
type PackageKind int

const (
	PackageNew PackageKind = iota
	PackageExisting
)

// WorkingPackage is one package in the client's working set. Ref is the
// client-local key items use in their PackageQuantities map; for existing
// packages it is the persisted ID string.
type WorkingPackage struct {
	Ref  string
	Kind PackageKind
	ID   uuid.UUID // set when Kind == PackageExisting

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
	ShipmentRef        string
	RateRef            string

	TrackingCode    string
	LabelURL        string
	ShipmentStatus  string
	EstDeliveryDays *int
}

// HasCarrierSelection reports whether both carrier and service are set
func (p *WorkingPackage) HasCarrierSelection() bool {
	return p.Carrier != "" && p.Service != ""
}

// NeedsLabel reports whether the package is rate-quoted but unlabeled
func (p *WorkingPackage) NeedsLabel() bool {
	return p.ShipmentRef != "" && p.RateRef != "" && p.TrackingCode == ""
}

// ToSpecification materializes the working package as a persisted
// specification belonging to the given order
func (p *WorkingPackage) ToSpecification(orderID uuid.UUID) (*PackageSpecification, error) {
	spec, err := NewPackageSpecification(orderID, p.Name)
	if err != nil {
		return nil, err
	}
	if p.Kind == PackageExisting {
		spec.ID = p.ID
	}
	spec.CompanyName = p.CompanyName
	spec.PhoneNumber = p.PhoneNumber
	spec.Length = p.Length
	spec.Width = p.Width
	spec.Height = p.Height
	spec.Weight = p.Weight
	spec.MeasurementUnit = p.MeasurementUnit
	spec.Address = p.Address
	spec.City = p.City
	spec.State = p.State
	spec.Zip = p.Zip
	spec.Country = p.Country
	spec.Carrier = p.Carrier
	spec.Service = p.Service
	spec.CarrierDescription = p.CarrierDescription
	spec.ShippingRateID = p.ShippingRateID
	spec.ShipmentRef = p.ShipmentRef
	spec.RateRef = p.RateRef
	spec.TrackingCode = p.TrackingCode
	spec.LabelURL = p.LabelURL
	spec.ShipmentStatus = p.ShipmentStatus
	spec.EstDeliveryDays = p.EstDeliveryDays
	return spec, nil
}

// ItemAction tags what happened to a working item since last load
type ItemAction int

const (
	ItemActionKeep ItemAction = iota
	ItemActionCreate
	ItemActionUpdate
	ItemActionDelete
)

// ImageClass classifies an attached image
type ImageClass string

const (
	ImageClassLogo    ImageClass = "LOGO"
	ImageClassArtwork ImageClass = "ARTWORK"
	ImageClassOther   ImageClass = "OTHER"
)

// ImageInput is one image attached to a working item: either a raw file
// payload or a reference to an already-hosted URL, never both.
type ImageInput struct {
	FileName    string
	Data        []byte // raw file payload; nil for hosted images
	ContentType string
	HostedURL   string // pre-hosted URL; empty for raw files
	Description string
	Class       ImageClass
}

// IsFile reports whether the input carries a raw file payload
func (in *ImageInput) IsFile() bool {
	return len(in.Data) > 0
}

// WorkingItem is one line item in the client's working set. ID is set only
// when Action != ItemActionCreate. PackageQuantities maps WorkingPackage.Ref
// to the quantity of this item riding in that package.
type WorkingItem struct {
	Action ItemAction
	ID     uuid.UUID

	ProductID       *uuid.UUID
	TrimID          *uuid.UUID
	YarnID          *uuid.UUID
	PackagingID     *uuid.UUID
	ItemNumber      string
	ItemName        string
	ItemDescription string
	Quantity        int
	UnitPrice       decimal.Decimal

	Images            []ImageInput
	PackageQuantities map[string]int
}

// AssignedTo reports whether the item is assigned to the given package ref
func (w *WorkingItem) AssignedTo(ref string) bool {
	return w.PackageQuantities[ref] > 0
}
