package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garmentcrm/backend/internal/domain/shipping"
)

// ShippingOrderModel is the persistence model for the ShippingOrder aggregate
type ShippingOrderModel struct {
	BaseModel
	OrderNumber      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SourceOrderID    *uuid.UUID      `gorm:"type:uuid;index"`
	Status           string          `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	OrderDate        time.Time       `gorm:"not null"`
	ExpectedShipDate *time.Time
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxTotal         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	InsuranceValue   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency         string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Notes            string          `gorm:"type:text"`
	Terms            string          `gorm:"type:text"`
	UserOwner        string          `gorm:"type:varchar(100)"`

	Items []ShippingOrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ShippingOrderModel) TableName() string {
	return "shipping_orders"
}

// ToDomain converts the persistence model to a domain ShippingOrder
func (m *ShippingOrderModel) ToDomain() *shipping.ShippingOrder {
	order := &shipping.ShippingOrder{
		BaseEntity:       m.BaseModel.ToDomain(),
		OrderNumber:      m.OrderNumber,
		CustomerID:       m.CustomerID,
		SourceOrderID:    m.SourceOrderID,
		Status:           shipping.OrderStatus(m.Status),
		OrderDate:        m.OrderDate,
		ExpectedShipDate: m.ExpectedShipDate,
		Subtotal:         m.Subtotal,
		TaxTotal:         m.TaxTotal,
		InsuranceValue:   m.InsuranceValue,
		Currency:         m.Currency,
		Notes:            m.Notes,
		Terms:            m.Terms,
		UserOwner:        m.UserOwner,
		Items:            make([]shipping.ShippingOrderItem, len(m.Items)),
	}
	for i := range m.Items {
		order.Items[i] = *m.Items[i].ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain ShippingOrder.
// Items are persisted separately and not copied here.
func (m *ShippingOrderModel) FromDomain(o *shipping.ShippingOrder) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.SourceOrderID = o.SourceOrderID
	m.Status = o.Status.String()
	m.OrderDate = o.OrderDate
	m.ExpectedShipDate = o.ExpectedShipDate
	m.Subtotal = o.Subtotal
	m.TaxTotal = o.TaxTotal
	m.InsuranceValue = o.InsuranceValue
	m.Currency = o.Currency
	m.Notes = o.Notes
	m.Terms = o.Terms
	m.UserOwner = o.UserOwner
}

// ShippingOrderItemModel is the persistence model for a shipping order line item
type ShippingOrderItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       *uuid.UUID      `gorm:"type:uuid;index"`
	TrimID          *uuid.UUID      `gorm:"type:uuid"`
	YarnID          *uuid.UUID      `gorm:"type:uuid"`
	PackagingID     *uuid.UUID      `gorm:"type:uuid"`
	ItemNumber      string          `gorm:"type:varchar(50);not null"`
	ItemName        string          `gorm:"type:varchar(200);not null"`
	ItemDescription string          `gorm:"type:text"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShippingOrderItemModel) TableName() string {
	return "shipping_order_items"
}

// ToDomain converts the persistence model to a domain ShippingOrderItem
func (m *ShippingOrderItemModel) ToDomain() *shipping.ShippingOrderItem {
	return &shipping.ShippingOrderItem{
		ID:              m.ID,
		OrderID:         m.OrderID,
		ProductID:       m.ProductID,
		TrimID:          m.TrimID,
		YarnID:          m.YarnID,
		PackagingID:     m.PackagingID,
		ItemNumber:      m.ItemNumber,
		ItemName:        m.ItemName,
		ItemDescription: m.ItemDescription,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		TaxRate:         m.TaxRate,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ShippingOrderItem
func (m *ShippingOrderItemModel) FromDomain(i *shipping.ShippingOrderItem) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.ProductID = i.ProductID
	m.TrimID = i.TrimID
	m.YarnID = i.YarnID
	m.PackagingID = i.PackagingID
	m.ItemNumber = i.ItemNumber
	m.ItemName = i.ItemName
	m.ItemDescription = i.ItemDescription
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice
	m.TaxRate = i.TaxRate
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// PackageSpecificationModel is the persistence model for a package specification
type PackageSpecificationModel struct {
	BaseModel
	OrderID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name               string          `gorm:"type:varchar(200);not null"`
	CompanyName        string          `gorm:"type:varchar(200)"`
	PhoneNumber        string          `gorm:"type:varchar(50)"`
	Length             decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	Width              decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	Height             decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	Weight             decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	MeasurementUnit    string          `gorm:"type:varchar(20)"`
	Address            string          `gorm:"type:text"`
	City               string          `gorm:"type:varchar(100)"`
	State              string          `gorm:"type:varchar(100)"`
	Zip                string          `gorm:"type:varchar(20)"`
	Country            string          `gorm:"type:varchar(100)"`
	Carrier            string          `gorm:"type:varchar(100)"`
	Service            string          `gorm:"type:varchar(100)"`
	CarrierDescription string          `gorm:"type:text"`
	ShippingRateID     string          `gorm:"type:varchar(100)"`
	ShipmentRef        string          `gorm:"type:varchar(100)"`
	RateRef            string          `gorm:"type:varchar(100)"`
	TrackingCode       string          `gorm:"type:varchar(100);index"`
	LabelURL           string          `gorm:"type:text"`
	ShipmentStatus     string          `gorm:"type:varchar(50)"`
	EstDeliveryDays    *int

	Assignments []PackageItemAssignmentModel `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PackageSpecificationModel) TableName() string {
	return "package_specifications"
}

// ToDomain converts the persistence model to a domain PackageSpecification
func (m *PackageSpecificationModel) ToDomain() *shipping.PackageSpecification {
	return &shipping.PackageSpecification{
		BaseEntity:         m.BaseModel.ToDomain(),
		OrderID:            m.OrderID,
		Name:               m.Name,
		CompanyName:        m.CompanyName,
		PhoneNumber:        m.PhoneNumber,
		Length:             m.Length,
		Width:              m.Width,
		Height:             m.Height,
		Weight:             m.Weight,
		MeasurementUnit:    m.MeasurementUnit,
		Address:            m.Address,
		City:               m.City,
		State:              m.State,
		Zip:                m.Zip,
		Country:            m.Country,
		Carrier:            m.Carrier,
		Service:            m.Service,
		CarrierDescription: m.CarrierDescription,
		ShippingRateID:     m.ShippingRateID,
		ShipmentRef:        m.ShipmentRef,
		RateRef:            m.RateRef,
		TrackingCode:       m.TrackingCode,
		LabelURL:           m.LabelURL,
		ShipmentStatus:     m.ShipmentStatus,
		EstDeliveryDays:    m.EstDeliveryDays,
	}
}

// FromDomain populates the persistence model from a domain PackageSpecification
func (m *PackageSpecificationModel) FromDomain(p *shipping.PackageSpecification) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.OrderID = p.OrderID
	m.Name = p.Name
	m.CompanyName = p.CompanyName
	m.PhoneNumber = p.PhoneNumber
	m.Length = p.Length
	m.Width = p.Width
	m.Height = p.Height
	m.Weight = p.Weight
	m.MeasurementUnit = p.MeasurementUnit
	m.Address = p.Address
	m.City = p.City
	m.State = p.State
	m.Zip = p.Zip
	m.Country = p.Country
	m.Carrier = p.Carrier
	m.Service = p.Service
	m.CarrierDescription = p.CarrierDescription
	m.ShippingRateID = p.ShippingRateID
	m.ShipmentRef = p.ShipmentRef
	m.RateRef = p.RateRef
	m.TrackingCode = p.TrackingCode
	m.LabelURL = p.LabelURL
	m.ShipmentStatus = p.ShipmentStatus
	m.EstDeliveryDays = p.EstDeliveryDays
}

// PackageItemAssignmentModel is the persistence model for an item-to-package assignment
type PackageItemAssignmentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	PackageID uuid.UUID `gorm:"type:uuid;not null;index:idx_assignment_package"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index:idx_assignment_item"`
	Quantity  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PackageItemAssignmentModel) TableName() string {
	return "package_item_assignments"
}

// ToDomain converts the persistence model to a domain PackageItemAssignment
func (m *PackageItemAssignmentModel) ToDomain() *shipping.PackageItemAssignment {
	return &shipping.PackageItemAssignment{
		ID:        m.ID,
		PackageID: m.PackageID,
		ItemID:    m.ItemID,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain PackageItemAssignment
func (m *PackageItemAssignmentModel) FromDomain(a *shipping.PackageItemAssignment) {
	m.ID = a.ID
	m.PackageID = a.PackageID
	m.ItemID = a.ItemID
	m.Quantity = a.Quantity
	m.CreatedAt = a.CreatedAt
}
