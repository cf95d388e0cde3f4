package shipping

import (
	"fmt"
	"time"

	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment state of a shipping order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// ShippingOrderItem represents a line item on a shipping order.
// Product, trim, yarn and packaging references point at catalog records
// owned elsewhere; any of them may be absent.
type ShippingOrderItem struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	ProductID       *uuid.UUID
	TrimID          *uuid.UUID
	YarnID          *uuid.UUID
	PackagingID     *uuid.UUID
	ItemNumber      string
	ItemName        string
	ItemDescription string
	Quantity        int
	UnitPrice       decimal.Decimal
	TaxRate         decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewShippingOrderItem creates a new shipping order item
func NewShippingOrderItem(orderID uuid.UUID, itemNumber, itemName string, quantity int, unitPrice, taxRate decimal.Decimal) (*ShippingOrderItem, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if itemName == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if itemNumber == "" {
		itemNumber = fmt.Sprintf("SO-ITEM-%s", uuid.NewString()[:8])
	}

	now := time.Now()
	return &ShippingOrderItem{
		ID:         uuid.New(),
		OrderID:    orderID,
		ItemNumber: itemNumber,
		ItemName:   itemName,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TaxRate:    taxRate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Amount returns quantity * unit price
func (i *ShippingOrderItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ShippingOrder is the aggregate root for one outbound shipment:
// the order header, its line items, and (via PackageSpecification)
// the physical packages carrying those items.
type ShippingOrder struct {
	shared.BaseEntity
	OrderNumber      string
	CustomerID       uuid.UUID
	SourceOrderID    *uuid.UUID // set when converted from a production/sales order
	Status           OrderStatus
	OrderDate        time.Time
	ExpectedShipDate *time.Time
	Subtotal         decimal.Decimal
	TaxTotal         decimal.Decimal
	InsuranceValue   decimal.Decimal
	Currency         string
	Notes            string
	Terms            string
	UserOwner        string
	Items            []ShippingOrderItem
}

// NewShippingOrder creates a new shipping order in PENDING status
func NewShippingOrder(orderNumber string, customerID uuid.UUID, userOwner string) (*ShippingOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if userOwner == "" {
		userOwner = "Undefined User"
	}

	return &ShippingOrder{
		BaseEntity:     shared.NewBaseEntity(),
		OrderNumber:    orderNumber,
		CustomerID:     customerID,
		Status:         OrderStatusPending,
		OrderDate:      time.Now(),
		Subtotal:       decimal.Zero,
		TaxTotal:       decimal.Zero,
		InsuranceValue: decimal.Zero,
		Currency:       "USD",
		UserOwner:      userOwner,
		Items:          make([]ShippingOrderItem, 0),
	}, nil
}

// SetSourceOrder links the shipping order to the order it was converted from
func (o *ShippingOrder) SetSourceOrder(orderID uuid.UUID) {
	o.SourceOrderID = &orderID
	o.Touch()
}

// SetStatus transitions the order to the given status
func (o *ShippingOrder) SetStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown shipping order status %q", status))
	}
	o.Status = status
	o.Touch()
	return nil
}

// SetTotals sets the monetary totals on the order header
func (o *ShippingOrder) SetTotals(subtotal, taxTotal, insuranceValue decimal.Decimal) error {
	if subtotal.IsNegative() || taxTotal.IsNegative() || insuranceValue.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Order totals cannot be negative")
	}
	o.Subtotal = subtotal
	o.TaxTotal = taxTotal
	o.InsuranceValue = insuranceValue
	o.Touch()
	return nil
}

// RecalculateTotals recomputes subtotal and tax from the line items
func (o *ShippingOrder) RecalculateTotals(taxRate decimal.Decimal) {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Amount())
	}
	o.Subtotal = subtotal
	o.TaxTotal = subtotal.Mul(taxRate).Round(2)
	o.Touch()
}

// Total returns subtotal + tax
func (o *ShippingOrder) Total() decimal.Decimal {
	return o.Subtotal.Add(o.TaxTotal)
}

// ItemCount returns the number of line items
func (o *ShippingOrder) ItemCount() int {
	return len(o.Items)
}

// GetItem returns a line item by ID, or nil
func (o *ShippingOrder) GetItem(itemID uuid.UUID) *ShippingOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}
