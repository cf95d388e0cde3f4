package handler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appshipping "github.com/garmentcrm/backend/internal/application/shipping"
	"github.com/garmentcrm/backend/internal/domain/shipping"
)

// OrderImageRequest is one image attached to a line item: either a raw
// base64 payload or a reference to an already-hosted URL.
type OrderImageRequest struct {
	FileName    string `json:"file_name" binding:"max=255"`
	Data        []byte `json:"data"`
	ContentType string `json:"content_type" binding:"max=100"`
	HostedURL   string `json:"hosted_url" binding:"omitempty,url"`
	Description string `json:"description" binding:"max=500"`
	Class       string `json:"class" binding:"omitempty,oneof=LOGO ARTWORK OTHER"`
}

// OrderItemRequest is one line item in the working set sent by the client
type OrderItemRequest struct {
	Action          string          `json:"action" binding:"required,oneof=keep create update delete"`
	ID              *uuid.UUID      `json:"id"`
	ProductID       *uuid.UUID      `json:"product_id"`
	TrimID          *uuid.UUID      `json:"trim_id"`
	YarnID          *uuid.UUID      `json:"yarn_id"`
	PackagingID     *uuid.UUID      `json:"packaging_id"`
	ItemNumber      string          `json:"item_number" binding:"max=50"`
	ItemName        string          `json:"item_name" binding:"required,max=200"`
	ItemDescription string          `json:"item_description" binding:"max=2000"`
	Quantity        int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price"`

	Images            []OrderImageRequest `json:"images"`
	PackageQuantities map[string]int      `json:"package_quantities"`
}

// OrderPackageRequest is one package in the working set sent by the client.
// Ref is the client-local key items use in package_quantities; for already
// persisted packages id is set and ref repeats its string form.
type OrderPackageRequest struct {
	Ref  string     `json:"ref" binding:"required,max=100"`
	ID   *uuid.UUID `json:"id"`
	Name string     `json:"name" binding:"required,max=200"`

	CompanyName     string          `json:"company_name" binding:"max=200"`
	PhoneNumber     string          `json:"phone_number" binding:"max=50"`
	Length          decimal.Decimal `json:"length"`
	Width           decimal.Decimal `json:"width"`
	Height          decimal.Decimal `json:"height"`
	Weight          decimal.Decimal `json:"weight"`
	MeasurementUnit string          `json:"measurement_unit" binding:"max=20"`
	Address         string          `json:"address" binding:"max=500"`
	City            string          `json:"city" binding:"max=100"`
	State           string          `json:"state" binding:"max=100"`
	Zip             string          `json:"zip" binding:"max=20"`
	Country         string          `json:"country" binding:"max=100"`

	Carrier            string `json:"carrier" binding:"max=100"`
	Service            string `json:"service" binding:"max=100"`
	CarrierDescription string `json:"carrier_description" binding:"max=500"`
	ShippingRateID     string `json:"shipping_rate_id" binding:"max=100"`
	ShipmentRef        string `json:"shipment_ref" binding:"max=100"`
	RateRef            string `json:"rate_ref" binding:"max=100"`

	TrackingCode    string `json:"tracking_code" binding:"max=100"`
	LabelURL        string `json:"label_url" binding:"omitempty,url"`
	ShipmentStatus  string `json:"shipment_status" binding:"max=50"`
	EstDeliveryDays *int   `json:"est_delivery_days"`
}

// CreateOrderRequest creates a shipping order with its full working set
type CreateOrderRequest struct {
	CustomerID        uuid.UUID             `json:"customer_id" binding:"required"`
	Status            string                `json:"status" binding:"omitempty,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
	SourceOrderID     *uuid.UUID            `json:"source_order_id"`
	SourceOrderNumber string                `json:"source_order_number" binding:"max=50"`
	OrderDate         *time.Time            `json:"order_date"`
	ExpectedShipDate  *time.Time            `json:"expected_ship_date"`
	TaxRate           decimal.Decimal       `json:"tax_rate"`
	InsuranceValue    decimal.Decimal       `json:"insurance_value"`
	Currency          string                `json:"currency" binding:"omitempty,len=3"`
	Notes             string                `json:"notes" binding:"max=5000"`
	Terms             string                `json:"terms" binding:"max=5000"`
	Items             []OrderItemRequest    `json:"items" binding:"required,min=1,dive"`
	Packages          []OrderPackageRequest `json:"packages" binding:"dive"`
}

// UpdateOrderRequest replaces an order's header and working set
type UpdateOrderRequest struct {
	Status           string                `json:"status" binding:"omitempty,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
	ExpectedShipDate *time.Time            `json:"expected_ship_date"`
	TaxRate          decimal.Decimal       `json:"tax_rate"`
	InsuranceValue   decimal.Decimal       `json:"insurance_value"`
	Notes            string                `json:"notes" binding:"max=5000"`
	Terms            string                `json:"terms" binding:"max=5000"`
	Items            []OrderItemRequest    `json:"items" binding:"required,min=1,dive"`
	Packages         []OrderPackageRequest `json:"packages" binding:"dive"`
}

func parseItemAction(action string) (shipping.ItemAction, error) {
	switch action {
	case "keep":
		return shipping.ItemActionKeep, nil
	case "create":
		return shipping.ItemActionCreate, nil
	case "update":
		return shipping.ItemActionUpdate, nil
	case "delete":
		return shipping.ItemActionDelete, nil
	}
	return 0, fmt.Errorf("unknown item action %q", action)
}

func (r *OrderItemRequest) toWorkingItem() (*shipping.WorkingItem, error) {
	action, err := parseItemAction(r.Action)
	if err != nil {
		return nil, err
	}
	if action != shipping.ItemActionCreate && r.ID == nil {
		return nil, fmt.Errorf("item %q: id is required for action %q", r.ItemName, r.Action)
	}

	item := &shipping.WorkingItem{
		Action:            action,
		ProductID:         r.ProductID,
		TrimID:            r.TrimID,
		YarnID:            r.YarnID,
		PackagingID:       r.PackagingID,
		ItemNumber:        r.ItemNumber,
		ItemName:          r.ItemName,
		ItemDescription:   r.ItemDescription,
		Quantity:          r.Quantity,
		UnitPrice:         r.UnitPrice,
		PackageQuantities: r.PackageQuantities,
	}
	if r.ID != nil {
		item.ID = *r.ID
	}
	for _, img := range r.Images {
		class := shipping.ImageClass(img.Class)
		if class == "" {
			class = shipping.ImageClassOther
		}
		item.Images = append(item.Images, shipping.ImageInput{
			FileName:    img.FileName,
			Data:        img.Data,
			ContentType: img.ContentType,
			HostedURL:   img.HostedURL,
			Description: img.Description,
			Class:       class,
		})
	}
	return item, nil
}

func (r *OrderPackageRequest) toWorkingPackage() *shipping.WorkingPackage {
	pkg := &shipping.WorkingPackage{
		Ref:                r.Ref,
		Kind:               shipping.PackageNew,
		Name:               r.Name,
		CompanyName:        r.CompanyName,
		PhoneNumber:        r.PhoneNumber,
		Length:             r.Length,
		Width:              r.Width,
		Height:             r.Height,
		Weight:             r.Weight,
		MeasurementUnit:    r.MeasurementUnit,
		Address:            r.Address,
		City:               r.City,
		State:              r.State,
		Zip:                r.Zip,
		Country:            r.Country,
		Carrier:            r.Carrier,
		Service:            r.Service,
		CarrierDescription: r.CarrierDescription,
		ShippingRateID:     r.ShippingRateID,
		ShipmentRef:        r.ShipmentRef,
		RateRef:            r.RateRef,
		TrackingCode:       r.TrackingCode,
		LabelURL:           r.LabelURL,
		ShipmentStatus:     r.ShipmentStatus,
		EstDeliveryDays:    r.EstDeliveryDays,
	}
	if r.ID != nil {
		pkg.Kind = shipping.PackageExisting
		pkg.ID = *r.ID
	}
	return pkg
}

func toWorkingItems(reqs []OrderItemRequest) ([]*shipping.WorkingItem, error) {
	items := make([]*shipping.WorkingItem, len(reqs))
	for i := range reqs {
		item, err := reqs[i].toWorkingItem()
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func toWorkingPackages(reqs []OrderPackageRequest) []*shipping.WorkingPackage {
	packages := make([]*shipping.WorkingPackage, len(reqs))
	for i := range reqs {
		packages[i] = reqs[i].toWorkingPackage()
	}
	return packages
}

// toUpdateInput maps an update request onto the pipeline input. An
// omitted status stays empty so the pipeline leaves the order's status
// untouched instead of resetting it.
func toUpdateInput(orderID uuid.UUID, req *UpdateOrderRequest, userOwner string) (*appshipping.UpdateOrderInput, error) {
	items, err := toWorkingItems(req.Items)
	if err != nil {
		return nil, err
	}
	return &appshipping.UpdateOrderInput{
		OrderID:          orderID,
		Status:           shipping.OrderStatus(req.Status),
		ExpectedShipDate: req.ExpectedShipDate,
		TaxRate:          req.TaxRate,
		InsuranceValue:   req.InsuranceValue,
		Notes:            req.Notes,
		Terms:            req.Terms,
		UserOwner:        userOwner,
		Items:            items,
		Packages:         toWorkingPackages(req.Packages),
	}, nil
}

// OrderItemResponse represents a line item in API responses
type OrderItemResponse struct {
	ID              string  `json:"id"`
	ProductID       *string `json:"product_id,omitempty"`
	TrimID          *string `json:"trim_id,omitempty"`
	YarnID          *string `json:"yarn_id,omitempty"`
	PackagingID     *string `json:"packaging_id,omitempty"`
	ItemNumber      string  `json:"item_number"`
	ItemName        string  `json:"item_name"`
	ItemDescription string  `json:"item_description,omitempty"`
	Quantity        int     `json:"quantity"`
	UnitPrice       string  `json:"unit_price"`
	Amount          string  `json:"amount"`
}

// OrderResponse represents a shipping order in API responses
type OrderResponse struct {
	ID               string              `json:"id"`
	OrderNumber      string              `json:"order_number"`
	CustomerID       string              `json:"customer_id"`
	SourceOrderID    *string             `json:"source_order_id,omitempty"`
	Status           string              `json:"status"`
	OrderDate        time.Time           `json:"order_date"`
	ExpectedShipDate *time.Time          `json:"expected_ship_date,omitempty"`
	Subtotal         string              `json:"subtotal"`
	TaxTotal         string              `json:"tax_total"`
	Total            string              `json:"total"`
	InsuranceValue   string              `json:"insurance_value"`
	Currency         string              `json:"currency"`
	Notes            string              `json:"notes,omitempty"`
	Terms            string              `json:"terms,omitempty"`
	UserOwner        string              `json:"user_owner"`
	Items            []OrderItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// OrderSaveResponse is the envelope for pipeline saves: the committed
// order plus any non-fatal warnings collected on the way
type OrderSaveResponse struct {
	Order    OrderResponse `json:"order"`
	Warnings []string      `json:"warnings,omitempty"`
}

// PackageResponse represents a package specification in API responses
type PackageResponse struct {
	ID                 string `json:"id"`
	OrderID            string `json:"order_id"`
	Name               string `json:"name"`
	CompanyName        string `json:"company_name,omitempty"`
	PhoneNumber        string `json:"phone_number,omitempty"`
	Length             string `json:"length"`
	Width              string `json:"width"`
	Height             string `json:"height"`
	Weight             string `json:"weight"`
	MeasurementUnit    string `json:"measurement_unit,omitempty"`
	Address            string `json:"address,omitempty"`
	City               string `json:"city,omitempty"`
	State              string `json:"state,omitempty"`
	Zip                string `json:"zip,omitempty"`
	Country            string `json:"country,omitempty"`
	Carrier            string `json:"carrier,omitempty"`
	Service            string `json:"service,omitempty"`
	CarrierDescription string `json:"carrier_description,omitempty"`
	ShipmentRef        string `json:"shipment_ref,omitempty"`
	RateRef            string `json:"rate_ref,omitempty"`
	TrackingCode       string `json:"tracking_code,omitempty"`
	LabelURL           string `json:"label_url,omitempty"`
	ShipmentStatus     string `json:"shipment_status,omitempty"`
	EstDeliveryDays    *int   `json:"est_delivery_days,omitempty"`
}

// ActivityResponse represents an audit record in API responses
type ActivityResponse struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id,omitempty"`
	Status       string    `json:"status,omitempty"`
	Activity     string    `json:"activity"`
	ActivityType string    `json:"activity_type"`
	DocumentID   string    `json:"document_id"`
	DocumentType string    `json:"document_type"`
	UserOwner    string    `json:"user_owner"`
	CreatedAt    time.Time `json:"created_at"`
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toOrderItemResponse(item *shipping.ShippingOrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:              item.ID.String(),
		ProductID:       uuidPtrString(item.ProductID),
		TrimID:          uuidPtrString(item.TrimID),
		YarnID:          uuidPtrString(item.YarnID),
		PackagingID:     uuidPtrString(item.PackagingID),
		ItemNumber:      item.ItemNumber,
		ItemName:        item.ItemName,
		ItemDescription: item.ItemDescription,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice.StringFixed(2),
		Amount:          item.Amount().StringFixed(2),
	}
}

func toOrderResponse(order *shipping.ShippingOrder) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = toOrderItemResponse(&order.Items[i])
	}
	return OrderResponse{
		ID:               order.ID.String(),
		OrderNumber:      order.OrderNumber,
		CustomerID:       order.CustomerID.String(),
		SourceOrderID:    uuidPtrString(order.SourceOrderID),
		Status:           order.Status.String(),
		OrderDate:        order.OrderDate,
		ExpectedShipDate: order.ExpectedShipDate,
		Subtotal:         order.Subtotal.StringFixed(2),
		TaxTotal:         order.TaxTotal.StringFixed(2),
		Total:            order.Total().StringFixed(2),
		InsuranceValue:   order.InsuranceValue.StringFixed(2),
		Currency:         order.Currency,
		Notes:            order.Notes,
		Terms:            order.Terms,
		UserOwner:        order.UserOwner,
		Items:            items,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}

func toPackageResponse(spec *shipping.PackageSpecification) PackageResponse {
	return PackageResponse{
		ID:                 spec.ID.String(),
		OrderID:            spec.OrderID.String(),
		Name:               spec.Name,
		CompanyName:        spec.CompanyName,
		PhoneNumber:        spec.PhoneNumber,
		Length:             spec.Length.String(),
		Width:              spec.Width.String(),
		Height:             spec.Height.String(),
		Weight:             spec.Weight.String(),
		MeasurementUnit:    spec.MeasurementUnit,
		Address:            spec.Address,
		City:               spec.City,
		State:              spec.State,
		Zip:                spec.Zip,
		Country:            spec.Country,
		Carrier:            spec.Carrier,
		Service:            spec.Service,
		CarrierDescription: spec.CarrierDescription,
		ShipmentRef:        spec.ShipmentRef,
		RateRef:            spec.RateRef,
		TrackingCode:       spec.TrackingCode,
		LabelURL:           spec.LabelURL,
		ShipmentStatus:     spec.ShipmentStatus,
		EstDeliveryDays:    spec.EstDeliveryDays,
	}
}
