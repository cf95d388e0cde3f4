package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	activityapp "github.com/garmentcrm/backend/internal/application/activity"
	appshipping "github.com/garmentcrm/backend/internal/application/shipping"
	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/garmentcrm/backend/internal/domain/shipping"
	"github.com/garmentcrm/backend/internal/interfaces/http/dto"
)

// ShippingOrderHandler handles shipping order API endpoints
type ShippingOrderHandler struct {
	BaseHandler
	pipeline   *appshipping.Pipeline
	orders     *appshipping.ShippingOrderService
	activities *activityapp.ActivityService
}

// NewShippingOrderHandler creates a new ShippingOrderHandler
func NewShippingOrderHandler(pipeline *appshipping.Pipeline, orders *appshipping.ShippingOrderService, activities *activityapp.ActivityService) *ShippingOrderHandler {
	return &ShippingOrderHandler{
		pipeline:   pipeline,
		orders:     orders,
		activities: activities,
	}
}

// Create runs the full creation pipeline: order, items, packages,
// labels, images and history in one request
func (h *ShippingOrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	items, err := toWorkingItems(req.Items)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	status := shipping.OrderStatusPending
	if req.Status != "" {
		status = shipping.OrderStatus(req.Status)
	}
	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	input := &appshipping.CreateOrderInput{
		CustomerID:        req.CustomerID,
		Status:            status,
		SourceOrderID:     req.SourceOrderID,
		SourceOrderNumber: req.SourceOrderNumber,
		OrderDate:         orderDate,
		ExpectedShipDate:  req.ExpectedShipDate,
		TaxRate:           req.TaxRate,
		InsuranceValue:    req.InsuranceValue,
		Currency:          req.Currency,
		Notes:             req.Notes,
		Terms:             req.Terms,
		UserOwner:         getUserOwner(c),
		Items:             items,
		Packages:          toWorkingPackages(req.Packages),
	}

	result, err := h.pipeline.CreateOrder(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, OrderSaveResponse{
		Order:    toOrderResponse(result.Order),
		Warnings: result.Warnings,
	})
}

// Update replaces an order's header and working set through the pipeline
func (h *ShippingOrderHandler) Update(c *gin.Context) {
	orderID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	input, err := toUpdateInput(orderID, &req, getUserOwner(c))
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.pipeline.UpdateOrder(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, OrderSaveResponse{
		Order:    toOrderResponse(result.Order),
		Warnings: result.Warnings,
	})
}

// Get returns one shipping order with its line items
func (h *ShippingOrderHandler) Get(c *gin.Context) {
	orderID, ok := h.bindID(c)
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(order))
}

// List returns a page of shipping orders. A search term matches order
// number, customer name and customer owner name.
func (h *ShippingOrderHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := buildFilter(req)
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	ctx := c.Request.Context()

	if req.Search != "" {
		orders, err := h.orders.Search(ctx, req.Search, filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, toOrderResponses(orders))
		return
	}

	page, err := h.orders.List(ctx, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toOrderResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// Delete removes a shipping order with its items, packages and assignments
func (h *ShippingOrderHandler) Delete(c *gin.Context) {
	orderID, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetPackages returns the package specifications of an order
func (h *ShippingOrderHandler) GetPackages(c *gin.Context) {
	orderID, ok := h.bindID(c)
	if !ok {
		return
	}

	specs, err := h.orders.GetPackages(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PackageResponse, len(specs))
	for i := range specs {
		responses[i] = toPackageResponse(&specs[i])
	}
	h.Success(c, responses)
}

// GetHistory returns the audit trail of an order, newest first
func (h *ShippingOrderHandler) GetHistory(c *gin.Context) {
	orderID, ok := h.bindID(c)
	if !ok {
		return
	}

	records, err := h.activities.HistoryForDocument(c.Request.Context(), orderID, "SHIPPING")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ActivityResponse, len(records))
	for i, record := range records {
		responses[i] = ActivityResponse{
			ID:           record.ID.String(),
			Status:       record.Status,
			Activity:     record.Activity,
			ActivityType: record.ActivityType,
			DocumentID:   record.DocumentID.String(),
			DocumentType: record.DocumentType,
			UserOwner:    record.UserOwner,
			CreatedAt:    record.CreatedAt,
		}
		if record.CustomerID != uuid.Nil {
			responses[i].CustomerID = record.CustomerID.String()
		}
	}
	h.Success(c, responses)
}

// Metrics returns the dashboard order aggregates
func (h *ShippingOrderHandler) Metrics(c *gin.Context) {
	metrics, err := h.orders.DashboardMetrics(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}

// Track resolves a carrier tracking code to its package
func (h *ShippingOrderHandler) Track(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "tracking code is required")
		return
	}

	spec, err := h.orders.TrackPackage(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPackageResponse(spec))
}

// bindID parses the :id path parameter
func (h *ShippingOrderHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, false
	}
	return id, true
}

func toOrderResponses(orders []shipping.ShippingOrder) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = toOrderResponse(&orders[i])
	}
	return responses
}

// buildFilter converts list query parameters into a repository filter
func buildFilter(req dto.ListRequest) shared.Filter {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter
}
