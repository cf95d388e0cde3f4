package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/garmentcrm/backend/internal/application/partner"
	appshipping "github.com/garmentcrm/backend/internal/application/shipping"
	"github.com/garmentcrm/backend/internal/domain/partner"
	"github.com/garmentcrm/backend/internal/interfaces/http/dto"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customers *partnerapp.CustomerService
	orders    *appshipping.ShippingOrderService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *partnerapp.CustomerService, orders *appshipping.ShippingOrderService) *CustomerHandler {
	return &CustomerHandler{customers: customers, orders: orders}
}

// ContactRequest is one contact person on a customer
type ContactRequest struct {
	ID          *uuid.UUID `json:"id"`
	Name        string     `json:"name" binding:"max=200"`
	Email       string     `json:"email" binding:"omitempty,email,max=200"`
	PhoneNumber string     `json:"phone_number" binding:"max=50"`
	Primary     bool       `json:"primary"`
}

// SaveCustomerRequest creates or replaces a customer with its contacts
type SaveCustomerRequest struct {
	Name      string           `json:"name" binding:"required,min=1,max=200"`
	OwnerName string           `json:"owner_name" binding:"max=100"`
	Email     string           `json:"email" binding:"omitempty,email,max=200"`
	Contacts  []ContactRequest `json:"contacts" binding:"dive"`
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Primary     bool   `json:"primary"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	OwnerName string            `json:"owner_name,omitempty"`
	Email     string            `json:"email,omitempty"`
	Contacts  []ContactResponse `json:"contacts"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func toCustomerResponse(customer *partner.Customer) CustomerResponse {
	contacts := make([]ContactResponse, len(customer.Contacts))
	for i, contact := range customer.Contacts {
		contacts[i] = ContactResponse{
			ID:          contact.ID.String(),
			Name:        contact.Name,
			Email:       contact.Email,
			PhoneNumber: contact.PhoneNumber,
			Primary:     contact.Primary,
		}
	}
	return CustomerResponse{
		ID:        customer.ID.String(),
		Name:      customer.Name,
		OwnerName: customer.OwnerName,
		Email:     customer.Email,
		Contacts:  contacts,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

// Create creates a customer with its contacts
func (h *CustomerHandler) Create(c *gin.Context) {
	var req SaveCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	customer, err := partner.NewCustomer(req.Name, req.OwnerName)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	customer.Email = req.Email
	applyContacts(customer, req.Contacts)

	if err := h.customers.Save(c.Request.Context(), customer); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toCustomerResponse(customer))
}

// Update replaces a customer's fields and contacts
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req SaveCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	ctx := c.Request.Context()
	customer, err := h.customers.Get(ctx, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	customer.Name = req.Name
	customer.OwnerName = req.OwnerName
	customer.Email = req.Email
	customer.Touch()
	customer.Contacts = customer.Contacts[:0]
	applyContacts(customer, req.Contacts)

	if err := h.customers.Save(ctx, customer); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCustomerResponse(customer))
}

// Get returns one customer with its contacts
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, ok := h.bindID(c)
	if !ok {
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCustomerResponse(customer))
}

// List returns a page of customers
func (h *CustomerHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.customers.List(c.Request.Context(), buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]CustomerResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = toCustomerResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, responses, page.Total, page.Page, page.PageSize)
}

// ListOrders returns a customer's shipping orders
func (h *CustomerHandler) ListOrders(c *gin.Context) {
	customerID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orders, err := h.orders.ListByCustomer(c.Request.Context(), customerID, buildFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponses(orders))
}

func (h *CustomerHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return uuid.Nil, false
	}
	return id, true
}

func applyContacts(customer *partner.Customer, reqs []ContactRequest) {
	for _, req := range reqs {
		contact := partner.Contact{
			CustomerID:  customer.ID,
			Name:        req.Name,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Primary:     req.Primary,
		}
		if req.ID != nil {
			contact.ID = *req.ID
		} else {
			contact.ID = uuid.New()
		}
		customer.Contacts = append(customer.Contacts, contact)
	}
}
