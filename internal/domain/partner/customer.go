package partner

import (
	"context"

	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Contact is a customer contact person
type Contact struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	Name        string
	Email       string
	PhoneNumber string
	Primary     bool
}

// Customer represents a garment customer account
type Customer struct {
	shared.BaseEntity
	Name      string
	OwnerName string
	Email     string
	Contacts  []Contact
}

// NewCustomer creates a new customer
func NewCustomer(name, ownerName string) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		OwnerName:  ownerName,
		Contacts:   make([]Contact, 0),
	}, nil
}

// PrimaryContact returns the primary contact, or nil if none is marked
func (c *Customer) PrimaryContact() *Contact {
	for idx := range c.Contacts {
		if c.Contacts[idx].Primary {
			return &c.Contacts[idx]
		}
	}
	return nil
}

// PrimaryPhone returns the primary contact's phone number, or ""
func (c *Customer) PrimaryPhone() string {
	if contact := c.PrimaryContact(); contact != nil {
		return contact.PhoneNumber
	}
	return ""
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer (with contacts) by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindAll finds customers with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
