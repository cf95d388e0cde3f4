package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/garmentcrm/backend/internal/domain/partner"
	"github.com/garmentcrm/backend/internal/domain/shared"
)

// CustomerService serves customers and their contacts
type CustomerService struct {
	customers partner.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customers partner.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// Get returns one customer with contacts
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// List returns a page of customers
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[partner.Customer], error) {
	customers, err := s.customers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customers.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(customers, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a customer
func (s *CustomerService) Save(ctx context.Context, customer *partner.Customer) error {
	return s.customers.Save(ctx, customer)
}
