package shipping

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/garmentcrm/backend/internal/domain/partner"
	"github.com/garmentcrm/backend/internal/domain/shipping"
)

type pipelineMocks struct {
	orders    *MockShippingOrderRepository
	packages  *MockPackageSpecRepository
	customers *MockCustomerRepository
	carrier   *MockCarrierService
	images    *MockImageStore
	audit     *MockAuditSink
	cache     *MockMetricsCache
}

func newTestPipeline() (*Pipeline, *pipelineMocks) {
	m := &pipelineMocks{
		orders:    new(MockShippingOrderRepository),
		packages:  new(MockPackageSpecRepository),
		customers: new(MockCustomerRepository),
		carrier:   new(MockCarrierService),
		images:    new(MockImageStore),
		audit:     new(MockAuditSink),
		cache:     new(MockMetricsCache),
	}
	logger := zap.NewNop()
	labels := NewLabelService(m.carrier, logger)
	uploader := NewImageUploader(m.images, m.audit, DefaultMaxRetries, logger)
	p := NewPipeline(m.orders, m.packages, m.customers, labels, uploader, m.audit, m.cache, logger)
	return p, m
}

func testCustomer() *partner.Customer {
	customer, _ := partner.NewCustomer("Acme Apparel", "alice")
	customer.Contacts = []partner.Contact{{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		Name:        "Jo Buyer",
		PhoneNumber: "212-555-0100",
		Primary:     true,
	}}
	return customer
}

func createInput(customerID uuid.UUID) *CreateOrderInput {
	pkg := quotedPackage("p1", "Box A", "shp_1", "rate_1")
	item := assignedItem("Hoodie", "p1")
	item.Quantity = 5
	item.UnitPrice = decimal.RequireFromString("24.50")
	item.PackageQuantities = map[string]int{"p1": 5}

	return &CreateOrderInput{
		CustomerID: customerID,
		TaxRate:    decimal.RequireFromString("0.08"),
		UserOwner:  "alice",
		Items:      []*shipping.WorkingItem{item},
		Packages:   []*shipping.WorkingPackage{pkg},
	}
}

func TestPipelineCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path commits order, items, packages and assignments", func(t *testing.T) {
		p, m := newTestPipeline()
		customer := testCustomer()
		input := createInput(customer.ID)

		m.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		m.orders.On("NextOrderNumber", mock.Anything).Return("SO-1001", nil)
		m.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
		m.orders.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
		m.carrier.On("BuyLabel", mock.Anything, "shp_1", "rate_1").
			Return(&LabelData{TrackingCode: "9400TRACK", LabelURL: "https://labels/1.png", ShipmentStatus: "purchased"}, nil)

		var createdSpec *shipping.PackageSpecification
		m.packages.On("Create", mock.Anything, mock.Anything).Return(nil).
			Run(func(args mock.Arguments) {
				createdSpec = args.Get(1).(*shipping.PackageSpecification)
			})
		var createdAssignment *shipping.PackageItemAssignment
		m.packages.On("CreateAssignment", mock.Anything, mock.Anything).Return(nil).
			Run(func(args mock.Arguments) {
				createdAssignment = args.Get(1).(*shipping.PackageItemAssignment)
			})
		m.audit.On("Record", mock.Anything, customer.ID, "PENDING", mock.Anything,
			"CREATE", mock.Anything, "SHIPPING", "alice").Return(nil)
		m.cache.On("Invalidate", mock.Anything).Return(nil)

		result, err := p.CreateOrder(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, StateCommitted, result.State)
		assert.Empty(t, result.Warnings)
		assert.Equal(t, "SO-1001", result.Order.OrderNumber)
		assert.True(t, decimal.RequireFromString("122.50").Equal(result.Order.Subtotal))
		assert.True(t, decimal.RequireFromString("9.80").Equal(result.Order.TaxTotal))

		assert.NotNil(t, createdSpec)
		assert.Equal(t, "9400TRACK", createdSpec.TrackingCode)
		assert.Equal(t, result.Order.ID, createdSpec.OrderID)
		assert.NotNil(t, createdAssignment)
		assert.Equal(t, createdSpec.ID, createdAssignment.PackageID)
		assert.Equal(t, 5, createdAssignment.Quantity)

		m.orders.AssertNumberOfCalls(t, "CreateItem", 1)
		m.audit.AssertExpectations(t)
		m.cache.AssertExpectations(t)
	})

	t.Run("label failure commits with a warning instead of aborting", func(t *testing.T) {
		p, m := newTestPipeline()
		customer := testCustomer()
		input := createInput(customer.ID)

		m.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		m.orders.On("NextOrderNumber", mock.Anything).Return("SO-1002", nil)
		m.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
		m.orders.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
		m.carrier.On("BuyLabel", mock.Anything, "shp_1", "rate_1").
			Return(nil, errors.New("carrier unavailable"))
		m.packages.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.packages.On("CreateAssignment", mock.Anything, mock.Anything).Return(nil)
		m.audit.On("Record", mock.Anything, customer.ID, "PENDING", mock.Anything,
			"CREATE", mock.Anything, "SHIPPING", "alice").Return(nil)
		m.cache.On("Invalidate", mock.Anything).Return(nil)

		result, err := p.CreateOrder(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, StateCommitted, result.State)
		assert.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "Box A")
		m.orders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("package persistence failure rolls back items and order", func(t *testing.T) {
		p, m := newTestPipeline()
		customer := testCustomer()
		input := createInput(customer.ID)

		m.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		m.orders.On("NextOrderNumber", mock.Anything).Return("SO-1003", nil)
		m.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
		m.orders.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
		m.carrier.On("BuyLabel", mock.Anything, "shp_1", "rate_1").
			Return(&LabelData{TrackingCode: "9400TRACK", ShipmentStatus: "purchased"}, nil)
		m.packages.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
		m.orders.On("DeleteItem", mock.Anything, mock.Anything).Return(nil)
		m.orders.On("Delete", mock.Anything, mock.Anything).Return(nil)

		result, err := p.CreateOrder(ctx, input)

		assert.Error(t, err)
		assert.Nil(t, result)
		var persistErr *PersistenceError
		assert.ErrorAs(t, err, &persistErr)
		m.orders.AssertNumberOfCalls(t, "DeleteItem", 1)
		m.orders.AssertNumberOfCalls(t, "Delete", 1)
		m.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation failure persists nothing", func(t *testing.T) {
		p, m := newTestPipeline()
		customer := testCustomer()
		input := createInput(customer.ID)
		input.Items[0].PackageQuantities = nil // Box A left empty

		m.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)

		result, err := p.CreateOrder(ctx, input)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "Box A")
		m.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		m.packages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing customer fails before any persistence", func(t *testing.T) {
		p, m := newTestPipeline()
		customerID := uuid.New()
		input := createInput(customerID)

		m.customers.On("FindByID", mock.Anything, customerID).Return(nil, assert.AnError)

		_, err := p.CreateOrder(ctx, input)
		assert.Error(t, err)
		m.orders.AssertNotCalled(t, "NextOrderNumber", mock.Anything)
	})

	t.Run("conversion from a source order writes a second activity record", func(t *testing.T) {
		p, m := newTestPipeline()
		customer := testCustomer()
		input := createInput(customer.ID)
		sourceID := uuid.New()
		input.SourceOrderID = &sourceID
		input.SourceOrderNumber = "ORD-77"

		m.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		m.orders.On("NextOrderNumber", mock.Anything).Return("SO-1004", nil)
		m.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
		m.orders.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
		m.carrier.On("BuyLabel", mock.Anything, "shp_1", "rate_1").
			Return(&LabelData{TrackingCode: "9400TRACK", ShipmentStatus: "purchased"}, nil)
		m.packages.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.packages.On("CreateAssignment", mock.Anything, mock.Anything).Return(nil)
		m.audit.On("Record", mock.Anything, customer.ID, "PENDING", mock.Anything,
			"CREATE", mock.Anything, "SHIPPING", "alice").Return(nil)
		m.audit.On("Record", mock.Anything, customer.ID, "PENDING",
			"Converted Order #ORD-77 to Shipping Order #SO-1004",
			"CONVERT", sourceID, "ORDERS", "alice").Return(nil)
		m.cache.On("Invalidate", mock.Anything).Return(nil)

		result, err := p.CreateOrder(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, &sourceID, result.Order.SourceOrderID)
		m.audit.AssertNumberOfCalls(t, "Record", 2)
	})

	t.Run("activity failure never fails a committed order", func(t *testing.T) {
		p, m := newTestPipeline()
		customer := testCustomer()
		input := createInput(customer.ID)

		m.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		m.orders.On("NextOrderNumber", mock.Anything).Return("SO-1005", nil)
		m.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
		m.orders.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
		m.carrier.On("BuyLabel", mock.Anything, "shp_1", "rate_1").
			Return(&LabelData{TrackingCode: "9400TRACK", ShipmentStatus: "purchased"}, nil)
		m.packages.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.packages.On("CreateAssignment", mock.Anything, mock.Anything).Return(nil)
		m.audit.On("Record", mock.Anything, customer.ID, "PENDING", mock.Anything,
			"CREATE", mock.Anything, "SHIPPING", "alice").Return(errors.New("history table locked"))
		m.cache.On("Invalidate", mock.Anything).Return(nil)

		result, err := p.CreateOrder(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, StateCommitted, result.State)
	})
}

func persistedOrder(t *testing.T, customerID uuid.UUID) *shipping.ShippingOrder {
	t.Helper()
	order, err := shipping.NewShippingOrder("SO-2001", customerID, "alice")
	assert.NoError(t, err)
	item, err := shipping.NewShippingOrderItem(order.ID, "SO-ITEM-1", "Hoodie", 5,
		decimal.RequireFromString("24.50"), decimal.RequireFromString("0.08"))
	assert.NoError(t, err)
	order.Items = []shipping.ShippingOrderItem{*item}
	return order
}

func TestPipelineUpdateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("diffs items and packages against the working set", func(t *testing.T) {
		p, m := newTestPipeline()
		customer := testCustomer()
		order := persistedOrder(t, customer.ID)
		existingItem := order.Items[0]

		persistedPkg, err := shipping.NewPackageSpecification(order.ID, "Box A")
		assert.NoError(t, err)
		removedPkg, err := shipping.NewPackageSpecification(order.ID, "Box Old")
		assert.NoError(t, err)

		keptPkg := &shipping.WorkingPackage{
			Ref:         persistedPkg.ID.String(),
			Kind:        shipping.PackageExisting,
			ID:          persistedPkg.ID,
			Name:        "Box A",
			PhoneNumber: "212-555-0100",
			Carrier:     "USPS",
			Service:     "Priority",
		}
		newPkg := workingPackage("new-1", "Box B")

		updatedItem := &shipping.WorkingItem{
			Action:            shipping.ItemActionUpdate,
			ID:                existingItem.ID,
			ItemName:          "Hoodie XL",
			Quantity:          6,
			UnitPrice:         decimal.RequireFromString("26.00"),
			PackageQuantities: map[string]int{keptPkg.Ref: 6},
		}
		addedItem := assignedItem("Beanie", "new-1")

		input := &UpdateOrderInput{
			OrderID:   order.ID,
			Status:    shipping.OrderStatusProcessing,
			TaxRate:   decimal.RequireFromString("0.08"),
			UserOwner: "alice",
			Items:     []*shipping.WorkingItem{updatedItem, addedItem},
			Packages:  []*shipping.WorkingPackage{keptPkg, newPkg},
		}

		m.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		m.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		m.orders.On("UpdateItem", mock.Anything, mock.Anything).Return(nil)
		m.orders.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
		m.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
		m.packages.On("FindByOrder", mock.Anything, order.ID).
			Return([]shipping.PackageSpecification{*persistedPkg, *removedPkg}, nil)
		m.packages.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.packages.On("Update", mock.Anything, mock.Anything).Return(nil)
		m.packages.On("Delete", mock.Anything, removedPkg.ID).Return(nil)
		m.packages.On("DeleteAssignmentsForPackage", mock.Anything, persistedPkg.ID).Return(nil)
		m.packages.On("CreateAssignment", mock.Anything, mock.Anything).Return(nil)
		m.audit.On("Record", mock.Anything, customer.ID, "PROCESSING",
			"Updated Shipping Order #SO-2001", "UPDATE", order.ID, "SHIPPING", "alice").Return(nil)
		m.cache.On("Invalidate", mock.Anything).Return(nil)

		result, err := p.UpdateOrder(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, StateCommitted, result.State)
		assert.Equal(t, shipping.OrderStatusProcessing, result.Order.Status)
		// 6*26.00 + 1*0 = 156.00 for the updated item plus the zero-priced beanie
		assert.True(t, decimal.RequireFromString("156.00").Equal(result.Order.Subtotal))

		m.orders.AssertNumberOfCalls(t, "UpdateItem", 1)
		m.orders.AssertNumberOfCalls(t, "CreateItem", 1)
		m.packages.AssertNumberOfCalls(t, "Create", 1)
		m.packages.AssertNumberOfCalls(t, "Update", 1)
		m.packages.AssertNumberOfCalls(t, "Delete", 1)
		m.packages.AssertNumberOfCalls(t, "CreateAssignment", 2)
	})

	t.Run("deleted items lose their assignments first", func(t *testing.T) {
		p, m := newTestPipeline()
		customer := testCustomer()
		order := persistedOrder(t, customer.ID)
		doomed := order.Items[0]

		keeper := assignedItem("Beanie")
		removal := &shipping.WorkingItem{Action: shipping.ItemActionDelete, ID: doomed.ID}

		input := &UpdateOrderInput{
			OrderID:   order.ID,
			TaxRate:   decimal.Zero,
			UserOwner: "alice",
			Items:     []*shipping.WorkingItem{keeper, removal},
		}

		m.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		m.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		m.packages.On("DeleteAssignmentsForItem", mock.Anything, doomed.ID).Return(nil)
		m.orders.On("DeleteItem", mock.Anything, doomed.ID).Return(nil)
		m.orders.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
		m.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
		m.packages.On("FindByOrder", mock.Anything, order.ID).
			Return([]shipping.PackageSpecification{}, nil)
		m.audit.On("Record", mock.Anything, customer.ID, "PENDING",
			"Updated Shipping Order #SO-2001", "UPDATE", order.ID, "SHIPPING", "alice").Return(nil)
		m.cache.On("Invalidate", mock.Anything).Return(nil)

		_, err := p.UpdateOrder(ctx, input)

		assert.NoError(t, err)
		m.packages.AssertCalled(t, "DeleteAssignmentsForItem", mock.Anything, doomed.ID)
		m.orders.AssertCalled(t, "DeleteItem", mock.Anything, doomed.ID)
	})

	t.Run("an echoed package keeps its purchased label", func(t *testing.T) {
		p, m := newTestPipeline()
		customer := testCustomer()
		order := persistedOrder(t, customer.ID)
		existingItem := order.Items[0]

		persistedPkg, err := shipping.NewPackageSpecification(order.ID, "Box A")
		assert.NoError(t, err)
		persistedPkg.ShipmentRef = "shp_1"
		persistedPkg.RateRef = "rate_1"
		persistedPkg.TrackingCode = "9400EXISTING"
		persistedPkg.LabelURL = "https://labels/existing.png"
		persistedPkg.ShipmentStatus = "purchased"

		// the client echoes the package with its refs but without the
		// tracking code it never saw
		echoed := &shipping.WorkingPackage{
			Ref:         persistedPkg.ID.String(),
			Kind:        shipping.PackageExisting,
			ID:          persistedPkg.ID,
			Name:        "Box A",
			PhoneNumber: "212-555-0100",
			Carrier:     "USPS",
			Service:     "Priority",
			ShipmentRef: "shp_1",
			RateRef:     "rate_1",
		}
		kept := &shipping.WorkingItem{
			Action:            shipping.ItemActionUpdate,
			ID:                existingItem.ID,
			ItemName:          "Hoodie",
			Quantity:          5,
			UnitPrice:         decimal.RequireFromString("24.50"),
			PackageQuantities: map[string]int{echoed.Ref: 5},
		}

		input := &UpdateOrderInput{
			OrderID:   order.ID,
			TaxRate:   decimal.RequireFromString("0.08"),
			UserOwner: "alice",
			Items:     []*shipping.WorkingItem{kept},
			Packages:  []*shipping.WorkingPackage{echoed},
		}

		m.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		m.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		m.orders.On("UpdateItem", mock.Anything, mock.Anything).Return(nil)
		m.orders.On("Save", mock.Anything, mock.Anything).Return(nil)
		m.packages.On("FindByOrder", mock.Anything, order.ID).
			Return([]shipping.PackageSpecification{*persistedPkg}, nil)
		var updatedSpec *shipping.PackageSpecification
		m.packages.On("Update", mock.Anything, mock.Anything).Return(nil).
			Run(func(args mock.Arguments) {
				updatedSpec = args.Get(1).(*shipping.PackageSpecification)
			})
		m.packages.On("DeleteAssignmentsForPackage", mock.Anything, persistedPkg.ID).Return(nil)
		m.packages.On("CreateAssignment", mock.Anything, mock.Anything).Return(nil)
		m.audit.On("Record", mock.Anything, customer.ID, "PENDING",
			"Updated Shipping Order #SO-2001", "UPDATE", order.ID, "SHIPPING", "alice").Return(nil)
		m.cache.On("Invalidate", mock.Anything).Return(nil)

		result, err := p.UpdateOrder(ctx, input)

		assert.NoError(t, err)
		assert.Empty(t, result.Warnings)
		m.carrier.AssertNotCalled(t, "BuyLabel", mock.Anything, mock.Anything, mock.Anything)
		assert.NotNil(t, updatedSpec)
		assert.Equal(t, "9400EXISTING", updatedSpec.TrackingCode)
		assert.Equal(t, "https://labels/existing.png", updatedSpec.LabelURL)
	})

	t.Run("a re-quoted package goes back through label acquisition", func(t *testing.T) {
		persistedPkg, err := shipping.NewPackageSpecification(uuid.New(), "Box A")
		assert.NoError(t, err)
		persistedPkg.ShipmentRef = "shp_1"
		persistedPkg.RateRef = "rate_1"
		persistedPkg.TrackingCode = "9400EXISTING"

		requoted := &shipping.WorkingPackage{
			Ref:         persistedPkg.ID.String(),
			Kind:        shipping.PackageExisting,
			ID:          persistedPkg.ID,
			Name:        "Box A",
			ShipmentRef: "shp_2",
			RateRef:     "rate_9",
		}

		mergePersistedLabels([]*shipping.WorkingPackage{requoted},
			[]shipping.PackageSpecification{*persistedPkg})

		assert.Empty(t, requoted.TrackingCode)
		assert.True(t, requoted.NeedsLabel())
	})

	t.Run("negative insurance fails before any item mutation", func(t *testing.T) {
		p, m := newTestPipeline()
		customer := testCustomer()
		order := persistedOrder(t, customer.ID)

		input := &UpdateOrderInput{
			OrderID:        order.ID,
			TaxRate:        decimal.Zero,
			InsuranceValue: decimal.RequireFromString("-10"),
			UserOwner:      "alice",
			Items:          []*shipping.WorkingItem{assignedItem("Beanie")},
		}

		m.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		result, err := p.UpdateOrder(ctx, input)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, IsValidationError(err))
		m.orders.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)
		m.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown order fails validation", func(t *testing.T) {
		p, m := newTestPipeline()
		orderID := uuid.New()
		m.orders.On("FindByID", mock.Anything, orderID).Return(nil, assert.AnError)

		_, err := p.UpdateOrder(ctx, &UpdateOrderInput{OrderID: orderID})
		assert.Error(t, err)
		m.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("item create failure rolls back only what this run created", func(t *testing.T) {
		p, m := newTestPipeline()
		customer := testCustomer()
		order := persistedOrder(t, customer.ID)

		added := assignedItem("Beanie")
		input := &UpdateOrderInput{
			OrderID:   order.ID,
			TaxRate:   decimal.Zero,
			UserOwner: "alice",
			Items:     []*shipping.WorkingItem{added},
		}

		m.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		m.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		m.orders.On("CreateItem", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		result, err := p.UpdateOrder(ctx, input)

		assert.Error(t, err)
		assert.Nil(t, result)
		m.orders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		m.orders.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything)
	})
}
