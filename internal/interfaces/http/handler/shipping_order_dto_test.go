package handler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garmentcrm/backend/internal/domain/shipping"
)

func TestToWorkingItem(t *testing.T) {
	t.Run("create does not require an id", func(t *testing.T) {
		req := OrderItemRequest{Action: "create", ItemName: "Hoodie", Quantity: 5}

		item, err := req.toWorkingItem()

		require.NoError(t, err)
		assert.Equal(t, shipping.ItemActionCreate, item.Action)
		assert.Equal(t, uuid.Nil, item.ID)
	})

	t.Run("update without an id is rejected", func(t *testing.T) {
		req := OrderItemRequest{Action: "update", ItemName: "Hoodie", Quantity: 5}

		_, err := req.toWorkingItem()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "id is required")
		assert.Contains(t, err.Error(), "Hoodie")
	})

	t.Run("unknown action is rejected", func(t *testing.T) {
		req := OrderItemRequest{Action: "upsert", ItemName: "Hoodie", Quantity: 5}

		_, err := req.toWorkingItem()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown item action")
	})

	t.Run("empty image class defaults to OTHER", func(t *testing.T) {
		req := OrderItemRequest{
			Action:   "create",
			ItemName: "Hoodie",
			Quantity: 5,
			Images:   []OrderImageRequest{{HostedURL: "https://cdn.example.com/a.png"}},
		}

		item, err := req.toWorkingItem()

		require.NoError(t, err)
		require.Len(t, item.Images, 1)
		assert.Equal(t, shipping.ImageClassOther, item.Images[0].Class)
	})
}

func TestToUpdateInput(t *testing.T) {
	items := []OrderItemRequest{{Action: "create", ItemName: "Hoodie", Quantity: 5}}

	t.Run("omitted status stays empty so the order keeps its status", func(t *testing.T) {
		orderID := uuid.New()
		req := &UpdateOrderRequest{Items: items}

		input, err := toUpdateInput(orderID, req, "alice")

		require.NoError(t, err)
		assert.Equal(t, orderID, input.OrderID)
		assert.Empty(t, input.Status)
		assert.Equal(t, "alice", input.UserOwner)
	})

	t.Run("an explicit status passes through", func(t *testing.T) {
		req := &UpdateOrderRequest{Status: "SHIPPED", Items: items}

		input, err := toUpdateInput(uuid.New(), req, "alice")

		require.NoError(t, err)
		assert.Equal(t, shipping.OrderStatusShipped, input.Status)
	})

	t.Run("a bad item action surfaces as an error", func(t *testing.T) {
		req := &UpdateOrderRequest{
			Items: []OrderItemRequest{{Action: "upsert", ItemName: "Hoodie", Quantity: 5}},
		}

		_, err := toUpdateInput(uuid.New(), req, "alice")

		require.Error(t, err)
	})
}

func TestToWorkingPackage(t *testing.T) {
	t.Run("without id becomes a new package", func(t *testing.T) {
		req := OrderPackageRequest{Ref: "pkg-1", Name: "Box A"}

		pkg := req.toWorkingPackage()

		assert.Equal(t, shipping.PackageNew, pkg.Kind)
		assert.Equal(t, "pkg-1", pkg.Ref)
		assert.Equal(t, uuid.Nil, pkg.ID)
	})

	t.Run("with id becomes an existing package", func(t *testing.T) {
		id := uuid.New()
		req := OrderPackageRequest{Ref: "pkg-1", ID: &id, Name: "Box A"}

		pkg := req.toWorkingPackage()

		assert.Equal(t, shipping.PackageExisting, pkg.Kind)
		assert.Equal(t, id, pkg.ID)
	})
}
