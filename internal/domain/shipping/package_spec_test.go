package shipping

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPackageSpecification_NeedsLabel(t *testing.T) {
	spec, _ := NewPackageSpecification(uuid.New(), "Box 1")

	assert.False(t, spec.NeedsLabel(), "no shipment reference yet")

	spec.ShipmentRef = "shp_100"
	spec.RateRef = "rate_200"
	assert.True(t, spec.NeedsLabel())

	spec.TrackingCode = "TRK123"
	assert.False(t, spec.NeedsLabel(), "already labeled")
}

func TestPackageSpecification_ApplyLabel(t *testing.T) {
	t.Run("sets label fields once", func(t *testing.T) {
		spec, _ := NewPackageSpecification(uuid.New(), "Box 1")

		err := spec.ApplyLabel("TRK123", "https://labels.example/1.png", "purchased")
		assert.NoError(t, err)
		assert.Equal(t, "TRK123", spec.TrackingCode)
		assert.Equal(t, "https://labels.example/1.png", spec.LabelURL)
		assert.Equal(t, "purchased", spec.ShipmentStatus)
	})

	t.Run("refuses to overwrite an existing label", func(t *testing.T) {
		spec, _ := NewPackageSpecification(uuid.New(), "Box 1")
		assert.NoError(t, spec.ApplyLabel("TRK123", "", ""))

		err := spec.ApplyLabel("TRK999", "", "")
		assert.Error(t, err)
		assert.Equal(t, "TRK123", spec.TrackingCode)
	})

	t.Run("rejects empty tracking code", func(t *testing.T) {
		spec, _ := NewPackageSpecification(uuid.New(), "Box 1")
		assert.Error(t, spec.ApplyLabel("", "", ""))
	})
}

func TestNewPackageItemAssignment(t *testing.T) {
	t.Run("creates assignment", func(t *testing.T) {
		a, err := NewPackageItemAssignment(uuid.New(), uuid.New(), 4)
		assert.NoError(t, err)
		assert.Equal(t, 4, a.Quantity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewPackageItemAssignment(uuid.New(), uuid.New(), 0)
		assert.Error(t, err)
	})
}

func TestWorkingPackage_ToSpecification(t *testing.T) {
	orderID := uuid.New()

	t.Run("new package gets fresh identity", func(t *testing.T) {
		wp := &WorkingPackage{Ref: "tmp-1", Kind: PackageNew, Name: "Box 1", Carrier: "USPS", Service: "Priority"}
		spec, err := wp.ToSpecification(orderID)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, spec.ID)
		assert.Equal(t, orderID, spec.OrderID)
		assert.Equal(t, "USPS", spec.Carrier)
	})

	t.Run("existing package keeps its identity", func(t *testing.T) {
		id := uuid.New()
		wp := &WorkingPackage{Ref: id.String(), Kind: PackageExisting, ID: id, Name: "Box 1"}
		spec, err := wp.ToSpecification(orderID)
		assert.NoError(t, err)
		assert.Equal(t, id, spec.ID)
	})
}
