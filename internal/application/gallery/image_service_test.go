package gallery

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/garmentcrm/backend/internal/domain/gallery"
)

// MockImageAssetRepository is a mock implementation of ImageAssetRepository
type MockImageAssetRepository struct {
	mock.Mock
}

func (m *MockImageAssetRepository) Create(ctx context.Context, asset *gallery.ImageAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockImageAssetRepository) FindByItem(ctx context.Context, itemID uuid.UUID, itemType gallery.ItemType) ([]gallery.ImageAsset, error) {
	args := m.Called(ctx, itemID, itemType)
	return args.Get(0).([]gallery.ImageAsset), args.Error(1)
}

func (m *MockImageAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestImageServiceCreateFromFile(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()
	payload := []byte{0x89, 0x50, 0x4e, 0x47}

	t.Run("uploads and records the asset", func(t *testing.T) {
		assets := new(MockImageAssetRepository)
		storage := new(MockObjectStorage)
		storage.On("Upload", mock.Anything, mock.Anything, "image/png", payload).
			Return("https://bucket/key.png", nil)
		assets.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := NewImageService(assets, storage, zap.NewNop())
		asset, err := svc.CreateFromFile(ctx, itemID, gallery.ItemTypeShipping,
			"front.png", "image/png", payload, "front view", "ARTWORK")

		assert.NoError(t, err)
		assert.Equal(t, "https://bucket/key.png", asset.URL)
		assert.NotEmpty(t, asset.StorageKey)
		assert.Equal(t, gallery.ItemTypeShipping, asset.ItemType)
	})

	t.Run("rejects content types outside the whitelist", func(t *testing.T) {
		svc := NewImageService(new(MockImageAssetRepository), new(MockObjectStorage), zap.NewNop())

		_, err := svc.CreateFromFile(ctx, itemID, gallery.ItemTypeShipping,
			"payload.svg", "image/svg+xml", payload, "", "OTHER")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not allowed")
	})

	t.Run("rejects empty payloads", func(t *testing.T) {
		svc := NewImageService(new(MockImageAssetRepository), new(MockObjectStorage), zap.NewNop())

		_, err := svc.CreateFromFile(ctx, itemID, gallery.ItemTypeShipping,
			"empty.png", "image/png", nil, "", "OTHER")
		assert.Error(t, err)
	})

	t.Run("cleans up the stored object when the record fails", func(t *testing.T) {
		assets := new(MockImageAssetRepository)
		storage := new(MockObjectStorage)
		storage.On("Upload", mock.Anything, mock.Anything, "image/png", payload).
			Return("https://bucket/key.png", nil)
		assets.On("Create", mock.Anything, mock.Anything).Return(errors.New("db gone"))
		storage.On("Delete", mock.Anything, mock.Anything).Return(nil)

		svc := NewImageService(assets, storage, zap.NewNop())
		_, err := svc.CreateFromFile(ctx, itemID, gallery.ItemTypeShipping,
			"front.png", "image/png", payload, "", "OTHER")

		assert.Error(t, err)
		storage.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestImageServiceCreateFromURL(t *testing.T) {
	assets := new(MockImageAssetRepository)
	assets.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewImageService(assets, new(MockObjectStorage), zap.NewNop())
	asset, err := svc.CreateFromURL(context.Background(), uuid.New(), gallery.ItemTypeQuotes,
		"https://cdn.example.com/logo.png", "brand logo", "LOGO")

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/logo.png", asset.URL)
	assert.Empty(t, asset.StorageKey)
}

func TestImageServiceDelete(t *testing.T) {
	t.Run("removes the stored object for uploaded files", func(t *testing.T) {
		assets := new(MockImageAssetRepository)
		storage := new(MockObjectStorage)
		asset := &gallery.ImageAsset{ID: uuid.New(), StorageKey: "gallery/shipping/x/y.png"}
		assets.On("Delete", mock.Anything, asset.ID).Return(nil)
		storage.On("Delete", mock.Anything, asset.StorageKey).Return(nil)

		svc := NewImageService(assets, storage, zap.NewNop())
		assert.NoError(t, svc.Delete(context.Background(), asset))
		storage.AssertExpectations(t)
	})

	t.Run("hosted references have no object to remove", func(t *testing.T) {
		assets := new(MockImageAssetRepository)
		storage := new(MockObjectStorage)
		asset := &gallery.ImageAsset{ID: uuid.New()}
		assets.On("Delete", mock.Anything, asset.ID).Return(nil)

		svc := NewImageService(assets, storage, zap.NewNop())
		assert.NoError(t, svc.Delete(context.Background(), asset))
		storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
