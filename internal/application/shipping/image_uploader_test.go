package shipping

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/garmentcrm/backend/internal/domain/gallery"
	"github.com/garmentcrm/backend/internal/domain/shipping"
)

func fileImage(name string) shipping.ImageInput {
	return shipping.ImageInput{
		FileName:    name,
		Data:        []byte{0x89, 0x50, 0x4e, 0x47},
		ContentType: "image/png",
		Class:       shipping.ImageClassArtwork,
	}
}

func uploaderWork(itemID uuid.UUID, images ...shipping.ImageInput) []ItemImages {
	return []ItemImages{{ItemID: itemID, ItemName: "Hoodie", Images: images}}
}

func TestImageUploaderUploadAll(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	customerID := uuid.New()
	itemID := uuid.New()
	asset := &gallery.ImageAsset{ID: uuid.New()}

	t.Run("records activity for every successful upload", func(t *testing.T) {
		images := new(MockImageStore)
		images.On("CreateFromFile", mock.Anything, itemID, gallery.ItemTypeShipping,
			"front.png", "image/png", mock.Anything, "", "ARTWORK").Return(asset, nil)
		audit := new(MockAuditSink)
		audit.On("Record", mock.Anything, customerID, "PENDING", mock.Anything,
			"UPLOAD", orderID, "SHIPPING", "alice").Return(nil)

		u := NewImageUploader(images, audit, DefaultMaxRetries, zap.NewNop())
		warnings := u.UploadAll(ctx, orderID, "SO-1001", customerID, "PENDING", "alice",
			uploaderWork(itemID, fileImage("front.png")))

		assert.Empty(t, warnings)
		images.AssertNumberOfCalls(t, "CreateFromFile", 1)
		audit.AssertNumberOfCalls(t, "Record", 1)
	})

	t.Run("retries a failing image and succeeds on a later attempt", func(t *testing.T) {
		images := new(MockImageStore)
		images.On("CreateFromFile", mock.Anything, itemID, gallery.ItemTypeShipping,
			"front.png", "image/png", mock.Anything, "", "ARTWORK").
			Return(nil, errors.New("connection reset")).Twice()
		images.On("CreateFromFile", mock.Anything, itemID, gallery.ItemTypeShipping,
			"front.png", "image/png", mock.Anything, "", "ARTWORK").
			Return(asset, nil).Once()
		audit := new(MockAuditSink)
		audit.On("Record", mock.Anything, customerID, "PENDING", mock.Anything,
			"UPLOAD", orderID, "SHIPPING", "alice").Return(nil)

		u := NewImageUploader(images, audit, 2, zap.NewNop())
		warnings := u.UploadAll(ctx, orderID, "SO-1001", customerID, "PENDING", "alice",
			uploaderWork(itemID, fileImage("front.png")))

		// each failed attempt surfaces as a transient warning
		assert.Len(t, warnings, 2)
		assert.Contains(t, warnings[0], "retrying")
		assert.Contains(t, warnings[0], "front.png")
		images.AssertNumberOfCalls(t, "CreateFromFile", 3)
		audit.AssertNumberOfCalls(t, "Record", 1)
	})

	t.Run("gives up after one plus maxRetries attempts with a warning", func(t *testing.T) {
		images := new(MockImageStore)
		images.On("CreateFromFile", mock.Anything, itemID, gallery.ItemTypeShipping,
			"front.png", "image/png", mock.Anything, "", "ARTWORK").
			Return(nil, errors.New("bucket unreachable"))
		audit := new(MockAuditSink)

		u := NewImageUploader(images, audit, 2, zap.NewNop())
		warnings := u.UploadAll(ctx, orderID, "SO-1001", customerID, "PENDING", "alice",
			uploaderWork(itemID, fileImage("front.png")))

		// two transient warnings followed by the terminal one
		assert.Len(t, warnings, 3)
		assert.Contains(t, warnings[0], "retrying")
		assert.Contains(t, warnings[2], "front.png")
		assert.Contains(t, warnings[2], "3 attempts")
		images.AssertNumberOfCalls(t, "CreateFromFile", 3)
		audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a dead image never blocks the images after it", func(t *testing.T) {
		images := new(MockImageStore)
		images.On("CreateFromFile", mock.Anything, itemID, gallery.ItemTypeShipping,
			"broken.png", "image/png", mock.Anything, "", "ARTWORK").
			Return(nil, errors.New("bucket unreachable"))
		images.On("CreateFromFile", mock.Anything, itemID, gallery.ItemTypeShipping,
			"fine.png", "image/png", mock.Anything, "", "ARTWORK").
			Return(asset, nil)
		audit := new(MockAuditSink)
		audit.On("Record", mock.Anything, customerID, "PENDING", mock.Anything,
			"UPLOAD", orderID, "SHIPPING", "alice").Return(nil)

		u := NewImageUploader(images, audit, 1, zap.NewNop())
		warnings := u.UploadAll(ctx, orderID, "SO-1001", customerID, "PENDING", "alice",
			uploaderWork(itemID, fileImage("broken.png"), fileImage("fine.png")))

		assert.Len(t, warnings, 2)
		assert.Contains(t, warnings[0], "broken.png")
		assert.Contains(t, warnings[1], "broken.png")
		audit.AssertNumberOfCalls(t, "Record", 1)
	})

	t.Run("hosted urls are stored without a file upload", func(t *testing.T) {
		images := new(MockImageStore)
		images.On("CreateFromURL", mock.Anything, itemID, gallery.ItemTypeShipping,
			"https://cdn.example.com/logo.png", "brand logo", "LOGO").Return(asset, nil)
		audit := new(MockAuditSink)
		audit.On("Record", mock.Anything, customerID, "PENDING", mock.Anything,
			"UPLOAD", orderID, "SHIPPING", "alice").Return(nil)

		hosted := shipping.ImageInput{
			FileName:    "logo.png",
			HostedURL:   "https://cdn.example.com/logo.png",
			Description: "brand logo",
			Class:       shipping.ImageClassLogo,
		}
		u := NewImageUploader(images, audit, DefaultMaxRetries, zap.NewNop())
		warnings := u.UploadAll(ctx, orderID, "SO-1001", customerID, "PENDING", "alice",
			uploaderWork(itemID, hosted))

		assert.Empty(t, warnings)
		images.AssertNumberOfCalls(t, "CreateFromURL", 1)
	})

	t.Run("audit failure does not fail the upload", func(t *testing.T) {
		images := new(MockImageStore)
		images.On("CreateFromFile", mock.Anything, itemID, gallery.ItemTypeShipping,
			"front.png", "image/png", mock.Anything, "", "ARTWORK").Return(asset, nil)
		audit := new(MockAuditSink)
		audit.On("Record", mock.Anything, customerID, "PENDING", mock.Anything,
			"UPLOAD", orderID, "SHIPPING", "alice").Return(errors.New("history table locked"))

		u := NewImageUploader(images, audit, DefaultMaxRetries, zap.NewNop())
		warnings := u.UploadAll(ctx, orderID, "SO-1001", customerID, "PENDING", "alice",
			uploaderWork(itemID, fileImage("front.png")))

		assert.Empty(t, warnings)
	})
}
