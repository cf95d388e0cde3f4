package shipping

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garmentcrm/backend/internal/domain/gallery"
	"github.com/garmentcrm/backend/internal/domain/shipping"
)

// DefaultMaxRetries is the number of re-attempts after the first failed
// upload of an image
const DefaultMaxRetries = 2

// ItemImages is the upload work for one persisted line item
type ItemImages struct {
	ItemID   uuid.UUID
	ItemName string
	Images   []shipping.ImageInput
}

// ImageUploader pushes item images to storage after the order has been
// persisted. Uploads are strictly best-effort: every failure degrades to
// a warning and the next image is attempted regardless.
type ImageUploader struct {
	images     ImageStore
	audit      AuditSink
	maxRetries int
	logger     *zap.Logger
}

// NewImageUploader creates a new image uploader. maxRetries counts
// re-attempts after the first failure; negative values fall back to
// DefaultMaxRetries.
func NewImageUploader(images ImageStore, audit AuditSink, maxRetries int, logger *zap.Logger) *ImageUploader {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &ImageUploader{
		images:     images,
		audit:      audit,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// UploadAll processes the item images sequentially. Each image gets at
// most 1+maxRetries attempts; every successful upload writes an activity
// record against the order. The returned warnings name each transient
// failure that was retried and each image that was ultimately given up
// on. UploadAll never returns an error.
func (u *ImageUploader) UploadAll(ctx context.Context, orderID uuid.UUID, orderNumber string, customerID uuid.UUID, status, userOwner string, uploads []ItemImages) []string {
	var warnings []string

	for _, work := range uploads {
		for i := range work.Images {
			img := &work.Images[i]
			retried, err := u.uploadWithRetry(ctx, work.ItemID, work.ItemName, img)
			warnings = append(warnings, retried...)
			if err != nil {
				u.logger.Warn("giving up on image upload",
					zap.String("image", img.FileName),
					zap.String("item", work.ItemName),
					zap.Int("attempts", u.maxRetries+1),
					zap.Error(err))
				warnings = append(warnings, fmt.Sprintf(
					"failed to upload image %s for item %s after %d attempts: %v",
					img.FileName, work.ItemName, u.maxRetries+1, err))
				continue
			}

			activityText := fmt.Sprintf("Uploaded image %s for item %s on Shipping Order #%s",
				img.FileName, work.ItemName, orderNumber)
			if err := u.audit.Record(ctx, customerID, status, activityText, "UPLOAD", orderID, "SHIPPING", userOwner); err != nil {
				u.logger.Warn("failed to record upload activity",
					zap.String("image", img.FileName),
					zap.Error(err))
			}
		}
	}

	return warnings
}

// uploadWithRetry attempts one image until it succeeds or the attempt
// budget runs out. Every failed attempt that still has retries left is
// reported back as a warning so the caller can show the degraded run.
func (u *ImageUploader) uploadWithRetry(ctx context.Context, itemID uuid.UUID, itemName string, img *shipping.ImageInput) ([]string, error) {
	var retried []string
	var lastErr error
	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		var err error
		if img.IsFile() {
			_, err = u.images.CreateFromFile(ctx, itemID, gallery.ItemTypeShipping,
				img.FileName, img.ContentType, img.Data, img.Description, string(img.Class))
		} else {
			_, err = u.images.CreateFromURL(ctx, itemID, gallery.ItemTypeShipping,
				img.HostedURL, img.Description, string(img.Class))
		}
		if err == nil {
			return retried, nil
		}
		lastErr = err
		if attempt < u.maxRetries {
			u.logger.Warn("image upload failed, retrying",
				zap.String("image", img.FileName),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			retried = append(retried, fmt.Sprintf(
				"upload attempt %d of %d for image %s on item %s failed, retrying: %v",
				attempt+1, u.maxRetries+1, img.FileName, itemName, err))
		}
	}
	return retried, lastErr
}
