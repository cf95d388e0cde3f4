package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	galleryapp "github.com/garmentcrm/backend/internal/application/gallery"
	"github.com/garmentcrm/backend/internal/domain/gallery"
	"github.com/garmentcrm/backend/internal/interfaces/http/dto"
)

// ImageHandler handles item image API endpoints
type ImageHandler struct {
	BaseHandler
	images *galleryapp.ImageService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(images *galleryapp.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// ImageResponse represents an image asset in API responses
type ImageResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	ItemType    string    `json:"item_type"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Class       string    `json:"class,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toImageResponse(asset *gallery.ImageAsset) ImageResponse {
	return ImageResponse{
		ID:          asset.ID.String(),
		ItemID:      asset.ItemID.String(),
		ItemType:    string(asset.ItemType),
		URL:         asset.URL,
		Description: asset.Description,
		Class:       asset.Class,
		CreatedAt:   asset.CreatedAt,
	}
}

// Upload stores one image file for an item, sent as multipart form data
func (h *ImageHandler) Upload(c *gin.Context) {
	itemID, itemType, ok := h.bindItem(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "unable to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "unable to read uploaded file")
		return
	}

	asset, err := h.images.CreateFromFile(
		c.Request.Context(),
		itemID,
		itemType,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
		c.PostForm("description"),
		c.PostForm("class"),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toImageResponse(asset))
}

// List returns an item's images
func (h *ImageHandler) List(c *gin.Context) {
	itemID, itemType, ok := h.bindItem(c)
	if !ok {
		return
	}

	assets, err := h.images.ListForItem(c.Request.Context(), itemID, itemType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ImageResponse, len(assets))
	for i := range assets {
		responses[i] = toImageResponse(&assets[i])
	}
	h.Success(c, responses)
}

// Delete removes one of an item's images together with its stored object
func (h *ImageHandler) Delete(c *gin.Context) {
	itemID, itemType, ok := h.bindItem(c)
	if !ok {
		return
	}

	imageID, err := uuid.Parse(c.Param("imageID"))
	if err != nil {
		h.BadRequest(c, "Invalid image ID")
		return
	}

	ctx := c.Request.Context()
	assets, err := h.images.ListForItem(ctx, itemID, itemType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	for i := range assets {
		if assets[i].ID == imageID {
			if err := h.images.Delete(ctx, &assets[i]); err != nil {
				h.HandleError(c, err)
				return
			}
			h.NoContent(c)
			return
		}
	}

	h.NotFound(c, "Image not found for this item")
}

// bindItem parses the :id path parameter and the item_type query
func (h *ImageHandler) bindItem(c *gin.Context) (uuid.UUID, gallery.ItemType, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid item ID")
		return uuid.Nil, "", false
	}
	itemID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return uuid.Nil, "", false
	}

	itemType := gallery.ItemType(c.DefaultQuery("item_type", string(gallery.ItemTypeShipping)))
	switch itemType {
	case gallery.ItemTypeShipping, gallery.ItemTypeQuotes, gallery.ItemTypeOrders:
	default:
		h.BadRequest(c, "Invalid item type")
		return uuid.Nil, "", false
	}

	return itemID, itemType, true
}
