package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/dirtboard/internal/errors"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/services"
)

const viewNotFound = "Saved view not found"

// SavedViewHandler handles saved view requests.
type SavedViewHandler struct {
	service services.SavedViewService
}

// NewSavedViewHandler creates a new SavedViewHandler instance.
func NewSavedViewHandler(service services.SavedViewService) *SavedViewHandler {
	return &SavedViewHandler{service: service}
}

// SavedViewResponse wraps a single saved view.
type SavedViewResponse struct {
	View *models.SavedView `json:"view"`
}

// SavedViewListResponse wraps the saved views in display order.
type SavedViewListResponse struct {
	Views []models.SavedView `json:"views"`
	Count int                `json:"count"`
}

// List handles GET /api/v1/views.
func (h *SavedViewHandler) List(c *gin.Context) {
	views, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list saved views")
		return
	}
	if views == nil {
		views = []models.SavedView{}
	}
	c.JSON(http.StatusOK, SavedViewListResponse{Views: views, Count: len(views)})
}

// Get handles GET /api/v1/views/:id.
func (h *SavedViewHandler) Get(c *gin.Context) {
	id, ok := pathID(c, viewNotFound)
	if !ok {
		return
	}

	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load saved view")
		return
	}
	c.JSON(http.StatusOK, SavedViewResponse{View: view})
}

// Create handles POST /api/v1/views.
func (h *SavedViewHandler) Create(c *gin.Context) {
	var req models.SavedViewInsert
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, invalidBody)
		return
	}

	view, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create saved view")
		return
	}
	c.JSON(http.StatusCreated, SavedViewResponse{View: view})
}

// Update handles PATCH /api/v1/views/:id.
func (h *SavedViewHandler) Update(c *gin.Context) {
	id, ok := pathID(c, viewNotFound)
	if !ok {
		return
	}

	var req models.SavedViewUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, invalidBody)
		return
	}

	view, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update saved view")
		return
	}
	c.JSON(http.StatusOK, SavedViewResponse{View: view})
}

// Delete handles DELETE /api/v1/views/:id.
func (h *SavedViewHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, viewNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete saved view")
		return
	}
	c.Status(http.StatusNoContent)
}

// Properties handles GET /api/v1/views/:id/properties, the property list
// filtered and sorted by the view.
func (h *SavedViewHandler) Properties(c *gin.Context) {
	id, ok := pathID(c, viewNotFound)
	if !ok {
		return
	}

	properties, err := h.service.Apply(c.Request.Context(), id, c.Query("refresh") == "true")
	if err != nil {
		respondError(c, err, "Failed to apply saved view")
		return
	}
	c.JSON(http.StatusOK, propertyList(properties))
}
