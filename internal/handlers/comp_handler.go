package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/dirtboard/internal/errors"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/services"
)

const compNotFound = "Comp not found"

// CompHandler handles comparable sale requests.
type CompHandler struct {
	service services.CompService
}

// NewCompHandler creates a new CompHandler instance.
func NewCompHandler(service services.CompService) *CompHandler {
	return &CompHandler{service: service}
}

// CompResponse wraps a single comp.
type CompResponse struct {
	Comp *models.Comp `json:"comp"`
}

// CompListResponse wraps the comps of a property.
type CompListResponse struct {
	Comps []models.Comp `json:"comps"`
	Count int           `json:"count"`
}

// List handles GET /api/v1/properties/:id/comps.
func (h *CompHandler) List(c *gin.Context) {
	propertyID, ok := pathID(c, propertyNotFound)
	if !ok {
		return
	}

	comps, err := h.service.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		respondError(c, err, "Failed to list comps")
		return
	}
	if comps == nil {
		comps = []models.Comp{}
	}
	c.JSON(http.StatusOK, CompListResponse{Comps: comps, Count: len(comps)})
}

// Create handles POST /api/v1/properties/:id/comps.
func (h *CompHandler) Create(c *gin.Context) {
	propertyID, ok := pathID(c, propertyNotFound)
	if !ok {
		return
	}

	var req models.CompInsert
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, invalidBody)
		return
	}
	req.PropertyID = propertyID

	comp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create comp")
		return
	}
	c.JSON(http.StatusCreated, CompResponse{Comp: comp})
}

// Update handles PATCH /api/v1/comps/:id.
func (h *CompHandler) Update(c *gin.Context) {
	id, ok := pathID(c, compNotFound)
	if !ok {
		return
	}

	var req models.CompUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, invalidBody)
		return
	}

	comp, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update comp")
		return
	}
	c.JSON(http.StatusOK, CompResponse{Comp: comp})
}

// Delete handles DELETE /api/v1/comps/:id.
func (h *CompHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, compNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete comp")
		return
	}
	c.Status(http.StatusNoContent)
}
