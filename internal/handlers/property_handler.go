package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/dirtboard/internal/errors"
	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/middleware"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/services"
)

const propertyNotFound = "Property not found"

// PropertyHandler handles property-related HTTP requests.
type PropertyHandler struct {
	service services.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(service services.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		service: service,
	}
}

// PropertyListRequest holds the list query parameters. status and county
// accept repeated parameters and comma separated values.
type PropertyListRequest struct {
	Status           []string `form:"status"`
	County           []string `form:"county"`
	Search           string   `form:"search"`
	ShowDisqualified bool     `form:"show_disqualified"`
	Refresh          bool     `form:"refresh"`
}

// Filters converts the request to pipeline filters.
func (r PropertyListRequest) Filters() models.PropertyFilters {
	f := models.PropertyFilters{
		County:           splitList(r.County),
		Search:           r.Search,
		ShowDisqualified: r.ShowDisqualified,
	}
	for _, s := range splitList(r.Status) {
		f.Status = append(f.Status, models.PropertyStatus(s))
	}
	return f
}

// DisqualifyRequest is the body of POST /properties/:id/disqualify.
type DisqualifyRequest struct {
	Notes  *string                       `json:"notes,omitempty"`
	Reason models.DisqualificationReason `json:"reason"`
}

// PropertyResponse wraps a single property.
type PropertyResponse struct {
	Property *models.Property `json:"property"`
}

// PropertyListResponse wraps a property list.
type PropertyListResponse struct {
	Properties []models.Property `json:"properties"`
	Count      int               `json:"count"`
}

func propertyList(properties []models.Property) PropertyListResponse {
	if properties == nil {
		properties = []models.Property{}
	}
	return PropertyListResponse{Properties: properties, Count: len(properties)}
}

// List handles GET /api/v1/properties.
func (h *PropertyHandler) List(c *gin.Context) {
	var req PropertyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.BindError(c, err, "Invalid query parameters")
		return
	}

	properties, err := h.service.List(c.Request.Context(), req.Filters(), req.Refresh)
	if err != nil {
		respondError(c, err, "Failed to list properties")
		return
	}
	c.JSON(http.StatusOK, propertyList(properties))
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, propertyNotFound)
	if !ok {
		return
	}

	property, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load property")
		return
	}
	c.JSON(http.StatusOK, PropertyResponse{Property: property})
}

// FindByParcel handles GET /api/v1/properties/by-parcel/:parcel_id. An
// optional county query parameter narrows the search.
func (h *PropertyHandler) FindByParcel(c *gin.Context) {
	properties, err := h.service.FindByParcel(c.Request.Context(), c.Param("parcel_id"), strings.TrimSpace(c.Query("county")))
	if err != nil {
		respondError(c, err, "Failed to search parcels")
		return
	}
	c.JSON(http.StatusOK, propertyList(properties))
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req models.PropertyInsert
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, invalidBody)
		return
	}

	property, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create property")
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Property created", logger.Fields{
			"property_id": property.ID,
			"parcel_id":   property.ParcelID,
			"county":      property.County,
		})
	}
	c.JSON(http.StatusCreated, PropertyResponse{Property: property})
}

// Update handles PATCH /api/v1/properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := pathID(c, propertyNotFound)
	if !ok {
		return
	}

	var req models.PropertyUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, invalidBody)
		return
	}

	property, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update property")
		return
	}
	c.JSON(http.StatusOK, PropertyResponse{Property: property})
}

// Delete handles DELETE /api/v1/properties/:id.
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, propertyNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete property")
		return
	}
	c.Status(http.StatusNoContent)
}

// Disqualify handles POST /api/v1/properties/:id/disqualify.
func (h *PropertyHandler) Disqualify(c *gin.Context) {
	id, ok := pathID(c, propertyNotFound)
	if !ok {
		return
	}

	var req DisqualifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, invalidBody)
		return
	}

	property, err := h.service.Disqualify(c.Request.Context(), id, req.Reason, req.Notes)
	if err != nil {
		respondError(c, err, "Failed to disqualify property")
		return
	}
	c.JSON(http.StatusOK, PropertyResponse{Property: property})
}

// Qualify handles POST /api/v1/properties/:id/qualify.
func (h *PropertyHandler) Qualify(c *gin.Context) {
	id, ok := pathID(c, propertyNotFound)
	if !ok {
		return
	}

	property, err := h.service.Qualify(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to qualify property")
		return
	}
	c.JSON(http.StatusOK, PropertyResponse{Property: property})
}

// Stats handles GET /api/v1/properties/stats.
func (h *PropertyHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Query("refresh") == "true")
	if err != nil {
		respondError(c, err, "Failed to compute pipeline stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// FilterOptions handles GET /api/v1/properties/filter-options.
func (h *PropertyHandler) FilterOptions(c *gin.Context) {
	opts, err := h.service.FilterOptions(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load filter options")
		return
	}
	c.JSON(http.StatusOK, opts)
}

// NeedsValidation handles GET /api/v1/properties/needs-validation.
func (h *PropertyHandler) NeedsValidation(c *gin.Context) {
	properties, err := h.service.NeedsValidation(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list properties needing validation")
		return
	}
	c.JSON(http.StatusOK, propertyList(properties))
}
