package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/dirtboard/internal/errors"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/services"
)

const buyerNotFound = "Buyer not found"

// BuyerHandler handles buyer list requests.
type BuyerHandler struct {
	service services.BuyerService
}

// NewBuyerHandler creates a new BuyerHandler instance.
func NewBuyerHandler(service services.BuyerService) *BuyerHandler {
	return &BuyerHandler{service: service}
}

// BuyerListRequest holds the buyer list query parameters.
type BuyerListRequest struct {
	models.BuyerFilters
	Refresh bool `form:"refresh"`
}

// BuyerResponse wraps a single buyer.
type BuyerResponse struct {
	Buyer *models.Buyer `json:"buyer"`
}

// BuyerListResponse wraps a buyer list.
type BuyerListResponse struct {
	Buyers []models.Buyer `json:"buyers"`
	Count  int            `json:"count"`
}

// List handles GET /api/v1/buyers?type=&county=&search=.
func (h *BuyerHandler) List(c *gin.Context) {
	var req BuyerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.BindError(c, err, "Invalid query parameters")
		return
	}

	buyers, err := h.service.List(c.Request.Context(), req.BuyerFilters, req.Refresh)
	if err != nil {
		respondError(c, err, "Failed to list buyers")
		return
	}
	if buyers == nil {
		buyers = []models.Buyer{}
	}
	c.JSON(http.StatusOK, BuyerListResponse{Buyers: buyers, Count: len(buyers)})
}

// Get handles GET /api/v1/buyers/:id.
func (h *BuyerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, buyerNotFound)
	if !ok {
		return
	}

	buyer, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load buyer")
		return
	}
	c.JSON(http.StatusOK, BuyerResponse{Buyer: buyer})
}

// Create handles POST /api/v1/buyers.
func (h *BuyerHandler) Create(c *gin.Context) {
	var req models.BuyerInsert
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, invalidBody)
		return
	}

	buyer, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create buyer")
		return
	}
	c.JSON(http.StatusCreated, BuyerResponse{Buyer: buyer})
}

// Update handles PATCH /api/v1/buyers/:id.
func (h *BuyerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, buyerNotFound)
	if !ok {
		return
	}

	var req models.BuyerUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, invalidBody)
		return
	}

	buyer, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update buyer")
		return
	}
	c.JSON(http.StatusOK, BuyerResponse{Buyer: buyer})
}

// Delete handles DELETE /api/v1/buyers/:id.
func (h *BuyerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, buyerNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete buyer")
		return
	}
	c.Status(http.StatusNoContent)
}
