package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/dirtboard/internal/errors"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/services"
)

// ActorHeader names the person recording an activity when the body does not.
const ActorHeader = "X-Actor"

// ActivityHandler handles the activity log of a property.
type ActivityHandler struct {
	service services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler instance.
func NewActivityHandler(service services.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// ActivityResponse wraps a single activity entry.
type ActivityResponse struct {
	Activity *models.Activity `json:"activity"`
}

// ActivityListResponse wraps the activity log of a property.
type ActivityListResponse struct {
	Activities []models.Activity `json:"activities"`
	Count      int               `json:"count"`
}

// List handles GET /api/v1/properties/:id/activities.
func (h *ActivityHandler) List(c *gin.Context) {
	propertyID, ok := pathID(c, propertyNotFound)
	if !ok {
		return
	}

	activities, err := h.service.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		respondError(c, err, "Failed to list activity")
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	c.JSON(http.StatusOK, ActivityListResponse{Activities: activities, Count: len(activities)})
}

// Create handles POST /api/v1/properties/:id/activities.
func (h *ActivityHandler) Create(c *gin.Context) {
	propertyID, ok := pathID(c, propertyNotFound)
	if !ok {
		return
	}

	var req models.ActivityInsert
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, invalidBody)
		return
	}
	req.PropertyID = propertyID
	if req.CreatedBy == "" {
		req.CreatedBy = strings.TrimSpace(c.GetHeader(ActorHeader))
	}

	activity, err := h.service.Log(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to log activity")
		return
	}
	c.JSON(http.StatusCreated, ActivityResponse{Activity: activity})
}
