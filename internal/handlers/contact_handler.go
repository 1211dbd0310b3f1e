package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/dirtboard/internal/errors"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/services"
)

// ContactHandler handles owner contact requests.
type ContactHandler struct {
	service services.ContactService
}

// NewContactHandler creates a new ContactHandler instance.
func NewContactHandler(service services.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// ContactResponse wraps a single contact.
type ContactResponse struct {
	Contact *models.Contact `json:"contact"`
}

// ContactListResponse wraps the contacts of a property.
type ContactListResponse struct {
	Contacts []models.Contact `json:"contacts"`
	Count    int              `json:"count"`
}

// List handles GET /api/v1/properties/:id/contacts.
func (h *ContactHandler) List(c *gin.Context) {
	propertyID, ok := pathID(c, propertyNotFound)
	if !ok {
		return
	}

	contacts, err := h.service.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		respondError(c, err, "Failed to list contacts")
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	c.JSON(http.StatusOK, ContactListResponse{Contacts: contacts, Count: len(contacts)})
}

// Create handles POST /api/v1/properties/:id/contacts. The property id in
// the path overrides any property_id in the body.
func (h *ContactHandler) Create(c *gin.Context) {
	propertyID, ok := pathID(c, propertyNotFound)
	if !ok {
		return
	}

	var req models.ContactInsert
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, invalidBody)
		return
	}
	req.PropertyID = propertyID

	contact, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create contact")
		return
	}
	c.JSON(http.StatusCreated, ContactResponse{Contact: contact})
}

// Delete handles DELETE /api/v1/contacts/:id.
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "Contact not found")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete contact")
		return
	}
	c.Status(http.StatusNoContent)
}
