// Package handlers maps the DirtBoard HTTP API onto the service layer.
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apierrors "github.com/stwalsh4118/dirtboard/internal/errors"
	"github.com/stwalsh4118/dirtboard/internal/pipeline"
	"github.com/stwalsh4118/dirtboard/internal/services"
)

const invalidBody = "Invalid request body"

// notFound pairs each service not-found error with its client message.
var notFound = []struct {
	err     error
	message string
}{
	{services.ErrPropertyNotFound, "Property not found"},
	{services.ErrContactNotFound, "Contact not found"},
	{services.ErrCompNotFound, "Comp not found"},
	{services.ErrViewNotFound, "Saved view not found"},
	{services.ErrBuyerNotFound, "Buyer not found"},
}

// badRequest lists the service errors a client can fix by changing the request.
var badRequest = []error{
	services.ErrEmptyUpdate,
	services.ErrReasonWithoutDisqualification,
	services.ErrUnsortableColumn,
	pipeline.ErrReasonRequired,
	pipeline.ErrInvalidReason,
}

// respondError translates a service error into the API error envelope.
// message is used for unexpected failures.
func respondError(c *gin.Context, err error, message string) {
	for _, nf := range notFound {
		if errors.Is(err, nf.err) {
			apierrors.NotFound(c, nf.message)
			return
		}
	}
	if errors.Is(err, services.ErrValidation) {
		apierrors.BindError(c, err, "Invalid request")
		return
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
	}
	if errors.Is(err, services.ErrDuplicateProperty) {
		apierrors.Conflict(c, err.Error())
		return
	}
	apierrors.InternalServerError(c, message, err)
}

// pathID returns the :id parameter. Ids are UUIDs, so anything else cannot
// name a stored row and is answered with a 404 carrying message.
func pathID(c *gin.Context, message string) (string, bool) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		apierrors.NotFound(c, message)
		return "", false
	}
	return id, true
}

// splitList flattens repeated and comma separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
