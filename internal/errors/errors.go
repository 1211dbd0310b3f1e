package errors

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/middleware"
)

// Error code constants for standardized error responses
const (
	ErrNotFound           = "NOT_FOUND"
	ErrBadRequest         = "BAD_REQUEST"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrValidation         = "VALIDATION_ERROR"
	ErrDatabaseConnection = "DATABASE_CONNECTION_ERROR"
	ErrConflict           = "CONFLICT"
	ErrPayloadTooLarge    = "PAYLOAD_TOO_LARGE"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// NotFound returns a 404 Not Found error response.
// It logs a warning and sends a JSON response with the error details.
func NotFound(c *gin.Context, message string) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Warn("Resource not found", logger.Fields{
			"message": message,
			"path":    c.Request.URL.Path,
		})
	}

	c.JSON(http.StatusNotFound, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrNotFound,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// BadRequest returns a 400 Bad Request error response with optional details.
// It logs a warning and sends a JSON response with the error details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	logFields := logger.Fields{
		"message": message,
		"path":    c.Request.URL.Path,
	}
	if details != nil {
		logFields["details"] = details
	}

	if log != nil {
		log.Warn("Bad request", logFields)
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrBadRequest,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

// InternalServerError returns a 500 Internal Server Error response.
// It logs the error with full context and sends a generic error message to the client.
// The actual error details are not exposed to the client for security reasons.
func InternalServerError(c *gin.Context, message string, err error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Error("Internal server error", err, logger.Fields{
			"message": message,
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrInternalServer,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// Conflict returns a 409 Conflict error response, used when a write collides
// with an existing row such as a duplicate parcel in the same county.
func Conflict(c *gin.Context, message string) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Warn("Conflict", logger.Fields{
			"message": message,
			"path":    c.Request.URL.Path,
		})
	}

	c.JSON(http.StatusConflict, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrConflict,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// PayloadTooLarge returns a 413 response for uploads over the configured limit.
func PayloadTooLarge(c *gin.Context, limitBytes int64) {
	c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrPayloadTooLarge,
			Message:   "Upload exceeds the size limit",
			Details:   map[string]interface{}{"limit_bytes": limitBytes},
			RequestID: middleware.GetRequestID(c),
		},
	})
}

// BindError answers a failed request bind. Validation failures get field
// details; malformed bodies and query strings get a plain 400.
func BindError(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		ValidationError(c, validationErrors)
		return
	}
	BadRequest(c, message, map[string]interface{}{"reason": err.Error()})
}

// ValidationError returns a 400 Bad Request error response with field-specific validation errors.
// It parses the validation errors from the validator library and formats them for the client.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	// Convert validation errors to a map of field -> error message
	details := make(map[string]interface{})
	for _, err := range validationErrors {
		details[fieldKey(err)] = formatValidationError(err)
	}

	if log != nil {
		log.Warn("Validation error", logger.Fields{
			"path":   c.Request.URL.Path,
			"fields": details,
		})
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrValidation,
			Message:   "Validation failed for one or more fields",
			Details:   details,
			RequestID: requestID,
		},
	})
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "len":
		return "Must have length of " + err.Param()
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lt":
		return "Must be less than " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "url":
		return "Must be a valid URL"
	case "uuid":
		return "Must be a valid UUID"
	case "dive":
		return "Contains an invalid entry"
	default:
		if noun, ok := enumTags[err.Tag()]; ok {
			return "Must be a valid " + noun
		}
		return "Validation failed for tag: " + err.Tag()
	}
}

// enumTags maps the custom enum validation tags to the noun used in messages.
var enumTags = map[string]string{
	"property_status":         "property status",
	"disqualification_reason": "disqualification reason",
	"property_type":           "property type",
	"tax_status":              "tax status",
	"title_status":            "title status",
	"seller_type":             "seller type",
	"deal_verdict":            "deal verdict",
	"offer_status":            "offer status",
	"contact_type":            "contact type",
	"comp_type":               "comp type",
	"activity_type":           "activity type",
	"buyer_type":              "buyer type",
	"buyer_status":            "buyer status",
}

// fieldKey is the details key for a failed field: its json name path, e.g.
// "sort.direction". Segments that are Go type names (the top-level struct
// and embedded structs) are dropped.
func fieldKey(err validator.FieldError) string {
	parts := strings.Split(err.Namespace(), ".")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" && !unicode.IsUpper(rune(p[0])) {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return err.Field()
	}
	return strings.Join(kept, ".")
}
