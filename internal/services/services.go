package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/metrics"
	"github.com/stwalsh4118/dirtboard/internal/repository"
	"github.com/stwalsh4118/dirtboard/internal/validation"
)

// Service-level errors
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrContactNotFound  = errors.New("contact not found")
	ErrCompNotFound     = errors.New("comp not found")
	ErrViewNotFound     = errors.New("saved view not found")
	ErrBuyerNotFound    = errors.New("buyer not found")

	// ErrValidation wraps the validator.ValidationErrors of a rejected payload.
	ErrValidation = errors.New("validation failed")
	// ErrEmptyUpdate is returned for a partial update that sets nothing.
	ErrEmptyUpdate = errors.New("update sets no fields")
	// ErrDuplicateProperty is returned when a parcel is already tracked in a county.
	ErrDuplicateProperty = errors.New("property already exists for this parcel and county")
	// ErrReasonWithoutDisqualification is returned when a reason is written to
	// a property that is not, and is not becoming, disqualified.
	ErrReasonWithoutDisqualification = errors.New("disqualification reason requires status disqualified")
	// ErrUnsortableColumn is returned for a saved view sort the list cannot apply.
	ErrUnsortableColumn = errors.New("column is not sortable")
)

// DefaultActor is recorded as created_by when no actor is configured.
const DefaultActor = "system"

// Options carries the collaborators shared by every service. Zero values are
// replaced with usable defaults: a no-op logger, the standard validator, no
// metrics and DefaultActor.
type Options struct {
	Log      *logger.Logger
	Validate *validator.Validate
	Metrics  *metrics.Metrics
	Actor    string
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	if o.Validate == nil {
		o.Validate = validation.New()
	}
	if o.Actor == "" {
		o.Actor = DefaultActor
	}
	return o
}

// validate checks payload and wraps any failure with ErrValidation.
func (o Options) validate(payload interface{}) error {
	if err := o.Validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// missingParent maps a foreign key failure on a child row to notFound.
func missingParent(err, notFound error) error {
	if errors.Is(err, repository.ErrMissingParent) {
		return fmt.Errorf("%w: %w", notFound, err)
	}
	return err
}
