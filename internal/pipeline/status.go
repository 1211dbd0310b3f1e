package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/stwalsh4118/dirtboard/internal/models"
)

// Pipeline stage markers set by convention. Stage is otherwise free-running.
const (
	StageReset   = 0
	StageInitial = 1
)

var (
	// ErrReasonRequired is returned when a property is moved to disqualified without a reason.
	ErrReasonRequired = errors.New("disqualification reason is required")
	// ErrInvalidReason is returned for a reason outside the closed set.
	ErrInvalidReason = errors.New("invalid disqualification reason")
)

// Disqualify builds the update that moves a property to disqualified with
// reason and optional notes and resets its pipeline stage.
func Disqualify(reason models.DisqualificationReason, notes *string) (*models.PropertyUpdate, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if !reason.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReason, reason)
	}

	status := models.StatusDisqualified
	stage := StageReset
	return &models.PropertyUpdate{
		Status:                 &status,
		PipelineStage:          &stage,
		DisqualificationReason: &reason,
		DisqualificationNotes:  notes,
	}, nil
}

// Qualify builds the update that moves a property to qualified.
func Qualify() *models.PropertyUpdate {
	status := models.StatusQualified
	return &models.PropertyUpdate{Status: &status, ClearDisqualification: true}
}

// NormalizeStatusUpdate enforces the disqualification invariant on a partial
// update that sets a status: disqualified needs a valid reason and always
// resets the stage, overriding any stage in u. Any other status clears the
// reason and notes.
// Updates that leave status alone are not touched.
func NormalizeStatusUpdate(u *models.PropertyUpdate) error {
	if u.Status == nil {
		return nil
	}

	if *u.Status == models.StatusDisqualified {
		if u.DisqualificationReason == nil || *u.DisqualificationReason == "" {
			return ErrReasonRequired
		}
		if !u.DisqualificationReason.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidReason, *u.DisqualificationReason)
		}
		stage := StageReset
		u.PipelineStage = &stage
		return nil
	}

	u.DisqualificationReason = nil
	u.DisqualificationNotes = nil
	u.ClearDisqualification = true
	return nil
}

// transitions lists the conventional successors of each status. Disqualified
// is reachable from any non-terminal status and is handled separately.
var transitions = map[models.PropertyStatus][]models.PropertyStatus{
	models.StatusNew: {
		models.StatusAppraiserReview, models.StatusFloodCheck, models.StatusSkipTrace,
		models.StatusTaxCheck, models.StatusLienCheck, models.StatusAccessCheck, models.StatusValuation,
		models.StatusQualified,
	},
	models.StatusQualified:     {models.StatusContacted},
	models.StatusContacted:     {models.StatusOfferMade},
	models.StatusOfferMade:     {models.StatusUnderContract},
	models.StatusUnderContract: {models.StatusClosedWon, models.StatusClosedLost},
	models.StatusClosedWon:     {models.StatusListedForSale},
	models.StatusListedForSale: {models.StatusSold},
	models.StatusClosedLost:    nil,
	models.StatusSold:          nil,
	models.StatusDisqualified:  nil,
}

// researchStatuses are the due-diligence checks, which may run in any order.
var researchStatuses = []models.PropertyStatus{
	models.StatusAppraiserReview, models.StatusFloodCheck, models.StatusSkipTrace,
	models.StatusTaxCheck, models.StatusLienCheck, models.StatusAccessCheck, models.StatusValuation,
}

// IsTerminal reports whether s ends the pipeline.
func IsTerminal(s models.PropertyStatus) bool {
	return s == models.StatusClosedLost || s == models.StatusSold || s == models.StatusDisqualified
}

// IsExpectedTransition reports whether moving from one status to another
// follows the conventional pipeline order. It is advisory: any status may be
// written, and callers only log unexpected moves.
func IsExpectedTransition(from, to models.PropertyStatus) bool {
	if from == to {
		return true
	}
	if to == models.StatusDisqualified {
		return !IsTerminal(from)
	}
	if slices.Contains(researchStatuses, from) {
		return to == models.StatusQualified || slices.Contains(researchStatuses, to)
	}
	return slices.Contains(transitions[from], to)
}
