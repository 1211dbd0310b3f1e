package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/dirtboard/internal/cache"
	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/pipeline"
	"github.com/stwalsh4118/dirtboard/internal/repository"
)

// PropertyService defines the business operations on properties.
type PropertyService interface {
	// List returns the cached property list narrowed by filters. refresh
	// reloads the list from the store first.
	List(ctx context.Context, filters models.PropertyFilters, refresh bool) ([]models.Property, error)

	// Get returns ErrPropertyNotFound if no property has the id.
	Get(ctx context.Context, id string) (*models.Property, error)

	// FindByParcel looks a parcel up in the store. county may be empty to
	// search every county.
	FindByParcel(ctx context.Context, parcelID, county string) ([]models.Property, error)

	// Create applies the creation defaults (status new, stage 1, raw land).
	// Returns ErrDuplicateProperty if the parcel is already tracked in the county.
	Create(ctx context.Context, in *models.PropertyInsert) (*models.Property, error)

	// Upsert creates the property or overwrites the one tracked under the
	// same parcel and county.
	Upsert(ctx context.Context, in *models.PropertyInsert) (*models.Property, error)

	// Update writes only the fields u carries. A status change is normalized
	// so the disqualification fields stay consistent with the status.
	Update(ctx context.Context, id string, u *models.PropertyUpdate) (*models.Property, error)

	// Delete removes the property with its contacts, comps and activity.
	Delete(ctx context.Context, id string) error

	// Disqualify and Qualify move a property and log a status_change activity.
	Disqualify(ctx context.Context, id string, reason models.DisqualificationReason, notes *string) (*models.Property, error)
	Qualify(ctx context.Context, id string) (*models.Property, error)

	// Stats aggregates the cached property list.
	Stats(ctx context.Context, refresh bool) (pipeline.Stats, error)

	// FilterOptions returns the statuses and counties present in the list.
	FilterOptions(ctx context.Context) (pipeline.Options, error)

	// NeedsValidation returns qualified properties with no tax status on record.
	NeedsValidation(ctx context.Context) ([]models.Property, error)
}

type propertyService struct {
	repo       repository.PropertyRepository
	activities repository.ActivityRepository
	list       *cache.Collection[models.Property]
	opts       Options
	log        *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(repo repository.PropertyRepository, activities repository.ActivityRepository, opts Options) PropertyService {
	opts = opts.withDefaults()
	return &propertyService{
		repo:       repo,
		activities: activities,
		list: cache.New(
			func(p models.Property) string { return p.ID },
			func(ctx context.Context) ([]models.Property, error) {
				return repo.List(ctx, models.PropertyQuery{})
			},
		),
		opts: opts,
		log:  opts.Log.Component("properties"),
	}
}

func (s *propertyService) items(ctx context.Context, refresh bool) ([]models.Property, error) {
	var (
		props []models.Property
		err   error
	)
	if refresh {
		props, err = s.list.Refresh(ctx)
	} else {
		props, err = s.list.Items(ctx)
	}
	if err != nil {
		s.log.Error("Failed to load properties", err, nil)
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}
	return props, nil
}

func (s *propertyService) List(ctx context.Context, filters models.PropertyFilters, refresh bool) ([]models.Property, error) {
	if err := s.opts.validate(filters); err != nil {
		return nil, err
	}

	props, err := s.items(ctx, refresh)
	if err != nil {
		return nil, err
	}

	filtered := pipeline.FilterProperties(props, filters)
	s.log.Debug("Listed properties", logger.Fields{
		"total":   len(props),
		"matched": len(filtered),
		"refresh": refresh,
	})
	return filtered, nil
}

func (s *propertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if p == nil {
		return nil, ErrPropertyNotFound
	}
	return p, nil
}

func (s *propertyService) FindByParcel(ctx context.Context, parcelID, county string) ([]models.Property, error) {
	parcelID = strings.TrimSpace(parcelID)
	if parcelID == "" {
		return nil, fmt.Errorf("%w: parcel id is required", ErrValidation)
	}

	q := models.PropertyQuery{ParcelID: &parcelID}
	if county = strings.TrimSpace(county); county != "" {
		q.County = &county
	}

	props, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to find parcel: %w", err)
	}
	return props, nil
}

// newProperty builds the row for an insert, applying the creation defaults
// and the disqualification invariant.
func newProperty(in *models.PropertyInsert) (*models.Property, error) {
	p := &models.Property{
		ParcelID:               strings.TrimSpace(in.ParcelID),
		County:                 strings.TrimSpace(in.County),
		OwnerName:              strings.TrimSpace(in.OwnerName),
		Status:                 in.Status,
		PipelineStage:          pipeline.StageInitial,
		DisqualificationReason: in.DisqualificationReason,
		DisqualificationNotes:  in.DisqualificationNotes,
		PropertyDetails:        in.PropertyDetails,
	}
	if p.Status == "" {
		p.Status = models.StatusNew
	}
	if p.PropertyType == nil {
		rawLand := models.PropertyTypeRawLand
		p.PropertyType = &rawLand
	}

	if in.PipelineStage != nil {
		p.PipelineStage = *in.PipelineStage
	}

	if p.Status == models.StatusDisqualified {
		if p.DisqualificationReason == nil || *p.DisqualificationReason == "" {
			return nil, pipeline.ErrReasonRequired
		}
		p.PipelineStage = pipeline.StageReset
	} else {
		p.DisqualificationReason = nil
		p.DisqualificationNotes = nil
	}
	return p, nil
}

func (s *propertyService) Create(ctx context.Context, in *models.PropertyInsert) (*models.Property, error) {
	return s.write(ctx, in, "create", s.repo.Create)
}

func (s *propertyService) Upsert(ctx context.Context, in *models.PropertyInsert) (*models.Property, error) {
	return s.write(ctx, in, "upsert", s.repo.Upsert)
}

func (s *propertyService) write(ctx context.Context, in *models.PropertyInsert, op string,
	store func(context.Context, *models.Property) (*models.Property, error)) (*models.Property, error) {
	if err := s.opts.validate(in); err != nil {
		return nil, err
	}
	p, err := newProperty(in)
	if err != nil {
		return nil, err
	}

	stored, err := store(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateProperty, p.ParcelID, p.County)
		}
		s.log.Error("Failed to "+op+" property", err, logger.Fields{
			"parcel_id": p.ParcelID,
			"county":    p.County,
		})
		return nil, fmt.Errorf("failed to %s property: %w", op, err)
	}

	s.list.Upsert(*stored)
	s.log.Info("Property saved", logger.Fields{
		"op":          op,
		"property_id": stored.ID,
		"parcel_id":   stored.ParcelID,
		"county":      stored.County,
		"status":      stored.Status,
	})
	return stored, nil
}

func (s *propertyService) Update(ctx context.Context, id string, u *models.PropertyUpdate) (*models.Property, error) {
	if err := s.opts.validate(u); err != nil {
		return nil, err
	}
	if err := pipeline.NormalizeStatusUpdate(u); err != nil {
		return nil, err
	}
	if u.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	var current *models.Property
	if u.Status != nil || u.DisqualificationReason != nil || u.DisqualificationNotes != nil {
		var err error
		if current, err = s.Get(ctx, id); err != nil {
			return nil, err
		}
		if u.Status == nil && current.Status != models.StatusDisqualified {
			return nil, ErrReasonWithoutDisqualification
		}
	}

	updated, err := s.apply(ctx, id, current, u)
	if err != nil {
		return nil, err
	}
	if u.Status != nil && *u.Status != current.Status {
		switch *u.Status {
		case models.StatusDisqualified:
			s.logStatusChange(ctx, current, updated, disqualifiedNote(string(*u.DisqualificationReason), u.DisqualificationNotes))
		case models.StatusQualified:
			s.logStatusChange(ctx, current, updated, qualifiedNote)
		}
	}
	return updated, nil
}

// apply writes u and merges the stored row into the cache. current, when
// known, is the row before the write and drives transition bookkeeping.
func (s *propertyService) apply(ctx context.Context, id string, current *models.Property, u *models.PropertyUpdate) (*models.Property, error) {
	if current != nil && u.Status != nil && !pipeline.IsExpectedTransition(current.Status, *u.Status) {
		s.log.Warn("Unexpected status transition", logger.Fields{
			"property_id": id,
			"from":        current.Status,
			"to":          *u.Status,
		})
	}

	updated, err := s.repo.Update(ctx, id, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %w", ErrDuplicateProperty, err)
		}
		s.log.Error("Failed to update property", err, logger.Fields{"property_id": id})
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	if updated == nil {
		return nil, ErrPropertyNotFound
	}

	s.list.Upsert(*updated)
	if current != nil {
		s.opts.Metrics.RecordTransition(current.Status, updated.Status)
	}
	return updated, nil
}

func (s *propertyService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete property", err, logger.Fields{"property_id": id})
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if !ok {
		return ErrPropertyNotFound
	}

	s.list.Remove(id)
	s.log.Info("Property deleted", logger.Fields{"property_id": id})
	return nil
}

func (s *propertyService) Disqualify(ctx context.Context, id string, reason models.DisqualificationReason, notes *string) (*models.Property, error) {
	u, err := pipeline.Disqualify(reason, notes)
	if err != nil {
		return nil, err
	}

	return s.changeStatus(ctx, id, u, disqualifiedNote(string(reason), notes))
}

func (s *propertyService) Qualify(ctx context.Context, id string) (*models.Property, error) {
	return s.changeStatus(ctx, id, pipeline.Qualify(), qualifiedNote)
}

const qualifiedNote = "Marked as qualified"

func disqualifiedNote(reason string, notes *string) string {
	note := "Disqualified: " + reason
	if n := strings.TrimSpace(models.Str(notes)); n != "" {
		note += " - " + n
	}
	return note
}

// changeStatus applies a status update and appends a status_change activity.
func (s *propertyService) changeStatus(ctx context.Context, id string, u *models.PropertyUpdate, note string) (*models.Property, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.apply(ctx, id, current, u)
	if err != nil {
		return nil, err
	}

	s.logStatusChange(ctx, current, updated, note)
	return updated, nil
}

// logStatusChange appends a status_change activity for a stored move from
// current to updated. The activity is best effort: a failed insert is logged.
func (s *propertyService) logStatusChange(ctx context.Context, current, updated *models.Property, note string) {
	_, err := s.activities.Create(ctx, &models.Activity{
		PropertyID:   updated.ID,
		ActivityType: models.ActivityStatusChange,
		Notes:        &note,
		CreatedBy:    s.opts.Actor,
	})
	if err != nil {
		s.log.Error("Failed to log status change", err, logger.Fields{
			"property_id": updated.ID,
			"status":      updated.Status,
		})
	}

	s.log.Info("Property status changed", logger.Fields{
		"property_id": updated.ID,
		"from":        current.Status,
		"to":          updated.Status,
	})
}

func (s *propertyService) Stats(ctx context.Context, refresh bool) (pipeline.Stats, error) {
	props, err := s.items(ctx, refresh)
	if err != nil {
		return pipeline.Stats{}, err
	}

	stats := pipeline.ComputeStats(props)
	s.opts.Metrics.SetPipeline(stats.ByStatus)
	return stats, nil
}

func (s *propertyService) FilterOptions(ctx context.Context) (pipeline.Options, error) {
	props, err := s.items(ctx, false)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.FilterOptions(props), nil
}

func (s *propertyService) NeedsValidation(ctx context.Context) ([]models.Property, error) {
	qualified := models.StatusQualified
	props, err := s.repo.List(ctx, models.PropertyQuery{Status: &qualified, MissingTaxStatus: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list properties needing validation: %w", err)
	}
	return props, nil
}
