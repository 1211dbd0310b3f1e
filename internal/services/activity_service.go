package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/repository"
)

// ActivityService appends to and reads a property's activity history.
type ActivityService interface {
	ListByProperty(ctx context.Context, propertyID string) ([]models.Activity, error)
	// Log records an activity. The date defaults to now and the author to
	// the configured actor.
	Log(ctx context.Context, in *models.ActivityInsert) (*models.Activity, error)
}

type activityService struct {
	repo repository.ActivityRepository
	opts Options
	log  *logger.Logger
}

// NewActivityService creates a new instance of ActivityService.
func NewActivityService(repo repository.ActivityRepository, opts Options) ActivityService {
	opts = opts.withDefaults()
	return &activityService{repo: repo, opts: opts, log: opts.Log.Component("activity")}
}

func (s *activityService) ListByProperty(ctx context.Context, propertyID string) ([]models.Activity, error) {
	activity, err := s.repo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return activity, nil
}

func (s *activityService) Log(ctx context.Context, in *models.ActivityInsert) (*models.Activity, error) {
	if err := s.opts.validate(in); err != nil {
		return nil, err
	}

	a := &models.Activity{
		PropertyID:   in.PropertyID,
		ActivityType: in.ActivityType,
		FollowUpDate: in.FollowUpDate,
		Outcome:      in.Outcome,
		Method:       in.Method,
		ContactUsed:  in.ContactUsed,
		Notes:        in.Notes,
		CreatedBy:    in.CreatedBy,
	}
	if in.ActivityDate != nil {
		a.ActivityDate = in.ActivityDate.UTC()
	}
	if a.CreatedBy == "" {
		a.CreatedBy = s.opts.Actor
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		s.log.Error("Failed to log activity", err, logger.Fields{
			"property_id":   in.PropertyID,
			"activity_type": in.ActivityType,
		})
		return nil, missingParent(fmt.Errorf("failed to log activity: %w", err), ErrPropertyNotFound)
	}

	s.log.Debug("Activity logged", logger.Fields{
		"property_id":   created.PropertyID,
		"activity_type": created.ActivityType,
	})
	return created, nil
}
