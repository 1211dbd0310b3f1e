package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/dirtboard/internal/database"
	"github.com/stwalsh4118/dirtboard/internal/models"
)

// ActivityRepository defines the data access operations for the activity log.
// The log is append-only.
type ActivityRepository interface {
	// ListByProperty returns a property's activity, most recent first.
	ListByProperty(ctx context.Context, propertyID string) ([]models.Activity, error)
	Create(ctx context.Context, a *models.Activity) (*models.Activity, error)
}

type activityRepository struct {
	db      *database.Database
	columns string
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *database.Database) ActivityRepository {
	return &activityRepository{db: db, columns: selectList[models.Activity]()}
}

func (r *activityRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.Activity, error) {
	entries, err := queryAll[models.Activity](ctx, r.db,
		"SELECT "+r.columns+" FROM activity_log WHERE property_id = ? ORDER BY activity_date DESC, created_at DESC", propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity for property %s: %w", propertyID, err)
	}
	return entries, nil
}

func (r *activityRepository) Create(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	if a.ActivityDate.IsZero() {
		a.ActivityDate = now
	}

	query, args := insertStatement("activity_log", a.Columns(), r.columns)
	created, err := queryOne[models.Activity](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s activity for property %s: %w", a.ActivityType, a.PropertyID, err)
	}
	return created, nil
}
