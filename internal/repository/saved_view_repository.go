package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/dirtboard/internal/database"
	"github.com/stwalsh4118/dirtboard/internal/models"
)

// SavedViewRepository defines the data access operations for saved views.
type SavedViewRepository interface {
	// List returns every view in display order.
	List(ctx context.Context) ([]models.SavedView, error)
	// GetByID returns nil, nil if no view has the id.
	GetByID(ctx context.Context, id string) (*models.SavedView, error)
	Create(ctx context.Context, v *models.SavedView) (*models.SavedView, error)
	// Update returns nil, nil if no view has the id.
	Update(ctx context.Context, id string, u *models.SavedViewUpdate) (*models.SavedView, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type savedViewRepository struct {
	db      *database.Database
	columns string
}

// NewSavedViewRepository creates a new instance of SavedViewRepository.
func NewSavedViewRepository(db *database.Database) SavedViewRepository {
	return &savedViewRepository{db: db, columns: selectList[models.SavedView]()}
}

func (r *savedViewRepository) List(ctx context.Context) ([]models.SavedView, error) {
	views, err := queryAll[models.SavedView](ctx, r.db,
		"SELECT "+r.columns+" FROM saved_views ORDER BY display_order ASC, created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list saved views: %w", err)
	}
	return views, nil
}

func (r *savedViewRepository) GetByID(ctx context.Context, id string) (*models.SavedView, error) {
	v, err := queryOne[models.SavedView](ctx, r.db, "SELECT "+r.columns+" FROM saved_views WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get saved view %s: %w", id, err)
	}
	return v, nil
}

func (r *savedViewRepository) Create(ctx context.Context, v *models.SavedView) (*models.SavedView, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	query, args := insertStatement("saved_views", v.Columns(), r.columns)
	created, err := queryOne[models.SavedView](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert saved view %q: %w", v.Name, err)
	}
	return created, nil
}

func (r *savedViewRepository) Update(ctx context.Context, id string, u *models.SavedViewUpdate) (*models.SavedView, error) {
	set := append(u.Columns(), models.Column{Name: "updated_at", Value: time.Now().UTC(), Set: true})
	query, args := updateStatement("saved_views", id, set, r.columns)

	updated, err := queryOne[models.SavedView](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update saved view %s: %w", id, err)
	}
	return updated, nil
}

func (r *savedViewRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := deleteByID(ctx, r.db, "saved_views", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete saved view %s: %w", id, err)
	}
	return ok, nil
}
