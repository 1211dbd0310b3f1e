package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/dirtboard/internal/database"
	"github.com/stwalsh4118/dirtboard/internal/models"
)

// CompRepository defines the data access operations for comparable sales.
type CompRepository interface {
	// ListByProperty returns a property's comps, most recent comp date first.
	ListByProperty(ctx context.Context, propertyID string) ([]models.Comp, error)
	Create(ctx context.Context, c *models.Comp) (*models.Comp, error)
	// Update returns nil, nil if no comp has the id.
	Update(ctx context.Context, id string, u *models.CompUpdate) (*models.Comp, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type compRepository struct {
	db      *database.Database
	columns string
}

// NewCompRepository creates a new instance of CompRepository.
func NewCompRepository(db *database.Database) CompRepository {
	return &compRepository{db: db, columns: selectList[models.Comp]()}
}

func (r *compRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.Comp, error) {
	comps, err := queryAll[models.Comp](ctx, r.db,
		"SELECT "+r.columns+" FROM comps WHERE property_id = ? ORDER BY comp_date DESC NULLS LAST, created_at DESC", propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comps for property %s: %w", propertyID, err)
	}
	return comps, nil
}

func (r *compRepository) Create(ctx context.Context, c *models.Comp) (*models.Comp, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	query, args := insertStatement("comps", c.Columns(), r.columns)
	created, err := queryOne[models.Comp](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comp for property %s: %w", c.PropertyID, err)
	}
	return created, nil
}

func (r *compRepository) Update(ctx context.Context, id string, u *models.CompUpdate) (*models.Comp, error) {
	set := u.Columns()
	if len(set) == 0 {
		return queryOne[models.Comp](ctx, r.db, "SELECT "+r.columns+" FROM comps WHERE id = ?", id)
	}

	query, args := updateStatement("comps", id, set, r.columns)
	updated, err := queryOne[models.Comp](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update comp %s: %w", id, err)
	}
	return updated, nil
}

func (r *compRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := deleteByID(ctx, r.db, "comps", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete comp %s: %w", id, err)
	}
	return ok, nil
}
