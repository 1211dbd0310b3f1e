package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/dirtboard/internal/database"
	"github.com/stwalsh4118/dirtboard/internal/models"
)

// PropertyRepository defines the data access operations for properties.
type PropertyRepository interface {
	// List returns the properties matching q, newest first.
	// Returns an empty slice if nothing matches (not an error).
	List(ctx context.Context, q models.PropertyQuery) ([]models.Property, error)

	// GetByID returns nil, nil if no property has the id.
	GetByID(ctx context.Context, id string) (*models.Property, error)

	// Create inserts p and returns the stored row. A blank id is generated.
	Create(ctx context.Context, p *models.Property) (*models.Property, error)

	// Update writes only the columns u carries and returns the stored row,
	// or nil, nil if no property has the id.
	Update(ctx context.Context, id string, u *models.PropertyUpdate) (*models.Property, error)

	// Upsert inserts p, or on a (parcel_id, county) conflict overwrites the
	// existing row with the columns p carries. The existing id is kept.
	Upsert(ctx context.Context, p *models.Property) (*models.Property, error)

	// Delete removes the property and, by cascade, its contacts, comps and
	// activity. Reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

type propertyRepository struct {
	db      *database.Database
	columns string
}

// NewPropertyRepository creates a new instance of PropertyRepository.
func NewPropertyRepository(db *database.Database) PropertyRepository {
	return &propertyRepository{
		db:      db,
		columns: selectList[models.Property](),
	}
}

func (r *propertyRepository) List(ctx context.Context, q models.PropertyQuery) ([]models.Property, error) {
	var where []string
	var args []interface{}

	if q.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *q.Status)
	}
	if q.County != nil {
		where = append(where, "county = ?")
		args = append(args, *q.County)
	}
	if q.ParcelID != nil {
		where = append(where, "parcel_id = ?")
		args = append(args, *q.ParcelID)
	}
	if q.MissingTaxStatus {
		where = append(where, "tax_status IS NULL")
	}

	query := "SELECT " + r.columns + " FROM properties"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	props, err := queryAll[models.Property](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return props, nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	p, err := queryOne[models.Property](ctx, r.db, "SELECT "+r.columns+" FROM properties WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", id, err)
	}
	return p, nil
}

func (r *propertyRepository) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	stamp(p)
	query, args := insertStatement("properties", p.Columns(), r.columns)

	created, err := queryOne[models.Property](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert property %s/%s: %w", p.County, p.ParcelID, err)
	}
	return created, nil
}

func (r *propertyRepository) Update(ctx context.Context, id string, u *models.PropertyUpdate) (*models.Property, error) {
	set := append(u.Columns(), models.Column{Name: "updated_at", Value: time.Now().UTC(), Set: true})
	query, args := updateStatement("properties", id, set, r.columns)

	updated, err := queryOne[models.Property](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update property %s: %w", id, err)
	}
	return updated, nil
}

// upsertKeep lists columns an upsert never overwrites.
var upsertKeep = map[string]bool{"id": true, "parcel_id": true, "county": true, "created_at": true}

// upsertAlways lists nullable columns an upsert always overwrites, so that a
// re-imported row cannot keep a stale disqualification.
var upsertAlways = map[string]bool{"disqualification_reason": true, "disqualification_notes": true}

func (r *propertyRepository) Upsert(ctx context.Context, p *models.Property) (*models.Property, error) {
	stamp(p)
	cols := p.Columns()
	insert, args := insertStatement("properties", cols, r.columns)

	var assignments []string
	for _, c := range cols {
		if upsertKeep[c.Name] || !(c.Set || upsertAlways[c.Name]) {
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%s = excluded.%s", c.Name, c.Name))
	}

	// Splice the conflict clause in ahead of RETURNING.
	returning := " RETURNING " + r.columns
	query := strings.TrimSuffix(insert, returning) +
		" ON CONFLICT (parcel_id, county) DO UPDATE SET " + strings.Join(assignments, ", ") +
		returning

	stored, err := queryOne[models.Property](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert property %s/%s: %w", p.County, p.ParcelID, err)
	}
	return stored, nil
}

func (r *propertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := deleteByID(ctx, r.db, "properties", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	return ok, nil
}

// stamp assigns an id if missing and sets both timestamps to now.
func stamp(p *models.Property) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
}
