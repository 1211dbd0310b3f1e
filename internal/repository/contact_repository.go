package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/dirtboard/internal/database"
	"github.com/stwalsh4118/dirtboard/internal/models"
)

// ContactRepository defines the data access operations for contacts.
// Contacts are never edited in place: they are added or removed.
type ContactRepository interface {
	// ListByProperty returns a property's contacts, newest first.
	ListByProperty(ctx context.Context, propertyID string) ([]models.Contact, error)
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type contactRepository struct {
	db      *database.Database
	columns string
}

// NewContactRepository creates a new instance of ContactRepository.
func NewContactRepository(db *database.Database) ContactRepository {
	return &contactRepository{db: db, columns: selectList[models.Contact]()}
}

func (r *contactRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.Contact, error) {
	contacts, err := queryAll[models.Contact](ctx, r.db,
		"SELECT "+r.columns+" FROM contacts WHERE property_id = ? ORDER BY created_at DESC", propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts for property %s: %w", propertyID, err)
	}
	return contacts, nil
}

func (r *contactRepository) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	query, args := insertStatement("contacts", c.Columns(), r.columns)
	created, err := queryOne[models.Contact](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert contact for property %s: %w", c.PropertyID, err)
	}
	return created, nil
}

func (r *contactRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := deleteByID(ctx, r.db, "contacts", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact %s: %w", id, err)
	}
	return ok, nil
}
