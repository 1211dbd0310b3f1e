package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/dirtboard/internal/database"
	"github.com/stwalsh4118/dirtboard/internal/models"
)

// BuyerRepository defines the data access operations for end buyers.
type BuyerRepository interface {
	// List returns every buyer, newest first.
	List(ctx context.Context) ([]models.Buyer, error)
	// GetByID returns nil, nil if no buyer has the id.
	GetByID(ctx context.Context, id string) (*models.Buyer, error)
	Create(ctx context.Context, b *models.Buyer) (*models.Buyer, error)
	// Update returns nil, nil if no buyer has the id.
	Update(ctx context.Context, id string, u *models.BuyerUpdate) (*models.Buyer, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type buyerRepository struct {
	db      *database.Database
	columns string
}

// NewBuyerRepository creates a new instance of BuyerRepository.
func NewBuyerRepository(db *database.Database) BuyerRepository {
	return &buyerRepository{db: db, columns: selectList[models.Buyer]()}
}

func (r *buyerRepository) List(ctx context.Context) ([]models.Buyer, error) {
	buyers, err := queryAll[models.Buyer](ctx, r.db, "SELECT "+r.columns+" FROM buyers ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list buyers: %w", err)
	}
	return buyers, nil
}

func (r *buyerRepository) GetByID(ctx context.Context, id string) (*models.Buyer, error) {
	b, err := queryOne[models.Buyer](ctx, r.db, "SELECT "+r.columns+" FROM buyers WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer %s: %w", id, err)
	}
	return b, nil
}

func (r *buyerRepository) Create(ctx context.Context, b *models.Buyer) (*models.Buyer, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	query, args := insertStatement("buyers", b.Columns(), r.columns)
	created, err := queryOne[models.Buyer](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert buyer %q: %w", b.Name, err)
	}
	return created, nil
}

func (r *buyerRepository) Update(ctx context.Context, id string, u *models.BuyerUpdate) (*models.Buyer, error) {
	set := append(u.Columns(), models.Column{Name: "updated_at", Value: time.Now().UTC(), Set: true})
	query, args := updateStatement("buyers", id, set, r.columns)

	updated, err := queryOne[models.Buyer](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update buyer %s: %w", id, err)
	}
	return updated, nil
}

func (r *buyerRepository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := deleteByID(ctx, r.db, "buyers", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete buyer %s: %w", id, err)
	}
	return ok, nil
}
