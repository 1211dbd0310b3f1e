package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/repository"
)

// CompService manages the comparable sales recorded against a property.
type CompService interface {
	ListByProperty(ctx context.Context, propertyID string) ([]models.Comp, error)
	Create(ctx context.Context, in *models.CompInsert) (*models.Comp, error)
	Update(ctx context.Context, id string, u *models.CompUpdate) (*models.Comp, error)
	Delete(ctx context.Context, id string) error
}

type compService struct {
	repo repository.CompRepository
	opts Options
	log  *logger.Logger
}

// NewCompService creates a new instance of CompService.
func NewCompService(repo repository.CompRepository, opts Options) CompService {
	opts = opts.withDefaults()
	return &compService{repo: repo, opts: opts, log: opts.Log.Component("comps")}
}

func (s *compService) ListByProperty(ctx context.Context, propertyID string) ([]models.Comp, error) {
	comps, err := s.repo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comps: %w", err)
	}
	return comps, nil
}

func (s *compService) Create(ctx context.Context, in *models.CompInsert) (*models.Comp, error) {
	if err := s.opts.validate(in); err != nil {
		return nil, err
	}

	c := &models.Comp{PropertyID: in.PropertyID, CompDetails: in.CompDetails}
	fillPricePerAcre(&c.CompDetails)

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		s.log.Error("Failed to add comp", err, logger.Fields{"property_id": in.PropertyID})
		return nil, missingParent(fmt.Errorf("failed to add comp: %w", err), ErrPropertyNotFound)
	}
	return created, nil
}

func (s *compService) Update(ctx context.Context, id string, u *models.CompUpdate) (*models.Comp, error) {
	if err := s.opts.validate(u); err != nil {
		return nil, err
	}
	if len(u.Columns()) == 0 {
		return nil, ErrEmptyUpdate
	}

	updated, err := s.repo.Update(ctx, id, u)
	if err != nil {
		return nil, fmt.Errorf("failed to update comp: %w", err)
	}
	if updated == nil {
		return nil, ErrCompNotFound
	}
	return updated, nil
}

func (s *compService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete comp: %w", err)
	}
	if !ok {
		return ErrCompNotFound
	}
	return nil
}

// fillPricePerAcre derives the price per acre when only price and acreage
// were supplied.
func fillPricePerAcre(d *models.CompDetails) {
	if d.PricePerAcre != nil || d.Price == nil || d.Acreage == nil || *d.Acreage <= 0 {
		return
	}
	ppa := *d.Price / *d.Acreage
	d.PricePerAcre = &ppa
}
