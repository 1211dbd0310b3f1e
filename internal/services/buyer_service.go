package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/stwalsh4118/dirtboard/internal/cache"
	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/pipeline"
	"github.com/stwalsh4118/dirtboard/internal/repository"
)

// BuyerService manages the end buyers that acquired land is sold to.
type BuyerService interface {
	// List returns the cached buyers narrowed by filters.
	List(ctx context.Context, filters models.BuyerFilters, refresh bool) ([]models.Buyer, error)
	Get(ctx context.Context, id string) (*models.Buyer, error)
	// Create defaults the status to active.
	Create(ctx context.Context, in *models.BuyerInsert) (*models.Buyer, error)
	Update(ctx context.Context, id string, u *models.BuyerUpdate) (*models.Buyer, error)
	Delete(ctx context.Context, id string) error
}

type buyerService struct {
	repo repository.BuyerRepository
	list *cache.Collection[models.Buyer]
	opts Options
	log  *logger.Logger
}

// NewBuyerService creates a new instance of BuyerService.
func NewBuyerService(repo repository.BuyerRepository, opts Options) BuyerService {
	opts = opts.withDefaults()
	return &buyerService{
		repo: repo,
		list: cache.New(
			func(b models.Buyer) string { return b.ID },
			func(ctx context.Context) ([]models.Buyer, error) { return repo.List(ctx) },
		),
		opts: opts,
		log:  opts.Log.Component("buyers"),
	}
}

func (s *buyerService) List(ctx context.Context, filters models.BuyerFilters, refresh bool) ([]models.Buyer, error) {
	if filters.BuyerType != "" && !filters.BuyerType.Valid() {
		return nil, fmt.Errorf("%w: unknown buyer type %q", ErrValidation, filters.BuyerType)
	}

	var (
		buyers []models.Buyer
		err    error
	)
	if refresh {
		buyers, err = s.list.Refresh(ctx)
	} else {
		buyers, err = s.list.Items(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load buyers: %w", err)
	}
	return pipeline.FilterBuyers(buyers, filters), nil
}

func (s *buyerService) Get(ctx context.Context, id string) (*models.Buyer, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer: %w", err)
	}
	if b == nil {
		return nil, ErrBuyerNotFound
	}
	return b, nil
}

func (s *buyerService) Create(ctx context.Context, in *models.BuyerInsert) (*models.Buyer, error) {
	if err := s.opts.validate(in); err != nil {
		return nil, err
	}

	b := &models.Buyer{
		Name:         strings.TrimSpace(in.Name),
		BuyerType:    in.BuyerType,
		Status:       in.Status,
		BuyerDetails: in.BuyerDetails,
	}
	if b.Status == "" {
		b.Status = models.BuyerActive
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		s.log.Error("Failed to create buyer", err, logger.Fields{"name": b.Name})
		return nil, fmt.Errorf("failed to create buyer: %w", err)
	}
	s.list.Prepend(*created)
	s.log.Info("Buyer created", logger.Fields{"buyer_id": created.ID, "buyer_type": created.BuyerType})
	return created, nil
}

func (s *buyerService) Update(ctx context.Context, id string, u *models.BuyerUpdate) (*models.Buyer, error) {
	if err := s.opts.validate(u); err != nil {
		return nil, err
	}
	if len(u.Columns()) == 0 {
		return nil, ErrEmptyUpdate
	}

	updated, err := s.repo.Update(ctx, id, u)
	if err != nil {
		return nil, fmt.Errorf("failed to update buyer: %w", err)
	}
	if updated == nil {
		return nil, ErrBuyerNotFound
	}
	s.list.Upsert(*updated)
	return updated, nil
}

func (s *buyerService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete buyer: %w", err)
	}
	if !ok {
		return ErrBuyerNotFound
	}
	s.list.Remove(id)
	return nil
}
