package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/stwalsh4118/dirtboard/internal/cache"
	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/pipeline"
	"github.com/stwalsh4118/dirtboard/internal/repository"
)

// SavedViewService manages saved views and applies them to the property list.
// At most one view is the default: marking a view default clears the flag
// on the others.
type SavedViewService interface {
	List(ctx context.Context) ([]models.SavedView, error)
	Get(ctx context.Context, id string) (*models.SavedView, error)
	Create(ctx context.Context, in *models.SavedViewInsert) (*models.SavedView, error)
	Update(ctx context.Context, id string, u *models.SavedViewUpdate) (*models.SavedView, error)
	Delete(ctx context.Context, id string) error

	// Apply returns the property list filtered and sorted by the view.
	Apply(ctx context.Context, id string, refresh bool) ([]models.Property, error)
}

type savedViewService struct {
	repo       repository.SavedViewRepository
	properties PropertyService
	list       *cache.Collection[models.SavedView]
	opts       Options
	log        *logger.Logger
}

// NewSavedViewService creates a new instance of SavedViewService.
func NewSavedViewService(repo repository.SavedViewRepository, properties PropertyService, opts Options) SavedViewService {
	opts = opts.withDefaults()
	return &savedViewService{
		repo:       repo,
		properties: properties,
		list: cache.New(
			func(v models.SavedView) string { return v.ID },
			func(ctx context.Context) ([]models.SavedView, error) { return repo.List(ctx) },
		),
		opts: opts,
		log:  opts.Log.Component("views"),
	}
}

func (s *savedViewService) List(ctx context.Context) ([]models.SavedView, error) {
	views, err := s.list.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved views: %w", err)
	}
	slices.SortStableFunc(views, func(a, b models.SavedView) int {
		if c := cmp.Compare(a.DisplayOrder, b.DisplayOrder); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return views, nil
}

func (s *savedViewService) Get(ctx context.Context, id string) (*models.SavedView, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get saved view: %w", err)
	}
	if v == nil {
		return nil, ErrViewNotFound
	}
	return v, nil
}

func checkSort(sort *models.ViewSort) error {
	if sort != nil && !pipeline.IsSortable(sort.Column) {
		return fmt.Errorf("%w: %q", ErrUnsortableColumn, sort.Column)
	}
	return nil
}

func (s *savedViewService) Create(ctx context.Context, in *models.SavedViewInsert) (*models.SavedView, error) {
	if err := s.opts.validate(in); err != nil {
		return nil, err
	}
	if err := checkSort(in.Sort); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.SavedView{
		Name:           strings.TrimSpace(in.Name),
		Filters:        in.Filters,
		Sort:           in.Sort,
		VisibleColumns: in.VisibleColumns,
		IsDefault:      in.IsDefault,
		DisplayOrder:   in.DisplayOrder,
	})
	if err != nil {
		s.log.Error("Failed to create saved view", err, logger.Fields{"name": in.Name})
		return nil, fmt.Errorf("failed to create saved view: %w", err)
	}
	s.list.Upsert(*created)

	if created.IsDefault {
		if err := s.clearOtherDefaults(ctx, created.ID); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func (s *savedViewService) Update(ctx context.Context, id string, u *models.SavedViewUpdate) (*models.SavedView, error) {
	if err := s.opts.validate(u); err != nil {
		return nil, err
	}
	if err := checkSort(u.Sort); err != nil {
		return nil, err
	}
	if len(u.Columns()) == 0 {
		return nil, ErrEmptyUpdate
	}

	updated, err := s.repo.Update(ctx, id, u)
	if err != nil {
		return nil, fmt.Errorf("failed to update saved view: %w", err)
	}
	if updated == nil {
		return nil, ErrViewNotFound
	}
	s.list.Upsert(*updated)

	if updated.IsDefault && u.IsDefault != nil {
		if err := s.clearOtherDefaults(ctx, updated.ID); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// clearOtherDefaults unsets is_default on every view except keep.
func (s *savedViewService) clearOtherDefaults(ctx context.Context, keep string) error {
	views, err := s.list.Items(ctx)
	if err != nil {
		return fmt.Errorf("failed to load saved views: %w", err)
	}

	off := false
	for _, v := range views {
		if v.ID == keep || !v.IsDefault {
			continue
		}
		updated, err := s.repo.Update(ctx, v.ID, &models.SavedViewUpdate{IsDefault: &off})
		if err != nil {
			return fmt.Errorf("failed to clear default view %s: %w", v.ID, err)
		}
		if updated != nil {
			s.list.Upsert(*updated)
		}
	}
	return nil
}

func (s *savedViewService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved view: %w", err)
	}
	if !ok {
		return ErrViewNotFound
	}
	s.list.Remove(id)
	return nil
}

func (s *savedViewService) Apply(ctx context.Context, id string, refresh bool) ([]models.Property, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	props, err := s.properties.List(ctx, v.Filters, refresh)
	if err != nil {
		return nil, err
	}
	return pipeline.SortProperties(props, v.Sort), nil
}
