package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/dirtboard/internal/models"
)

// MockPropertyRepository is a mock implementation of PropertyRepository for testing
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) List(ctx context.Context, q models.PropertyQuery) ([]models.Property, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, id string, u *models.PropertyUpdate) (*models.Property, error) {
	args := m.Called(ctx, id, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Upsert(ctx context.Context, p *models.Property) (*models.Property, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockActivityRepository is a mock implementation of ActivityRepository for testing
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.Activity, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

func (m *MockActivityRepository) Create(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Activity), args.Error(1)
}
