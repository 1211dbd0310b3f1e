package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/dirtboard/internal/metrics"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/pipeline"
	"github.com/stwalsh4118/dirtboard/internal/repository"
)

func ptr[T any](v T) *T { return &v }

type propertyFixture struct {
	props      *MockPropertyRepository
	activities *MockActivityRepository
	reg        *prometheus.Registry
	service    PropertyService
}

func newPropertyFixture() *propertyFixture {
	f := &propertyFixture{
		props:      new(MockPropertyRepository),
		activities: new(MockActivityRepository),
		reg:        prometheus.NewRegistry(),
	}
	f.service = NewPropertyService(f.props, f.activities, Options{
		Metrics: metrics.New(f.reg),
		Actor:   "tester",
	})
	return f
}

func TestPropertyService_Create_AppliesDefaults(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	f.props.On("Create", ctx, mock.MatchedBy(func(p *models.Property) bool {
		return p.Status == models.StatusNew &&
			p.PipelineStage == pipeline.StageInitial &&
			p.PropertyType != nil && *p.PropertyType == models.PropertyTypeRawLand &&
			p.OwnerName == "LAIESKI JOHN EST"
	})).Return(&models.Property{ID: "p1", Status: models.StatusNew, PipelineStage: 1}, nil)

	created, err := f.service.Create(ctx, &models.PropertyInsert{
		ParcelID:  "10-12-27-0000-0010",
		County:    "Putnam",
		OwnerName: "  LAIESKI JOHN EST ",
	})

	require.NoError(t, err)
	assert.Equal(t, "p1", created.ID)
	f.props.AssertExpectations(t)
}

func TestPropertyService_Create_ValidationError(t *testing.T) {
	f := newPropertyFixture()

	_, err := f.service.Create(context.Background(), &models.PropertyInsert{
		ParcelID: "10-12-27",
		County:   "Putnam",
		Status:   "lost_in_the_woods",
	})

	require.ErrorIs(t, err, ErrValidation)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"owner_name", "status"}, fields)
	f.props.AssertNotCalled(t, "Create")
}

func TestPropertyService_Create_DisqualifiedNeedsReason(t *testing.T) {
	f := newPropertyFixture()

	_, err := f.service.Create(context.Background(), &models.PropertyInsert{
		ParcelID:  "p",
		County:    "Putnam",
		OwnerName: "o",
		Status:    models.StatusDisqualified,
	})

	assert.ErrorIs(t, err, pipeline.ErrReasonRequired)
	f.props.AssertNotCalled(t, "Create")
}

func TestPropertyService_Create_DisqualifiedResetsStage(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	f.props.On("Create", ctx, mock.MatchedBy(func(p *models.Property) bool {
		return p.Status == models.StatusDisqualified && p.PipelineStage == pipeline.StageReset
	})).Return(&models.Property{ID: "p1", Status: models.StatusDisqualified}, nil)

	_, err := f.service.Create(ctx, &models.PropertyInsert{
		ParcelID:               "p",
		County:                 "Putnam",
		OwnerName:              "o",
		Status:                 models.StatusDisqualified,
		DisqualificationReason: ptr(models.ReasonFloodZone),
		PipelineStage:          ptr(4),
	})

	require.NoError(t, err)
	f.props.AssertExpectations(t)
}

func TestPropertyService_Create_KeepsGivenStage(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	f.props.On("Create", ctx, mock.MatchedBy(func(p *models.Property) bool {
		return p.Status == models.StatusQualified && p.PipelineStage == 4
	})).Return(&models.Property{ID: "p1", Status: models.StatusQualified, PipelineStage: 4}, nil)

	_, err := f.service.Create(ctx, &models.PropertyInsert{
		ParcelID:      "p",
		County:        "Putnam",
		OwnerName:     "o",
		Status:        models.StatusQualified,
		PipelineStage: ptr(4),
	})

	require.NoError(t, err)
	f.props.AssertExpectations(t)
}

func TestPropertyService_Create_Duplicate(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	f.props.On("Create", ctx, mock.Anything).
		Return(nil, fmt.Errorf("failed to insert property: %w", repository.ErrDuplicate))

	_, err := f.service.Create(ctx, &models.PropertyInsert{ParcelID: "p", County: "Putnam", OwnerName: "o"})
	assert.ErrorIs(t, err, ErrDuplicateProperty)
}

func TestPropertyService_Get_NotFound(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()
	f.props.On("GetByID", ctx, "missing").Return(nil, nil)

	_, err := f.service.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestPropertyService_List_CachesAndFilters(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	first := []models.Property{
		{ID: "a", ParcelID: "A", County: "Putnam", OwnerName: "LAIESKI JOHN EST", Status: models.StatusNew},
		{ID: "b", ParcelID: "B", County: "Clay", OwnerName: "Smith", Status: models.StatusDisqualified},
	}
	second := append(first, models.Property{ID: "c", ParcelID: "C", County: "Putnam", OwnerName: "Jones", Status: models.StatusQualified})

	f.props.On("List", mock.Anything, models.PropertyQuery{}).Return(first, nil).Once()
	f.props.On("List", mock.Anything, models.PropertyQuery{}).Return(second, nil).Once()

	got, err := f.service.List(ctx, models.PropertyFilters{}, false)
	require.NoError(t, err)
	require.Len(t, got, 1, "disqualified hidden by default")
	assert.Equal(t, "a", got[0].ID)

	got, err = f.service.List(ctx, models.PropertyFilters{Search: "laieski", ShowDisqualified: true}, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got, err = f.service.List(ctx, models.PropertyFilters{ShowDisqualified: true}, true)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	f.props.AssertNumberOfCalls(t, "List", 2)
}

func TestPropertyService_List_StoreFailureKeepsCache(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	props := []models.Property{{ID: "a", Status: models.StatusNew}}
	f.props.On("List", mock.Anything, models.PropertyQuery{}).Return(props, nil).Once()
	f.props.On("List", mock.Anything, models.PropertyQuery{}).Return(nil, errors.New("connection reset")).Once()

	_, err := f.service.List(ctx, models.PropertyFilters{}, false)
	require.NoError(t, err)

	_, err = f.service.List(ctx, models.PropertyFilters{}, true)
	require.Error(t, err)

	got, err := f.service.List(ctx, models.PropertyFilters{}, false)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPropertyService_List_InvalidStatusFilter(t *testing.T) {
	f := newPropertyFixture()

	_, err := f.service.List(context.Background(), models.PropertyFilters{Status: []models.PropertyStatus{"bogus"}}, false)
	assert.ErrorIs(t, err, ErrValidation)
	f.props.AssertNotCalled(t, "List")
}

func TestPropertyService_Disqualify(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	current := &models.Property{ID: "p1", Status: models.StatusQualified, PipelineStage: 9}
	f.props.On("GetByID", ctx, "p1").Return(current, nil)
	f.props.On("Update", ctx, "p1", mock.MatchedBy(func(u *models.PropertyUpdate) bool {
		return *u.Status == models.StatusDisqualified &&
			*u.DisqualificationReason == models.ReasonFloodZone &&
			*u.PipelineStage == 0
	})).Return(&models.Property{
		ID:                     "p1",
		Status:                 models.StatusDisqualified,
		DisqualificationReason: ptr(models.ReasonFloodZone),
		PipelineStage:          0,
	}, nil)
	f.activities.On("Create", ctx, mock.MatchedBy(func(a *models.Activity) bool {
		return a.PropertyID == "p1" &&
			a.ActivityType == models.ActivityStatusChange &&
			a.CreatedBy == "tester" &&
			*a.Notes == "Disqualified: flood_zone - AE zone"
	})).Return(&models.Activity{ID: "a1"}, nil)

	updated, err := f.service.Disqualify(ctx, "p1", models.ReasonFloodZone, ptr(" AE zone "))

	require.NoError(t, err)
	assert.Equal(t, models.StatusDisqualified, updated.Status)
	assert.Equal(t, models.ReasonFloodZone, *updated.DisqualificationReason)
	assert.Equal(t, 0, updated.PipelineStage)
	f.props.AssertExpectations(t)
	f.activities.AssertExpectations(t)

	count, err := testutil.GatherAndCount(f.reg, "dirtboard_pipeline_status_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPropertyService_Disqualify_InvalidReason(t *testing.T) {
	f := newPropertyFixture()

	_, err := f.service.Disqualify(context.Background(), "p1", "bad_vibes", nil)

	assert.ErrorIs(t, err, pipeline.ErrInvalidReason)
	f.props.AssertNotCalled(t, "GetByID")
	f.props.AssertNotCalled(t, "Update")
}

func TestPropertyService_Disqualify_NotFound(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()
	f.props.On("GetByID", ctx, "missing").Return(nil, nil)

	_, err := f.service.Disqualify(ctx, "missing", models.ReasonOther, nil)

	assert.ErrorIs(t, err, ErrPropertyNotFound)
	f.props.AssertNotCalled(t, "Update")
}

func TestPropertyService_Qualify_ToleratesActivityFailure(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	f.props.On("GetByID", ctx, "p1").Return(&models.Property{
		ID:                     "p1",
		Status:                 models.StatusDisqualified,
		DisqualificationReason: ptr(models.ReasonOther),
	}, nil)
	f.props.On("Update", ctx, "p1", mock.MatchedBy(func(u *models.PropertyUpdate) bool {
		return *u.Status == models.StatusQualified && u.ClearDisqualification
	})).Return(&models.Property{ID: "p1", Status: models.StatusQualified}, nil)
	f.activities.On("Create", ctx, mock.Anything).Return(nil, errors.New("insert failed"))

	updated, err := f.service.Qualify(ctx, "p1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusQualified, updated.Status)
	assert.Nil(t, updated.DisqualificationReason)
}

func TestPropertyService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("status change clears disqualification", func(t *testing.T) {
		f := newPropertyFixture()
		f.props.On("GetByID", ctx, "p1").Return(&models.Property{ID: "p1", Status: models.StatusDisqualified}, nil)
		f.props.On("Update", ctx, "p1", mock.MatchedBy(func(u *models.PropertyUpdate) bool {
			return u.ClearDisqualification && u.DisqualificationReason == nil
		})).Return(&models.Property{ID: "p1", Status: models.StatusContacted}, nil)

		_, err := f.service.Update(ctx, "p1", &models.PropertyUpdate{
			Status:                 ptr(models.StatusContacted),
			DisqualificationReason: ptr(models.ReasonOther),
		})
		require.NoError(t, err)
		f.props.AssertExpectations(t)
	})

	t.Run("disqualify logs a status change and resets the stage", func(t *testing.T) {
		f := newPropertyFixture()
		f.props.On("GetByID", ctx, "p1").Return(&models.Property{ID: "p1", Status: models.StatusQualified, PipelineStage: 6}, nil)
		f.props.On("Update", ctx, "p1", mock.MatchedBy(func(u *models.PropertyUpdate) bool {
			return *u.Status == models.StatusDisqualified && *u.PipelineStage == pipeline.StageReset
		})).Return(&models.Property{
			ID:                     "p1",
			Status:                 models.StatusDisqualified,
			DisqualificationReason: ptr(models.ReasonFloodZone),
		}, nil)
		f.activities.On("Create", ctx, mock.MatchedBy(func(a *models.Activity) bool {
			return a.PropertyID == "p1" &&
				a.ActivityType == models.ActivityStatusChange &&
				*a.Notes == "Disqualified: flood_zone - AE zone"
		})).Return(&models.Activity{ID: "a1"}, nil).Once()

		_, err := f.service.Update(ctx, "p1", &models.PropertyUpdate{
			Status:                 ptr(models.StatusDisqualified),
			DisqualificationReason: ptr(models.ReasonFloodZone),
			DisqualificationNotes:  ptr("AE zone"),
			PipelineStage:          ptr(7),
		})
		require.NoError(t, err)
		f.props.AssertExpectations(t)
		f.activities.AssertExpectations(t)
	})

	t.Run("qualify logs a status change", func(t *testing.T) {
		f := newPropertyFixture()
		f.props.On("GetByID", ctx, "p1").Return(&models.Property{ID: "p1", Status: models.StatusValuation}, nil)
		f.props.On("Update", ctx, "p1", mock.Anything).Return(&models.Property{ID: "p1", Status: models.StatusQualified}, nil)
		f.activities.On("Create", ctx, mock.MatchedBy(func(a *models.Activity) bool {
			return a.ActivityType == models.ActivityStatusChange && *a.Notes == "Marked as qualified"
		})).Return(&models.Activity{ID: "a1"}, nil).Once()

		_, err := f.service.Update(ctx, "p1", &models.PropertyUpdate{Status: ptr(models.StatusQualified)})
		require.NoError(t, err)
		f.activities.AssertExpectations(t)
	})

	t.Run("same status logs nothing", func(t *testing.T) {
		f := newPropertyFixture()
		f.props.On("GetByID", ctx, "p1").Return(&models.Property{ID: "p1", Status: models.StatusQualified}, nil)
		f.props.On("Update", ctx, "p1", mock.Anything).Return(&models.Property{ID: "p1", Status: models.StatusQualified}, nil)

		_, err := f.service.Update(ctx, "p1", &models.PropertyUpdate{Status: ptr(models.StatusQualified)})
		require.NoError(t, err)
		f.activities.AssertNotCalled(t, "Create")
	})

	t.Run("disqualified without reason", func(t *testing.T) {
		f := newPropertyFixture()
		_, err := f.service.Update(ctx, "p1", &models.PropertyUpdate{Status: ptr(models.StatusDisqualified)})
		assert.ErrorIs(t, err, pipeline.ErrReasonRequired)
	})

	t.Run("reason on an active property", func(t *testing.T) {
		f := newPropertyFixture()
		f.props.On("GetByID", ctx, "p1").Return(&models.Property{ID: "p1", Status: models.StatusNew}, nil)

		_, err := f.service.Update(ctx, "p1", &models.PropertyUpdate{DisqualificationReason: ptr(models.ReasonOther)})
		assert.ErrorIs(t, err, ErrReasonWithoutDisqualification)
		f.props.AssertNotCalled(t, "Update")
	})

	t.Run("empty update", func(t *testing.T) {
		f := newPropertyFixture()
		_, err := f.service.Update(ctx, "p1", &models.PropertyUpdate{})
		assert.ErrorIs(t, err, ErrEmptyUpdate)
	})

	t.Run("plain field update skips the lookup", func(t *testing.T) {
		f := newPropertyFixture()
		f.props.On("Update", ctx, "p1", mock.Anything).Return(&models.Property{ID: "p1"}, nil)

		_, err := f.service.Update(ctx, "p1", &models.PropertyUpdate{
			PropertyDetails: models.PropertyDetails{Notes: ptr("walked the lot")},
		})
		require.NoError(t, err)
		f.props.AssertNotCalled(t, "GetByID")
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newPropertyFixture()
		f.props.On("Update", ctx, "missing", mock.Anything).Return(nil, nil)

		_, err := f.service.Update(ctx, "missing", &models.PropertyUpdate{OwnerName: ptr("x")})
		assert.ErrorIs(t, err, ErrPropertyNotFound)
	})
}

func TestPropertyService_Delete(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	f.props.On("List", mock.Anything, models.PropertyQuery{}).
		Return([]models.Property{{ID: "a"}, {ID: "b"}}, nil).Once()
	f.props.On("Delete", ctx, "a").Return(true, nil)
	f.props.On("Delete", ctx, "missing").Return(false, nil)

	_, err := f.service.List(ctx, models.PropertyFilters{}, false)
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, "a"))
	assert.ErrorIs(t, f.service.Delete(ctx, "missing"), ErrPropertyNotFound)

	got, err := f.service.List(ctx, models.PropertyFilters{}, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestPropertyService_Stats(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	f.props.On("List", mock.Anything, models.PropertyQuery{}).Return([]models.Property{
		{ID: "a", County: "Putnam", Status: models.StatusNew},
		{ID: "b", County: "Putnam", Status: models.StatusQualified},
		{ID: "c", County: "Clay", Status: models.StatusDisqualified},
	}, nil)

	stats, err := f.service.Stats(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Qualified)
	assert.Equal(t, 1, stats.Disqualified)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, map[string]int{"Putnam": 2, "Clay": 1}, stats.ByCounty)

	count, err := testutil.GatherAndCount(f.reg, "dirtboard_pipeline_properties")
	require.NoError(t, err)
	assert.Equal(t, len(models.PropertyStatuses), count)
}

func TestPropertyService_NeedsValidation(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	qualified := models.StatusQualified
	f.props.On("List", ctx, models.PropertyQuery{Status: &qualified, MissingTaxStatus: true}).
		Return([]models.Property{{ID: "q"}}, nil)

	got, err := f.service.NeedsValidation(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	f.props.AssertExpectations(t)
}

func TestPropertyService_FindByParcel(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	_, err := f.service.FindByParcel(ctx, "  ", "")
	assert.ErrorIs(t, err, ErrValidation)

	parcel := "10-12-27"
	county := "Putnam"
	f.props.On("List", ctx, models.PropertyQuery{ParcelID: &parcel, County: &county}).
		Return([]models.Property{{ID: "p"}}, nil)

	got, err := f.service.FindByParcel(ctx, " 10-12-27 ", "Putnam")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPropertyService_Upsert(t *testing.T) {
	f := newPropertyFixture()
	ctx := context.Background()

	f.props.On("Upsert", ctx, mock.MatchedBy(func(p *models.Property) bool {
		return p.ParcelID == "A" && p.County == "Putnam"
	})).Return(&models.Property{ID: "p1"}, nil)

	got, err := f.service.Upsert(ctx, &models.PropertyInsert{ParcelID: "A", County: "Putnam", OwnerName: "o"})
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	f.props.AssertNotCalled(t, "Create")
}
