package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/dirtboard/internal/models"
)

func ptr[T any](v T) *T { return &v }

func prop(id, parcel, county, owner string, status models.PropertyStatus) models.Property {
	return models.Property{ID: id, ParcelID: parcel, County: county, OwnerName: owner, Status: status, PipelineStage: 1}
}

// fixture is the three-lead scenario: one qualified, one new, one disqualified.
func fixture() []models.Property {
	laieski := prop("1", "12-09-24-0000-0010", "Putnam", "LAIESKI JOHN EST", models.StatusQualified)
	laieski.Address = ptr("123 County Rd 309")
	laieski.EstimatedRetailValue = ptr(30000.0)
	laieski.EstimatedMarginPercent = ptr(60.0)

	blackburn := prop("2", "33-10-25-0000-0020", "Putnam", "BLACKBURN MARY", models.StatusNew)
	blackburn.Subdivision = ptr("Interlachen Lakes Estates")
	blackburn.EstimatedRetailValue = ptr(12000.0)

	simms := prop("3", "44-11-26-0000-0030", "Clay", "SIMMS ROBERT", models.StatusDisqualified)
	simms.DisqualificationReason = ptr(models.ReasonFloodZone)
	simms.PipelineStage = 0
	simms.EstimatedRetailValue = ptr(99000.0)
	simms.EstimatedMarginPercent = ptr(10.0)

	return []models.Property{laieski, blackburn, simms}
}

func ids(props []models.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.ID
	}
	return out
}

func TestFilterProperties_EndToEndScenario(t *testing.T) {
	props := fixture()

	visible := FilterProperties(props, models.PropertyFilters{})
	assert.Equal(t, []string{"1", "2"}, ids(visible))

	stats := ComputeStats(props)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Qualified)
	assert.Equal(t, 1, stats.Disqualified)
	assert.Equal(t, 1, stats.Active)
}

func TestFilterProperties_DisqualifiedHiddenByDefault(t *testing.T) {
	props := fixture()

	assert.NotContains(t, ids(FilterProperties(props, models.PropertyFilters{})), "3")
	assert.Contains(t, ids(FilterProperties(props, models.PropertyFilters{ShowDisqualified: true})), "3")

	onlyDisq := FilterProperties(props, models.PropertyFilters{
		Status: []models.PropertyStatus{models.StatusDisqualified},
	})
	assert.Empty(t, onlyDisq, "status filter does not override the hidden default")
}

func TestFilterProperties_SearchIsCaseInsensitive(t *testing.T) {
	props := fixture()

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "owner lower case", search: "laieski", want: []string{"1"}},
		{name: "address", search: "county rd", want: []string{"1"}},
		{name: "subdivision", search: "INTERLACHEN", want: []string{"2"}},
		{name: "parcel id", search: "33-10", want: []string{"2"}},
		{name: "surrounding whitespace is trimmed", search: "  blackburn ", want: []string{"2"}},
		{name: "whitespace only does not restrict", search: "   ", want: []string{"1", "2"}},
		{name: "no match", search: "nobody", want: []string{}},
		{name: "owner and address are joined", search: "est 123", want: []string{"1"}},
		{name: "absent address is skipped", search: "mary interlachen", want: []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterProperties(props, models.PropertyFilters{Search: tt.search})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterProperties_Conjunction(t *testing.T) {
	props := fixture()
	props = append(props, prop("4", "55", "Clay", "LAIESKI ANNA", models.StatusNew))

	filters := []models.PropertyFilters{
		{},
		{ShowDisqualified: true},
		{Status: []models.PropertyStatus{models.StatusNew}},
		{County: []string{"Clay"}},
		{Search: "laieski"},
		{Status: []models.PropertyStatus{models.StatusNew}, County: []string{"Clay"}},
		{Status: []models.PropertyStatus{models.StatusNew}, County: []string{"Clay"}, Search: "laieski"},
	}

	for _, f := range filters {
		got := FilterProperties(props, f)
		assert.LessOrEqual(t, len(got), len(props))
		for _, p := range got {
			if len(f.Status) > 0 {
				assert.Contains(t, f.Status, p.Status)
			}
			if len(f.County) > 0 {
				assert.Contains(t, f.County, p.County)
			}
			if !f.ShowDisqualified {
				assert.NotEqual(t, models.StatusDisqualified, p.Status)
			}
		}
	}

	// Adding a predicate never grows the result.
	base := FilterProperties(props, models.PropertyFilters{ShowDisqualified: true})
	withCounty := FilterProperties(props, models.PropertyFilters{ShowDisqualified: true, County: []string{"Clay"}})
	withBoth := FilterProperties(props, models.PropertyFilters{ShowDisqualified: true, County: []string{"Clay"}, Search: "laieski"})
	assert.LessOrEqual(t, len(withCounty), len(base))
	assert.LessOrEqual(t, len(withBoth), len(withCounty))
	assert.Equal(t, []string{"4"}, ids(withBoth))
}

func TestFilterProperties_DoesNotMutateInput(t *testing.T) {
	props := fixture()
	before := ids(props)

	_ = FilterProperties(props, models.PropertyFilters{Search: "simms", ShowDisqualified: true})
	assert.Equal(t, before, ids(props))

	assert.Empty(t, FilterProperties(nil, models.PropertyFilters{}))
	assert.NotNil(t, FilterProperties(nil, models.PropertyFilters{}))
}

func TestFilterOptions_FirstSeenOrder(t *testing.T) {
	opts := FilterOptions(fixture())
	assert.Equal(t, []models.PropertyStatus{models.StatusQualified, models.StatusNew, models.StatusDisqualified}, opts.Statuses)
	assert.Equal(t, []string{"Putnam", "Clay"}, opts.Counties)

	empty := FilterOptions(nil)
	assert.NotNil(t, empty.Statuses)
	assert.NotNil(t, empty.Counties)
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(fixture())

	assert.Equal(t, map[models.PropertyStatus]int{
		models.StatusQualified: 1, models.StatusNew: 1, models.StatusDisqualified: 1,
	}, stats.ByStatus)
	assert.Equal(t, map[string]int{"Putnam": 2, "Clay": 1}, stats.ByCounty)
	assert.Equal(t, 42000.0, stats.EstimatedValue, "disqualified value excluded")
	assert.Equal(t, 60.0, stats.AverageMarginPercent, "only non-zero margins of live leads")

	sum := 0
	for _, n := range stats.ByStatus {
		sum += n
	}
	assert.Equal(t, stats.Total, sum)
	assert.Equal(t, stats.Total, stats.Qualified+stats.Disqualified+stats.Active)

	empty := ComputeStats(nil)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.ByStatus)
}

func TestDisqualify_FromQualifiedStageNine(t *testing.T) {
	u, err := Disqualify(models.ReasonFloodZone, ptr("AE zone over whole lot"))
	require.NoError(t, err)

	p := prop("1", "A", "Putnam", "Doe", models.StatusQualified)
	p.PipelineStage = 9
	apply(&p, u)

	assert.Equal(t, models.StatusDisqualified, p.Status)
	assert.Equal(t, models.ReasonFloodZone, *p.DisqualificationReason)
	assert.Equal(t, 0, p.PipelineStage)
	assert.Equal(t, "AE zone over whole lot", *p.DisqualificationNotes)
}

// apply mirrors the store's partial update for the pipeline columns.
func apply(p *models.Property, u *models.PropertyUpdate) {
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.PipelineStage != nil {
		p.PipelineStage = *u.PipelineStage
	}
	if u.ClearDisqualification {
		p.DisqualificationReason = nil
		p.DisqualificationNotes = nil
		return
	}
	if u.DisqualificationReason != nil {
		p.DisqualificationReason = u.DisqualificationReason
	}
	if u.DisqualificationNotes != nil {
		p.DisqualificationNotes = u.DisqualificationNotes
	}
}

func TestDisqualify_RejectsBadReasons(t *testing.T) {
	_, err := Disqualify("", nil)
	assert.ErrorIs(t, err, ErrReasonRequired)

	_, err = Disqualify("too_ugly", nil)
	assert.ErrorIs(t, err, ErrInvalidReason)
}

func TestQualify_ClearsDisqualification(t *testing.T) {
	p := prop("1", "A", "Putnam", "Doe", models.StatusDisqualified)
	p.DisqualificationReason = ptr(models.ReasonOther)

	apply(&p, Qualify())
	assert.Equal(t, models.StatusQualified, p.Status)
	assert.Nil(t, p.DisqualificationReason)
}

func TestNormalizeStatusUpdate(t *testing.T) {
	t.Run("no status is untouched", func(t *testing.T) {
		u := &models.PropertyUpdate{DisqualificationNotes: ptr("x")}
		require.NoError(t, NormalizeStatusUpdate(u))
		assert.False(t, u.ClearDisqualification)
		assert.NotNil(t, u.DisqualificationNotes)
	})

	t.Run("disqualified without reason", func(t *testing.T) {
		u := &models.PropertyUpdate{Status: ptr(models.StatusDisqualified)}
		assert.ErrorIs(t, NormalizeStatusUpdate(u), ErrReasonRequired)
	})

	t.Run("disqualified with invalid reason", func(t *testing.T) {
		u := &models.PropertyUpdate{Status: ptr(models.StatusDisqualified), DisqualificationReason: ptr(models.DisqualificationReason("nope"))}
		assert.ErrorIs(t, NormalizeStatusUpdate(u), ErrInvalidReason)
	})

	t.Run("disqualified resets stage", func(t *testing.T) {
		u := &models.PropertyUpdate{Status: ptr(models.StatusDisqualified), DisqualificationReason: ptr(models.ReasonHasHOA)}
		require.NoError(t, NormalizeStatusUpdate(u))
		assert.Equal(t, StageReset, *u.PipelineStage)
	})

	t.Run("disqualified overrides a given stage", func(t *testing.T) {
		u := &models.PropertyUpdate{
			Status:                 ptr(models.StatusDisqualified),
			DisqualificationReason: ptr(models.ReasonFloodZone),
			PipelineStage:          ptr(7),
		}
		require.NoError(t, NormalizeStatusUpdate(u))
		assert.Equal(t, StageReset, *u.PipelineStage)
	})

	t.Run("other status keeps a given stage", func(t *testing.T) {
		u := &models.PropertyUpdate{Status: ptr(models.StatusContacted), PipelineStage: ptr(5)}
		require.NoError(t, NormalizeStatusUpdate(u))
		assert.Equal(t, 5, *u.PipelineStage)
	})

	t.Run("other status clears reason", func(t *testing.T) {
		u := &models.PropertyUpdate{Status: ptr(models.StatusContacted), DisqualificationReason: ptr(models.ReasonHasHOA)}
		require.NoError(t, NormalizeStatusUpdate(u))
		assert.Nil(t, u.DisqualificationReason)
		assert.True(t, u.ClearDisqualification)
	})
}

func TestIsExpectedTransition(t *testing.T) {
	tests := []struct {
		from, to models.PropertyStatus
		want     bool
	}{
		{models.StatusNew, models.StatusFloodCheck, true},
		{models.StatusFloodCheck, models.StatusTaxCheck, true},
		{models.StatusValuation, models.StatusQualified, true},
		{models.StatusQualified, models.StatusContacted, true},
		{models.StatusUnderContract, models.StatusClosedLost, true},
		{models.StatusClosedWon, models.StatusListedForSale, true},
		{models.StatusListedForSale, models.StatusSold, true},
		{models.StatusOfferMade, models.StatusDisqualified, true},
		{models.StatusNew, models.StatusSold, false},
		{models.StatusSold, models.StatusDisqualified, false},
		{models.StatusDisqualified, models.StatusNew, false},
		{models.StatusNew, models.StatusNew, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsExpectedTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSortProperties(t *testing.T) {
	props := fixture()
	props[0].Acreage = ptr(5.0)
	props[1].Acreage = ptr(1.0)

	byAcreage := SortProperties(props, &models.ViewSort{Column: "acreage", Direction: models.SortDesc})
	assert.Equal(t, []string{"1", "2", "3"}, ids(byAcreage))

	asc := SortProperties(props, &models.ViewSort{Column: "acreage", Direction: models.SortAsc})
	assert.Equal(t, []string{"3", "2", "1"}, ids(asc), "absent values first when ascending")

	byOwner := SortProperties(props, &models.ViewSort{Column: "owner_name", Direction: models.SortAsc})
	assert.Equal(t, []string{"2", "1", "3"}, ids(byOwner))

	assert.Equal(t, ids(props), ids(SortProperties(props, nil)))
	assert.Equal(t, ids(props), ids(SortProperties(props, &models.ViewSort{Column: "bogus"})))
	assert.Equal(t, []string{"1", "2", "3"}, ids(props), "input untouched")
	assert.True(t, IsSortable("status"))
}

func TestFilterBuyers(t *testing.T) {
	acme := models.Buyer{ID: "a", Name: "Acme Homes", BuyerType: models.BuyerBuilder}
	acme.County = ptr("Putnam")
	acme.Email = ptr("buy@acme.test")

	flip := models.Buyer{ID: "b", Name: "Quick Flip LLC", BuyerType: models.BuyerInvestor}
	flip.Counties = &models.StringList{"Clay", "Putnam"}
	flip.Notes = ptr("cash, closes in 7 days")

	other := models.Buyer{ID: "c", Name: "Gulf Land", BuyerType: models.BuyerInvestor}
	other.County = ptr("Marion")

	buyers := []models.Buyer{acme, flip, other}
	names := func(bs []models.Buyer) []string {
		out := []string{}
		for _, b := range bs {
			out = append(out, b.ID)
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c"}, names(FilterBuyers(buyers, models.BuyerFilters{})))
	assert.Equal(t, []string{"b", "c"}, names(FilterBuyers(buyers, models.BuyerFilters{BuyerType: models.BuyerInvestor})))
	assert.Equal(t, []string{"a", "b"}, names(FilterBuyers(buyers, models.BuyerFilters{County: "Putnam"})))
	assert.Equal(t, []string{"b"}, names(FilterBuyers(buyers, models.BuyerFilters{Search: "CASH"})))
	assert.Equal(t, []string{"a"}, names(FilterBuyers(buyers, models.BuyerFilters{Search: "acme.test"})))
}
