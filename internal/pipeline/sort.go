package pipeline

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/stwalsh4118/dirtboard/internal/models"
)

// sortKeys maps a sortable column to a comparison of two properties.
// Absent optional values sort before present ones in ascending order.
var sortKeys = map[string]func(a, b *models.Property) int{
	"parcel_id":      func(a, b *models.Property) int { return cmp.Compare(a.ParcelID, b.ParcelID) },
	"owner_name":     func(a, b *models.Property) int { return cmp.Compare(strings.ToLower(a.OwnerName), strings.ToLower(b.OwnerName)) },
	"county":         func(a, b *models.Property) int { return cmp.Compare(a.County, b.County) },
	"status":         func(a, b *models.Property) int { return cmp.Compare(statusRank(a.Status), statusRank(b.Status)) },
	"pipeline_stage": func(a, b *models.Property) int { return cmp.Compare(a.PipelineStage, b.PipelineStage) },
	"acreage":        func(a, b *models.Property) int { return compareOpt(a.Acreage, b.Acreage) },
	"market_value":   func(a, b *models.Property) int { return compareOpt(a.MarketValue, b.MarketValue) },
	"asking_price":   func(a, b *models.Property) int { return compareOpt(a.AskingPrice, b.AskingPrice) },
	"created_at":     func(a, b *models.Property) int { return compareTime(a.CreatedAt, b.CreatedAt) },
	"updated_at":     func(a, b *models.Property) int { return compareTime(a.UpdatedAt, b.UpdatedAt) },
}

// IsSortable reports whether column can order a property list.
func IsSortable(column string) bool {
	_, ok := sortKeys[column]
	return ok
}

// SortProperties returns a copy of properties ordered by s. A nil sort or an
// unknown column returns the input order. The sort is stable.
func SortProperties(properties []models.Property, s *models.ViewSort) []models.Property {
	out := append(make([]models.Property, 0, len(properties)), properties...)
	if s == nil {
		return out
	}
	key, ok := sortKeys[s.Column]
	if !ok {
		return out
	}

	slices.SortStableFunc(out, func(a, b models.Property) int {
		c := key(&a, &b)
		if s.Direction == models.SortDesc {
			return -c
		}
		return c
	})
	return out
}

func statusRank(s models.PropertyStatus) int {
	return slices.Index(models.PropertyStatuses, s)
}

func compareOpt(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}
