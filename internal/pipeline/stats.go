package pipeline

import "github.com/stwalsh4118/dirtboard/internal/models"

// Stats summarizes a property list for the dashboard.
// Qualified + Disqualified + Active always equals Total.
type Stats struct {
	ByStatus             map[models.PropertyStatus]int `json:"by_status"`
	ByCounty             map[string]int                `json:"by_county"`
	Total                int                           `json:"total"`
	Qualified            int                           `json:"qualified"`
	Disqualified         int                           `json:"disqualified"`
	Active               int                           `json:"active"`
	EstimatedValue       float64                       `json:"estimated_value"`
	AverageMarginPercent float64                       `json:"average_margin_percent"`
}

// ComputeStats aggregates properties. Status and county keys with a zero
// count are absent. Every status other than qualified and disqualified counts
// as active. EstimatedValue sums the estimated retail value of properties
// that are not disqualified; AverageMarginPercent averages their non-zero
// margins.
func ComputeStats(properties []models.Property) Stats {
	stats := Stats{
		ByStatus: make(map[models.PropertyStatus]int),
		ByCounty: make(map[string]int),
		Total:    len(properties),
	}

	var marginSum float64
	var margins int
	for _, p := range properties {
		stats.ByStatus[p.Status]++
		stats.ByCounty[p.County]++

		switch p.Status {
		case models.StatusQualified:
			stats.Qualified++
		case models.StatusDisqualified:
			stats.Disqualified++
			continue
		default:
			stats.Active++
		}

		stats.EstimatedValue += models.Float(p.EstimatedRetailValue)
		if m := models.Float(p.EstimatedMarginPercent); m != 0 {
			marginSum += m
			margins++
		}
	}

	if margins > 0 {
		stats.AverageMarginPercent = marginSum / float64(margins)
	}
	return stats
}
