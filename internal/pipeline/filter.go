package pipeline

import (
	"slices"
	"strings"

	"github.com/stwalsh4118/dirtboard/internal/models"
)

// FilterProperties returns the properties satisfying every active predicate
// of f, in input order. The input slice is not modified.
//
// Disqualified properties are hidden unless f.ShowDisqualified is set. Empty
// status or county sets do not restrict. The search string is trimmed and,
// when non-empty, matched case-insensitively against the parcel id, owner,
// address, subdivision and notes joined by spaces.
func FilterProperties(properties []models.Property, f models.PropertyFilters) []models.Property {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Property, 0, len(properties))
	for _, p := range properties {
		if !f.ShowDisqualified && p.Status == models.StatusDisqualified {
			continue
		}
		if len(f.Status) > 0 && !slices.Contains(f.Status, p.Status) {
			continue
		}
		if len(f.County) > 0 && !slices.Contains(f.County, p.County) {
			continue
		}
		if search != "" && !strings.Contains(searchText(&p), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// searchText joins the searchable fields of p with single spaces, lower-cased,
// skipping absent ones. The search matches the joined text, so a match may
// span adjacent fields.
func searchText(p *models.Property) string {
	fields := make([]string, 0, 5)
	for _, s := range []string{p.ParcelID, p.OwnerName, models.Str(p.Address), models.Str(p.Subdivision), models.Str(p.Notes)} {
		if s != "" {
			fields = append(fields, s)
		}
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// Options are the distinct values offered by the list filters.
type Options struct {
	Statuses []models.PropertyStatus `json:"statuses"`
	Counties []string                `json:"counties"`
}

// FilterOptions returns the distinct statuses and counties present in
// properties, each in first-seen order.
func FilterOptions(properties []models.Property) Options {
	opts := Options{
		Statuses: []models.PropertyStatus{},
		Counties: []string{},
	}
	for _, p := range properties {
		if !slices.Contains(opts.Statuses, p.Status) {
			opts.Statuses = append(opts.Statuses, p.Status)
		}
		if !slices.Contains(opts.Counties, p.County) {
			opts.Counties = append(opts.Counties, p.County)
		}
	}
	return opts
}

// FilterBuyers narrows buyers by type, county and free-text search. A county
// matches either the buyer's primary county or any of its counties. Search
// covers name, company, phone, email and notes.
func FilterBuyers(buyers []models.Buyer, f models.BuyerFilters) []models.Buyer {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Buyer, 0, len(buyers))
	for _, b := range buyers {
		if f.BuyerType != "" && b.BuyerType != f.BuyerType {
			continue
		}
		if f.County != "" && !servesCounty(&b, f.County) {
			continue
		}
		if search != "" && !buyerMatches(&b, search) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func servesCounty(b *models.Buyer, county string) bool {
	if models.Str(b.County) == county {
		return true
	}
	return b.Counties != nil && slices.Contains(*b.Counties, county)
}

func buyerMatches(b *models.Buyer, search string) bool {
	for _, s := range []string{b.Name, models.Str(b.Company), models.Str(b.Phone), models.Str(b.Email), models.Str(b.Notes)} {
		if strings.Contains(strings.ToLower(s), search) {
			return true
		}
	}
	return false
}
