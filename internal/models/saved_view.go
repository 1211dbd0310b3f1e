package models

import (
	"database/sql/driver"
	"time"
)

// SortDirection orders a saved view.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ViewSort is the persisted sort of a saved view.
type ViewSort struct {
	Column    string        `json:"column" validate:"required"`
	Direction SortDirection `json:"direction" validate:"required,oneof=asc desc"`
}

// Scan implements sql.Scanner.
func (s *ViewSort) Scan(value interface{}) error {
	return scanJSON(value, s, "view sort")
}

// Value implements driver.Valuer.
func (s ViewSort) Value() (driver.Value, error) {
	return jsonValue(s, "view sort")
}

// Scan implements sql.Scanner.
func (f *PropertyFilters) Scan(value interface{}) error {
	return scanJSON(value, f, "view filters")
}

// Value implements driver.Valuer.
func (f PropertyFilters) Value() (driver.Value, error) {
	return jsonValue(f, "view filters")
}

// SavedView is a named, reusable filter and sort over the property list.
type SavedView struct {
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Sort           *ViewSort       `json:"sort,omitempty"`
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Filters        PropertyFilters `json:"filters"`
	VisibleColumns StringList      `json:"visible_columns"`
	DisplayOrder   int             `json:"display_order"`
	IsDefault      bool            `json:"is_default"`
}

func (v *SavedView) Columns() []Column {
	return []Column{
		req("id", &v.ID),
		req("name", &v.Name),
		req("filters", &v.Filters),
		opt("sort", &v.Sort),
		req("visible_columns", &v.VisibleColumns),
		req("is_default", &v.IsDefault),
		req("display_order", &v.DisplayOrder),
		req("created_at", &v.CreatedAt),
		req("updated_at", &v.UpdatedAt),
	}
}

// SavedViewInsert is the payload for creating a view.
type SavedViewInsert struct {
	Sort           *ViewSort       `json:"sort,omitempty"`
	Name           string          `json:"name" validate:"required"`
	Filters        PropertyFilters `json:"filters"`
	VisibleColumns StringList      `json:"visible_columns"`
	DisplayOrder   int             `json:"display_order" validate:"gte=0"`
	IsDefault      bool            `json:"is_default"`
}

// SavedViewUpdate is a partial update. Nil fields are left untouched.
type SavedViewUpdate struct {
	Name           *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Filters        *PropertyFilters `json:"filters,omitempty"`
	Sort           *ViewSort        `json:"sort,omitempty"`
	VisibleColumns *StringList      `json:"visible_columns,omitempty"`
	IsDefault      *bool            `json:"is_default,omitempty"`
	DisplayOrder   *int             `json:"display_order,omitempty" validate:"omitempty,gte=0"`
}

func (u *SavedViewUpdate) Columns() []Column {
	return SetColumns([]Column{
		opt("name", &u.Name),
		opt("filters", &u.Filters),
		opt("sort", &u.Sort),
		opt("visible_columns", &u.VisibleColumns),
		opt("is_default", &u.IsDefault),
		opt("display_order", &u.DisplayOrder),
	})
}
