package models

import "time"

// CompDetails holds the editable attributes of a comparable sale.
type CompDetails struct {
	Address      *string    `json:"address,omitempty"`
	County       *string    `json:"county,omitempty"`
	Subdivision  *string    `json:"subdivision,omitempty"`
	Acreage      *float64   `json:"acreage,omitempty" validate:"omitempty,gte=0"`
	Price        *float64   `json:"price,omitempty" validate:"omitempty,gte=0"`
	PricePerAcre *float64   `json:"price_per_acre,omitempty" validate:"omitempty,gte=0"`
	CompType     *CompType  `json:"comp_type,omitempty" validate:"omitempty,comp_type"`
	CompDate     *time.Time `json:"comp_date,omitempty"`
	CompSource   *string    `json:"comp_source,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// Columns maps the editable attributes to the comps table.
func (d *CompDetails) Columns() []Column {
	return []Column{
		opt("address", &d.Address),
		opt("county", &d.County),
		opt("subdivision", &d.Subdivision),
		opt("acreage", &d.Acreage),
		opt("price", &d.Price),
		opt("price_per_acre", &d.PricePerAcre),
		opt("comp_type", &d.CompType),
		opt("comp_date", &d.CompDate),
		opt("comp_source", &d.CompSource),
		opt("notes", &d.Notes),
	}
}

// Comp is a comparable sale or listing used to value a property.
type Comp struct {
	CreatedAt  time.Time `json:"created_at"`
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	CompDetails
}

func (c *Comp) Columns() []Column {
	cols := []Column{req("id", &c.ID), req("property_id", &c.PropertyID)}
	cols = append(cols, c.CompDetails.Columns()...)
	return append(cols, req("created_at", &c.CreatedAt))
}

// CompInsert is the payload for adding a comp.
type CompInsert struct {
	PropertyID string `json:"property_id" validate:"required"`
	CompDetails
}

// CompUpdate is a partial update. Nil fields are left untouched.
type CompUpdate struct {
	CompDetails
}

func (u *CompUpdate) Columns() []Column {
	return SetColumns(u.CompDetails.Columns())
}
