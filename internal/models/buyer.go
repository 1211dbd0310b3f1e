package models

import (
	"database/sql/driver"
	"time"
)

// BuyBox describes what a buyer is looking for.
type BuyBox struct {
	MaxPrice     *int     `json:"max_price,omitempty"`
	MinLotSize   *string  `json:"min_lot_size,omitempty"`
	MaxLotSize   *string  `json:"max_lot_size,omitempty"`
	Requirements *string  `json:"requirements,omitempty"`
	ZipCodes     []string `json:"zip_codes,omitempty"`
}

// Scan implements sql.Scanner.
func (b *BuyBox) Scan(value interface{}) error {
	return scanJSON(value, b, "buy box")
}

// Value implements driver.Valuer.
func (b BuyBox) Value() (driver.Value, error) {
	return jsonValue(b, "buy box")
}

// BuyerDetails holds the optional attributes of a buyer.
type BuyerDetails struct {
	Company  *string     `json:"company,omitempty"`
	County   *string     `json:"county,omitempty"`
	Counties *StringList `json:"counties,omitempty"`
	Phone    *string     `json:"phone,omitempty"`
	Email    *string     `json:"email,omitempty" validate:"omitempty,email"`
	Website  *string     `json:"website,omitempty"`
	Source   *string     `json:"source,omitempty"`
	Notes    *string     `json:"notes,omitempty"`
	BuyBox   *BuyBox     `json:"buy_box,omitempty"`
}

func (d *BuyerDetails) Columns() []Column {
	return []Column{
		opt("company", &d.Company),
		opt("county", &d.County),
		opt("counties", &d.Counties),
		opt("phone", &d.Phone),
		opt("email", &d.Email),
		opt("website", &d.Website),
		opt("source", &d.Source),
		opt("notes", &d.Notes),
		opt("buy_box", &d.BuyBox),
	}
}

// Buyer is an end buyer that acquired land can be sold to.
type Buyer struct {
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	BuyerType BuyerType   `json:"buyer_type"`
	Status    BuyerStatus `json:"status"`
	BuyerDetails
}

func (b *Buyer) Columns() []Column {
	cols := []Column{
		req("id", &b.ID),
		req("name", &b.Name),
		req("buyer_type", &b.BuyerType),
		req("status", &b.Status),
	}
	cols = append(cols, b.BuyerDetails.Columns()...)
	return append(cols, req("created_at", &b.CreatedAt), req("updated_at", &b.UpdatedAt))
}

// BuyerInsert is the payload for creating a buyer. Status defaults to active.
type BuyerInsert struct {
	Name      string      `json:"name" validate:"required"`
	BuyerType BuyerType   `json:"buyer_type" validate:"required,buyer_type"`
	Status    BuyerStatus `json:"status,omitempty" validate:"omitempty,buyer_status"`
	BuyerDetails
}

// BuyerUpdate is a partial update. Nil fields are left untouched.
type BuyerUpdate struct {
	Name      *string      `json:"name,omitempty" validate:"omitempty,min=1"`
	BuyerType *BuyerType   `json:"buyer_type,omitempty" validate:"omitempty,buyer_type"`
	Status    *BuyerStatus `json:"status,omitempty" validate:"omitempty,buyer_status"`
	BuyerDetails
}

func (u *BuyerUpdate) Columns() []Column {
	cols := []Column{
		opt("name", &u.Name),
		opt("buyer_type", &u.BuyerType),
		opt("status", &u.Status),
	}
	return SetColumns(append(cols, u.BuyerDetails.Columns()...))
}

// BuyerFilters narrows the buyer list.
type BuyerFilters struct {
	BuyerType BuyerType `form:"type"`
	County    string    `form:"county"`
	Search    string    `form:"search"`
}
