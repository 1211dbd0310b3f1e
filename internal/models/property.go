package models

import (
	"database/sql/driver"
	"time"
)

// LienDetail is one recorded lien against a parcel.
type LienDetail struct {
	Type   string  `json:"type"`
	Holder string  `json:"holder"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// LienDetails is persisted as a JSON array.
type LienDetails []LienDetail

// Scan implements sql.Scanner.
func (l *LienDetails) Scan(value interface{}) error {
	var out []LienDetail
	if err := scanJSON(value, &out, "lien details"); err != nil {
		return err
	}
	*l = out
	return nil
}

// Value implements driver.Valuer. A nil list is stored as NULL.
func (l LienDetails) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return jsonValue([]LienDetail(l), "lien details")
}

// PropertyDetails holds every optional property attribute. All fields are
// pointers so that NULL and "not supplied" are distinguishable from zero.
type PropertyDetails struct {
	Source *string `json:"source,omitempty"`

	// Location
	Address          *string       `json:"address,omitempty"`
	City             *string       `json:"city,omitempty"`
	Zip              *string       `json:"zip,omitempty"`
	Subdivision      *string       `json:"subdivision,omitempty"`
	LegalDescription *string       `json:"legal_description,omitempty"`
	Boundary         *MultiPolygon `json:"boundary,omitempty"`

	// Size and assessed value
	Acreage          *float64      `json:"acreage,omitempty" validate:"omitempty,gte=0"`
	ImprovementValue *float64      `json:"improvement_value,omitempty" validate:"omitempty,gte=0"`
	LandValue        *float64      `json:"land_value,omitempty" validate:"omitempty,gte=0"`
	MarketValue      *float64      `json:"market_value,omitempty" validate:"omitempty,gte=0"`
	DORCode          *string       `json:"dor_code,omitempty"`
	Zoning           *string       `json:"zoning,omitempty"`
	PropertyType     *PropertyType `json:"property_type,omitempty" validate:"omitempty,property_type"`

	// Qualification checks
	HasHOA            *bool    `json:"has_hoa,omitempty"`
	HOAFee            *float64 `json:"hoa_fee,omitempty" validate:"omitempty,gte=0"`
	FloodZone         *string  `json:"flood_zone,omitempty"`
	HasRoadAccess     *bool    `json:"has_road_access,omitempty"`
	RoadType          *string  `json:"road_type,omitempty"`
	HasPowerAtRoad    *bool    `json:"has_power_at_road,omitempty"`
	IsLandlocked      *bool    `json:"is_landlocked,omitempty"`
	HasWetlands       *bool    `json:"has_wetlands,omitempty"`
	AllowsMobileHomes *bool    `json:"allows_mobile_homes,omitempty"`

	// Tax status
	TaxStatus         *TaxStatus `json:"tax_status,omitempty" validate:"omitempty,tax_status"`
	AnnualTaxes       *float64   `json:"annual_taxes,omitempty" validate:"omitempty,gte=0"`
	TaxesOwed         *float64   `json:"taxes_owed,omitempty" validate:"omitempty,gte=0"`
	YearsDelinquent   *int       `json:"years_delinquent,omitempty" validate:"omitempty,gte=0"`
	HasTaxCertificate *bool      `json:"has_tax_certificate,omitempty"`
	TaxSaleDate       *time.Time `json:"tax_sale_date,omitempty"`

	// Liens and title
	HasLiens        *bool        `json:"has_liens,omitempty"`
	LienDetails     LienDetails  `json:"lien_details,omitempty"`
	HasMortgage     *bool        `json:"has_mortgage,omitempty"`
	MortgageDetails *string      `json:"mortgage_details,omitempty"`
	TitleStatus     *TitleStatus `json:"title_status,omitempty" validate:"omitempty,title_status"`

	// Motivation indicators
	IsOutOfState             *bool       `json:"is_out_of_state,omitempty"`
	IsInherited              *bool       `json:"is_inherited,omitempty"`
	IsLongTermHolder         *bool       `json:"is_long_term_holder,omitempty"`
	IsTaxDelinquentMotivated *bool       `json:"is_tax_delinquent_motivated,omitempty"`
	SellerType               *SellerType `json:"seller_type,omitempty" validate:"omitempty,seller_type"`

	// Valuation and deal math
	AskingPrice            *float64     `json:"asking_price,omitempty" validate:"omitempty,gte=0"`
	PricePerAcre           *float64     `json:"price_per_acre,omitempty" validate:"omitempty,gte=0"`
	EstimatedRetailValue   *float64     `json:"estimated_retail_value,omitempty" validate:"omitempty,gte=0"`
	TargetOfferPrice       *float64     `json:"target_offer_price,omitempty" validate:"omitempty,gte=0"`
	EstimatedMarginPercent *float64     `json:"estimated_margin_percent,omitempty"`
	DealVerdict            *DealVerdict `json:"deal_verdict,omitempty" validate:"omitempty,deal_verdict"`

	// Offer and deal tracking
	OfferAmount         *float64     `json:"offer_amount,omitempty" validate:"omitempty,gte=0"`
	OfferDate           *time.Time   `json:"offer_date,omitempty"`
	CounterAmount       *float64     `json:"counter_amount,omitempty" validate:"omitempty,gte=0"`
	OfferStatus         *OfferStatus `json:"offer_status,omitempty" validate:"omitempty,offer_status"`
	AcceptedPrice       *float64     `json:"accepted_price,omitempty" validate:"omitempty,gte=0"`
	ClosingDate         *time.Time   `json:"closing_date,omitempty"`
	ActualPurchasePrice *float64     `json:"actual_purchase_price,omitempty" validate:"omitempty,gte=0"`
	SalePrice           *float64     `json:"sale_price,omitempty" validate:"omitempty,gte=0"`
	ActualProfit        *float64     `json:"actual_profit,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

// Columns maps the optional attributes to the properties table.
func (d *PropertyDetails) Columns() []Column {
	return []Column{
		opt("source", &d.Source),
		opt("address", &d.Address),
		opt("city", &d.City),
		opt("zip", &d.Zip),
		opt("subdivision", &d.Subdivision),
		opt("legal_description", &d.LegalDescription),
		opt("boundary", &d.Boundary),
		opt("acreage", &d.Acreage),
		opt("improvement_value", &d.ImprovementValue),
		opt("land_value", &d.LandValue),
		opt("market_value", &d.MarketValue),
		opt("dor_code", &d.DORCode),
		opt("zoning", &d.Zoning),
		opt("property_type", &d.PropertyType),
		opt("has_hoa", &d.HasHOA),
		opt("hoa_fee", &d.HOAFee),
		opt("flood_zone", &d.FloodZone),
		opt("has_road_access", &d.HasRoadAccess),
		opt("road_type", &d.RoadType),
		opt("has_power_at_road", &d.HasPowerAtRoad),
		opt("is_landlocked", &d.IsLandlocked),
		opt("has_wetlands", &d.HasWetlands),
		opt("allows_mobile_homes", &d.AllowsMobileHomes),
		opt("tax_status", &d.TaxStatus),
		opt("annual_taxes", &d.AnnualTaxes),
		opt("taxes_owed", &d.TaxesOwed),
		opt("years_delinquent", &d.YearsDelinquent),
		opt("has_tax_certificate", &d.HasTaxCertificate),
		opt("tax_sale_date", &d.TaxSaleDate),
		opt("has_liens", &d.HasLiens),
		{Name: "lien_details", Dest: &d.LienDetails, Value: d.LienDetails, Set: d.LienDetails != nil},
		opt("has_mortgage", &d.HasMortgage),
		opt("mortgage_details", &d.MortgageDetails),
		opt("title_status", &d.TitleStatus),
		opt("is_out_of_state", &d.IsOutOfState),
		opt("is_inherited", &d.IsInherited),
		opt("is_long_term_holder", &d.IsLongTermHolder),
		opt("is_tax_delinquent_motivated", &d.IsTaxDelinquentMotivated),
		opt("seller_type", &d.SellerType),
		opt("asking_price", &d.AskingPrice),
		opt("price_per_acre", &d.PricePerAcre),
		opt("estimated_retail_value", &d.EstimatedRetailValue),
		opt("target_offer_price", &d.TargetOfferPrice),
		opt("estimated_margin_percent", &d.EstimatedMarginPercent),
		opt("deal_verdict", &d.DealVerdict),
		opt("offer_amount", &d.OfferAmount),
		opt("offer_date", &d.OfferDate),
		opt("counter_amount", &d.CounterAmount),
		opt("offer_status", &d.OfferStatus),
		opt("accepted_price", &d.AcceptedPrice),
		opt("closing_date", &d.ClosingDate),
		opt("actual_purchase_price", &d.ActualPurchasePrice),
		opt("sale_price", &d.SalePrice),
		opt("actual_profit", &d.ActualProfit),
		opt("notes", &d.Notes),
	}
}

// Property is a parcel of land tracked through the acquisition pipeline.
type Property struct {
	CreatedAt              time.Time               `json:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at"`
	DisqualificationReason *DisqualificationReason `json:"disqualification_reason,omitempty"`
	DisqualificationNotes  *string                 `json:"disqualification_notes,omitempty"`
	ID                     string                  `json:"id"`
	ParcelID               string                  `json:"parcel_id"`
	County                 string                  `json:"county"`
	OwnerName              string                  `json:"owner_name"`
	Status                 PropertyStatus          `json:"status"`
	PropertyDetails
	PipelineStage int `json:"pipeline_stage"`
}

// Columns maps every properties column to p, in select order.
func (p *Property) Columns() []Column {
	cols := []Column{
		req("id", &p.ID),
		req("parcel_id", &p.ParcelID),
		req("county", &p.County),
		req("owner_name", &p.OwnerName),
		req("status", &p.Status),
		req("pipeline_stage", &p.PipelineStage),
		opt("disqualification_reason", &p.DisqualificationReason),
		opt("disqualification_notes", &p.DisqualificationNotes),
	}
	cols = append(cols, p.PropertyDetails.Columns()...)
	return append(cols,
		req("created_at", &p.CreatedAt),
		req("updated_at", &p.UpdatedAt),
	)
}

// Str returns the value of an optional string field, or "" when unset.
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Float returns the value of an optional number, or 0 when unset.
func Float(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// PropertyInsert is the payload for creating or upserting a property.
// Status, PipelineStage and PropertyType fall back to the creation defaults.
type PropertyInsert struct {
	DisqualificationReason *DisqualificationReason `json:"disqualification_reason,omitempty" validate:"omitempty,disqualification_reason"`
	DisqualificationNotes  *string                 `json:"disqualification_notes,omitempty"`
	PipelineStage          *int                    `json:"pipeline_stage,omitempty" validate:"omitempty,gte=0"`
	ParcelID               string                  `json:"parcel_id" validate:"required"`
	County                 string                  `json:"county" validate:"required"`
	OwnerName              string                  `json:"owner_name" validate:"required"`
	Status                 PropertyStatus          `json:"status,omitempty" validate:"omitempty,property_status"`
	PropertyDetails
}

// PropertyUpdate is a partial update. Nil fields are left untouched.
type PropertyUpdate struct {
	ParcelID               *string                 `json:"parcel_id,omitempty" validate:"omitempty,min=1"`
	County                 *string                 `json:"county,omitempty" validate:"omitempty,min=1"`
	OwnerName              *string                 `json:"owner_name,omitempty" validate:"omitempty,min=1"`
	Status                 *PropertyStatus         `json:"status,omitempty" validate:"omitempty,property_status"`
	PipelineStage          *int                    `json:"pipeline_stage,omitempty" validate:"omitempty,gte=0"`
	DisqualificationReason *DisqualificationReason `json:"disqualification_reason,omitempty" validate:"omitempty,disqualification_reason"`
	DisqualificationNotes  *string                 `json:"disqualification_notes,omitempty"`
	PropertyDetails

	// ClearDisqualification writes NULL to the disqualification columns.
	// Set when a property leaves the disqualified state.
	ClearDisqualification bool `json:"-"`
}

// Columns returns the assignments carried by the update.
func (u *PropertyUpdate) Columns() []Column {
	cols := []Column{
		opt("parcel_id", &u.ParcelID),
		opt("county", &u.County),
		opt("owner_name", &u.OwnerName),
		opt("status", &u.Status),
		opt("pipeline_stage", &u.PipelineStage),
	}
	if u.ClearDisqualification {
		cols = append(cols,
			Column{Name: "disqualification_reason", Value: nil, Set: true},
			Column{Name: "disqualification_notes", Value: nil, Set: true},
		)
	} else {
		cols = append(cols,
			opt("disqualification_reason", &u.DisqualificationReason),
			opt("disqualification_notes", &u.DisqualificationNotes),
		)
	}
	return SetColumns(append(cols, u.PropertyDetails.Columns()...))
}

// IsEmpty reports whether the update carries no assignments.
func (u *PropertyUpdate) IsEmpty() bool {
	return len(u.Columns()) == 0
}

// PropertyFilters selects the visible subset of an in-memory property list.
// It is also the persisted filter of a saved view.
type PropertyFilters struct {
	Status           []PropertyStatus `json:"status,omitempty" validate:"omitempty,dive,property_status"`
	County           []string         `json:"county,omitempty"`
	Search           string           `json:"search,omitempty"`
	ShowDisqualified bool             `json:"show_disqualified,omitempty"`
}

// PropertyQuery holds the equality predicates the store evaluates itself.
type PropertyQuery struct {
	Status           *PropertyStatus
	County           *string
	ParcelID         *string
	MissingTaxStatus bool
}
