package models

import "slices"

// PropertyStatus is the position of a lead in the acquisition pipeline.
type PropertyStatus string

const (
	StatusNew             PropertyStatus = "new"
	StatusAppraiserReview PropertyStatus = "appraiser_review"
	StatusFloodCheck      PropertyStatus = "flood_check"
	StatusSkipTrace       PropertyStatus = "skip_trace"
	StatusTaxCheck        PropertyStatus = "tax_check"
	StatusLienCheck       PropertyStatus = "lien_check"
	StatusAccessCheck     PropertyStatus = "access_check"
	StatusValuation       PropertyStatus = "valuation"
	StatusQualified       PropertyStatus = "qualified"
	StatusContacted       PropertyStatus = "contacted"
	StatusOfferMade       PropertyStatus = "offer_made"
	StatusUnderContract   PropertyStatus = "under_contract"
	StatusClosedWon       PropertyStatus = "closed_won"
	StatusClosedLost      PropertyStatus = "closed_lost"
	StatusListedForSale   PropertyStatus = "listed_for_sale"
	StatusSold            PropertyStatus = "sold"
	StatusDisqualified    PropertyStatus = "disqualified"
)

// PropertyStatuses lists every status in pipeline order.
var PropertyStatuses = []PropertyStatus{
	StatusNew,
	StatusAppraiserReview,
	StatusFloodCheck,
	StatusSkipTrace,
	StatusTaxCheck,
	StatusLienCheck,
	StatusAccessCheck,
	StatusValuation,
	StatusQualified,
	StatusContacted,
	StatusOfferMade,
	StatusUnderContract,
	StatusClosedWon,
	StatusClosedLost,
	StatusListedForSale,
	StatusSold,
	StatusDisqualified,
}

// Valid reports whether s is a known status.
func (s PropertyStatus) Valid() bool {
	return slices.Contains(PropertyStatuses, s)
}

// DisqualificationReason explains why a lead left active consideration.
type DisqualificationReason string

const (
	ReasonNotRawLand         DisqualificationReason = "not_raw_land"
	ReasonOutlot             DisqualificationReason = "outlot"
	ReasonROW                DisqualificationReason = "row"
	ReasonEasement           DisqualificationReason = "easement"
	ReasonPartialInterest    DisqualificationReason = "partial_interest"
	ReasonTooSmall           DisqualificationReason = "too_small"
	ReasonTooLarge           DisqualificationReason = "too_large"
	ReasonTooExpensive       DisqualificationReason = "too_expensive"
	ReasonHasHOA             DisqualificationReason = "has_hoa"
	ReasonFloodZone          DisqualificationReason = "flood_zone"
	ReasonTaxDeedPending     DisqualificationReason = "tax_deed_pending"
	ReasonExcessiveTaxes     DisqualificationReason = "excessive_taxes"
	ReasonHasLiens           DisqualificationReason = "has_liens"
	ReasonCloudedTitle       DisqualificationReason = "clouded_title"
	ReasonLandlocked         DisqualificationReason = "landlocked"
	ReasonNoUtilities        DisqualificationReason = "no_utilities"
	ReasonWetlands           DisqualificationReason = "wetlands"
	ReasonInsufficientMargin DisqualificationReason = "insufficient_margin"
	ReasonSellerIsFlipper    DisqualificationReason = "seller_is_flipper"
	ReasonOther              DisqualificationReason = "other"
)

// DisqualificationReasons is the closed set of accepted reasons.
var DisqualificationReasons = []DisqualificationReason{
	ReasonNotRawLand,
	ReasonOutlot,
	ReasonROW,
	ReasonEasement,
	ReasonPartialInterest,
	ReasonTooSmall,
	ReasonTooLarge,
	ReasonTooExpensive,
	ReasonHasHOA,
	ReasonFloodZone,
	ReasonTaxDeedPending,
	ReasonExcessiveTaxes,
	ReasonHasLiens,
	ReasonCloudedTitle,
	ReasonLandlocked,
	ReasonNoUtilities,
	ReasonWetlands,
	ReasonInsufficientMargin,
	ReasonSellerIsFlipper,
	ReasonOther,
}

// Valid reports whether r is one of the accepted reasons.
func (r DisqualificationReason) Valid() bool {
	return slices.Contains(DisqualificationReasons, r)
}

// PropertyType classifies what sits on the parcel.
type PropertyType string

const (
	PropertyTypeRawLand    PropertyType = "raw_land"
	PropertyTypeImproved   PropertyType = "improved"
	PropertyTypeMobileHome PropertyType = "mobile_home"
	PropertyTypeUnknown    PropertyType = "unknown"
)

// Valid reports whether t is a known property type.
func (t PropertyType) Valid() bool {
	return slices.Contains([]PropertyType{PropertyTypeRawLand, PropertyTypeImproved, PropertyTypeMobileHome, PropertyTypeUnknown}, t)
}

// TaxStatus is the county tax standing of a parcel.
type TaxStatus string

const (
	TaxStatusCurrent        TaxStatus = "current"
	TaxStatusDelinquent     TaxStatus = "delinquent"
	TaxStatusTaxDeedPending TaxStatus = "tax_deed_pending"
)

// Valid reports whether t is a known tax status.
func (t TaxStatus) Valid() bool {
	return slices.Contains([]TaxStatus{TaxStatusCurrent, TaxStatusDelinquent, TaxStatusTaxDeedPending}, t)
}

// TitleStatus summarizes a title search.
type TitleStatus string

const (
	TitleClear       TitleStatus = "clear"
	TitleHasLiens    TitleStatus = "has_liens"
	TitleHasMortgage TitleStatus = "has_mortgage"
	TitleClouded     TitleStatus = "clouded"
)

func (t TitleStatus) Valid() bool {
	return slices.Contains([]TitleStatus{TitleClear, TitleHasLiens, TitleHasMortgage, TitleClouded}, t)
}

// SellerType describes who holds title.
type SellerType string

const (
	SellerIndividual SellerType = "individual"
	SellerEstate     SellerType = "estate"
	SellerInvestor   SellerType = "investor"
	SellerBank       SellerType = "bank"
	SellerUnknown    SellerType = "unknown"
)

func (t SellerType) Valid() bool {
	return slices.Contains([]SellerType{SellerIndividual, SellerEstate, SellerInvestor, SellerBank, SellerUnknown}, t)
}

// DealVerdict is the outcome of the deal math.
type DealVerdict string

const (
	VerdictGoodDeal DealVerdict = "good_deal"
	VerdictMaybe    DealVerdict = "maybe"
	VerdictPass     DealVerdict = "pass"
)

func (v DealVerdict) Valid() bool {
	return slices.Contains([]DealVerdict{VerdictGoodDeal, VerdictMaybe, VerdictPass}, v)
}

// OfferStatus tracks an outstanding offer.
type OfferStatus string

const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
	OfferCountered OfferStatus = "countered"
	OfferExpired   OfferStatus = "expired"
)

func (s OfferStatus) Valid() bool {
	return slices.Contains([]OfferStatus{OfferPending, OfferAccepted, OfferRejected, OfferCountered, OfferExpired}, s)
}

// ContactType is the channel a contact value belongs to.
type ContactType string

const (
	ContactPhone          ContactType = "phone"
	ContactEmail          ContactType = "email"
	ContactMailingAddress ContactType = "mailing_address"
)

func (t ContactType) Valid() bool {
	return slices.Contains([]ContactType{ContactPhone, ContactEmail, ContactMailingAddress}, t)
}

// CompType distinguishes sold comps from listings.
type CompType string

const (
	CompSold          CompType = "sold"
	CompActiveListing CompType = "active_listing"
	CompPending       CompType = "pending"
)

func (t CompType) Valid() bool {
	return slices.Contains([]CompType{CompSold, CompActiveListing, CompPending}, t)
}

// ActivityType enumerates activity log entries.
type ActivityType string

const (
	ActivityCall         ActivityType = "call"
	ActivityText         ActivityType = "text"
	ActivityEmail        ActivityType = "email"
	ActivityMail         ActivityType = "mail"
	ActivityVoicemail    ActivityType = "voicemail"
	ActivitySiteVisit    ActivityType = "site_visit"
	ActivityResearch     ActivityType = "research"
	ActivityStatusChange ActivityType = "status_change"
	ActivityOffer        ActivityType = "offer"
	ActivityNote         ActivityType = "note"
)

func (t ActivityType) Valid() bool {
	return slices.Contains([]ActivityType{
		ActivityCall, ActivityText, ActivityEmail, ActivityMail, ActivityVoicemail,
		ActivitySiteVisit, ActivityResearch, ActivityStatusChange, ActivityOffer, ActivityNote,
	}, t)
}

// BuyerType classifies an end buyer.
type BuyerType string

const (
	BuyerBuilder    BuyerType = "builder"
	BuyerInvestor   BuyerType = "investor"
	BuyerAgent      BuyerType = "agent"
	BuyerWholesaler BuyerType = "wholesaler"
	BuyerOther      BuyerType = "other"
)

// BuyerTypes lists buyer types in display order.
var BuyerTypes = []BuyerType{BuyerBuilder, BuyerInvestor, BuyerAgent, BuyerWholesaler, BuyerOther}

func (t BuyerType) Valid() bool {
	return slices.Contains(BuyerTypes, t)
}

// BuyerStatus is the relationship state with a buyer.
type BuyerStatus string

const (
	BuyerActive    BuyerStatus = "active"
	BuyerContacted BuyerStatus = "contacted"
	BuyerWorking   BuyerStatus = "working"
	BuyerInactive  BuyerStatus = "inactive"
)

func (s BuyerStatus) Valid() bool {
	return slices.Contains([]BuyerStatus{BuyerActive, BuyerContacted, BuyerWorking, BuyerInactive}, s)
}
