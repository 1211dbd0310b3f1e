// Package validation builds the validator used by the services. Struct
// fields report their json names, and every closed enumeration in models has
// a tag of its own (property_status, buyer_type, ...).
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/dirtboard/internal/models"
)

// enum is satisfied by every typed enumeration in models.
type enum interface {
	~string
	Valid() bool
}

// enumTag builds a validator.Func for the enumeration E. Fields are the
// typed string kinds from models, so the raw string is converted back.
func enumTag[E enum]() validator.Func {
	return func(fl validator.FieldLevel) bool {
		return E(fl.Field().String()).Valid()
	}
}

var enumTags = map[string]validator.Func{
	"property_status":         enumTag[models.PropertyStatus](),
	"disqualification_reason": enumTag[models.DisqualificationReason](),
	"property_type":           enumTag[models.PropertyType](),
	"tax_status":              enumTag[models.TaxStatus](),
	"title_status":            enumTag[models.TitleStatus](),
	"seller_type":             enumTag[models.SellerType](),
	"deal_verdict":            enumTag[models.DealVerdict](),
	"offer_status":            enumTag[models.OfferStatus](),
	"contact_type":            enumTag[models.ContactType](),
	"comp_type":               enumTag[models.CompType](),
	"activity_type":           enumTag[models.ActivityType](),
	"buyer_type":              enumTag[models.BuyerType](),
	"buyer_status":            enumTag[models.BuyerStatus](),
}

// New returns a validator with the enum tags registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	for tag, fn := range enumTags {
		// Registration only fails for an empty tag or nil func.
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

// Tags lists the custom tags New registers.
func Tags() []string {
	tags := make([]string, 0, len(enumTags))
	for tag := range enumTags {
		tags = append(tags, tag)
	}
	return tags
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
