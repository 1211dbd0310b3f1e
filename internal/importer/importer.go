// Package importer loads lead spreadsheets exported as CSV. Each row becomes
// one property, upserted on parcel id and county so a sheet can be imported
// again without creating duplicates, followed by the row's contacts.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/metrics"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/services"
)

// Spreadsheet column names.
const (
	ColLeadID            = "Lead_ID"
	ColDateAdded         = "Date_Added"
	ColLeadSource        = "Lead_Source"
	ColStatus            = "Status"
	ColPriority          = "Priority"
	ColOwnerName         = "Owner_Name"
	ColPropertyAddress   = "Property_Address"
	ColParcelID          = "Parcel_ID"
	ColCounty            = "County"
	ColSubdivision       = "Subdivision"
	ColSizeAcres         = "Size_Acres"
	ColMarketValue       = "Market_Value"
	ColAskingPrice       = "Asking_Price"
	ColFloodZone         = "Flood_Zone"
	ColTaxStatus         = "Tax_Status"
	ColContactName       = "Contact_Name"
	ColContactAddress    = "Contact_Address"
	ColContactPhone      = "Contact_Phone"
	ColContactEmail      = "Contact_Email"
	ColLastContactDate   = "Last_Contact_Date"
	ColLastContactMethod = "Last_Contact_Method"
	ColNextFollowUp      = "Next_Follow_Up"
	ColContactAttempts   = "Contact_Attempts"
	ColOfferAmount       = "Offer_Amount"
	ColNotes             = "Notes"
)

// requiredColumns must appear in the header.
var requiredColumns = []string{ColParcelID, ColOwnerName}

const (
	defaultSource   = "probate"
	qualifiedStage  = 4
	defaultStage    = 1
	contactLabel    = "primary"
	heirLabel       = "heir"
	contactSource   = "skip_trace"
	clearTaxStatus  = "clear"
	probateSource   = "probate"
	utf8BOM         = "\uFEFF"
	defaultHomeCode = "FL"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

var statusMap = map[string]models.PropertyStatus{
	"QUALIFIED":    models.StatusQualified,
	"RESEARCH":     models.StatusNew,
	"NEW":          models.StatusNew,
	"CONTACTED":    models.StatusContacted,
	"DISQUALIFIED": models.StatusDisqualified,
}

// MapStatus converts a spreadsheet status to a pipeline status. Unknown
// values map to new.
func MapStatus(s string) models.PropertyStatus {
	if status, ok := statusMap[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return status
	}
	return models.StatusNew
}

// Options configures an Importer.
type Options struct {
	// DefaultCounty is used for rows with a blank county.
	DefaultCounty string
	// HomeState is the two-letter state whose mailing addresses count as local.
	HomeState string
	Log       *logger.Logger
	Metrics   *metrics.Metrics
}

// Importer loads lead rows through the property and contact services.
type Importer struct {
	properties services.PropertyService
	contacts   services.ContactService
	opts       Options
	log        *logger.Logger
}

// New creates an Importer.
func New(properties services.PropertyService, contacts services.ContactService, opts Options) *Importer {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.HomeState == "" {
		opts.HomeState = defaultHomeCode
	}
	opts.HomeState = strings.ToUpper(opts.HomeState)
	return &Importer{
		properties: properties,
		contacts:   contacts,
		opts:       opts,
		log:        opts.Log.Component("importer"),
	}
}

// RowError describes a row that was not imported, or a cell of an imported
// row that was left unset.
type RowError struct {
	Line     int    `json:"line"`
	ParcelID string `json:"parcel_id,omitempty"`
	Message  string `json:"message"`
}

// Result summarizes an import run.
type Result struct {
	Errors          []RowError `json:"errors"`
	Warnings        []RowError `json:"warnings"`
	Rows            int        `json:"rows"`
	Imported        int        `json:"imported"`
	Skipped         int        `json:"skipped"`
	ContactsAdded   int        `json:"contacts_added"`
	ContactFailures int        `json:"contact_failures"`
}

// row gives named access to one record.
type row struct {
	index  map[string]int
	record []string
}

func (r row) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

// Import reads a CSV with a header row from src. A failed property write
// skips the row; a failed contact write is logged and counted. The returned
// error is reserved for an unreadable header or a cancelled context.
func (im *Importer) Import(ctx context.Context, src io.Reader) (*Result, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	result := &Result{Errors: []RowError{}, Warnings: []RowError{}}
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			im.skip(result, line, "", err)
			continue
		}
		if isBlank(record) {
			continue
		}

		result.Rows++
		im.importRow(ctx, result, line, row{index: index, record: record})
	}

	im.log.Info("Import complete", logger.Fields{
		"rows":             result.Rows,
		"imported":         result.Imported,
		"skipped":          result.Skipped,
		"contacts_added":   result.ContactsAdded,
		"contact_failures": result.ContactFailures,
	})
	return result, nil
}

func (im *Importer) importRow(ctx context.Context, result *Result, line int, r row) {
	in, bad := im.propertyFromRow(r)

	stored, err := im.properties.Upsert(ctx, in)
	if err != nil {
		im.skip(result, line, in.ParcelID, err)
		return
	}
	result.Imported++
	im.opts.Metrics.RecordImportRow(metrics.ImportImported)

	for _, msg := range bad {
		result.Warnings = append(result.Warnings, RowError{Line: line, ParcelID: in.ParcelID, Message: msg})
		im.log.Warn("Ignored import cell", logger.Fields{
			"line":      line,
			"parcel_id": in.ParcelID,
			"error":     msg,
		})
	}

	for _, c := range contactsFromRow(r) {
		c.PropertyID = stored.ID
		added, err := im.addContact(ctx, c)
		if err != nil {
			result.ContactFailures++
			im.opts.Metrics.RecordImportRow(metrics.ImportContactFailed)
			im.log.Warn("Failed to import contact", logger.Fields{
				"line":         line,
				"parcel_id":    stored.ParcelID,
				"contact_type": c.ContactType,
				"error":        err.Error(),
			})
			continue
		}
		if added {
			result.ContactsAdded++
		}
	}
}

func (im *Importer) skip(result *Result, line int, parcelID string, err error) {
	result.Skipped++
	result.Errors = append(result.Errors, RowError{Line: line, ParcelID: parcelID, Message: err.Error()})
	im.opts.Metrics.RecordImportRow(metrics.ImportSkipped)
	im.log.Warn("Skipped import row", logger.Fields{
		"line":      line,
		"parcel_id": parcelID,
		"error":     err.Error(),
	})
}

// addContact inserts c unless the property already has a contact of the
// same type and value, so re-imports do not pile up duplicates.
func (im *Importer) addContact(ctx context.Context, c models.ContactInsert) (bool, error) {
	existing, err := im.contacts.ListByProperty(ctx, c.PropertyID)
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if e.ContactType == c.ContactType && e.Value == c.Value {
			return false, nil
		}
	}
	if _, err := im.contacts.Create(ctx, &c); err != nil {
		return false, err
	}
	return true, nil
}

// propertyFromRow maps r to an insert. It also returns a message for each
// amount cell that could not be parsed and was left unset.
func (im *Importer) propertyFromRow(r row) (*models.PropertyInsert, []string) {
	var bad []string
	amount := func(col string) *float64 {
		raw := r.get(col)
		v, err := number(raw)
		if err != nil {
			bad = append(bad, fmt.Sprintf("%s: %q is not a number", col, raw))
		}
		return v
	}

	status := MapStatus(r.get(ColStatus))

	source := strings.ToLower(r.get(ColLeadSource))
	if source == "" {
		source = defaultSource
	}
	county := r.get(ColCounty)
	if county == "" {
		county = im.opts.DefaultCounty
	}

	rawLand := models.PropertyTypeRawLand
	noImprovements := 0.0
	inherited := source == probateSource

	in := &models.PropertyInsert{
		ParcelID:  r.get(ColParcelID),
		County:    county,
		OwnerName: r.get(ColOwnerName),
		Status:    status,
		PropertyDetails: models.PropertyDetails{
			Source:           &source,
			Address:          optional(r.get(ColPropertyAddress)),
			Subdivision:      optional(r.get(ColSubdivision)),
			Acreage:          amount(ColSizeAcres),
			MarketValue:      amount(ColMarketValue),
			AskingPrice:      amount(ColAskingPrice),
			FloodZone:        optional(r.get(ColFloodZone)),
			TargetOfferPrice: amount(ColOfferAmount),
			Notes:            optional(r.get(ColNotes)),
			IsInherited:      &inherited,
			PropertyType:     &rawLand,
			ImprovementValue: &noImprovements,
		},
	}

	if strings.EqualFold(r.get(ColTaxStatus), clearTaxStatus) {
		current := models.TaxStatusCurrent
		in.TaxStatus = &current
	}
	if addr := r.get(ColContactAddress); addr != "" {
		outOfState := !inState(addr, im.opts.HomeState)
		in.IsOutOfState = &outOfState
	}

	switch status {
	case models.StatusDisqualified:
		reason := models.ReasonOther
		in.DisqualificationReason = &reason
	case models.StatusQualified:
		stage := qualifiedStage
		in.PipelineStage = &stage
	default:
		stage := defaultStage
		in.PipelineStage = &stage
	}
	return in, bad
}

// contactsFromRow returns the phone, email and mailing address contacts of a
// row. Rows with no contact name, phone or email yield none.
func contactsFromRow(r row) []models.ContactInsert {
	name := r.get(ColContactName)
	phone := r.get(ColContactPhone)
	email := r.get(ColContactEmail)
	addr := r.get(ColContactAddress)
	if name == "" && phone == "" && email == "" {
		return nil
	}

	source := contactSource
	primary := contactLabel
	heir := heirLabel

	var out []models.ContactInsert
	if phone != "" {
		out = append(out, models.ContactInsert{ContactType: models.ContactPhone, Value: phone, Label: &primary, Source: &source})
	}
	if email != "" {
		out = append(out, models.ContactInsert{ContactType: models.ContactEmail, Value: email, Label: &primary, Source: &source})
	}
	if addr != "" {
		out = append(out, models.ContactInsert{ContactType: models.ContactMailingAddress, Value: name + "\n" + addr, Label: &heir, Source: &source})
	}
	return out
}

// inState reports whether a mailing address names state as a standalone
// token, so "Fleming Island, FL 32003" is in Florida and "Flint, MI" is not.
func inState(addr, state string) bool {
	tokens := strings.FieldsFunc(strings.ToUpper(addr), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, t := range tokens {
		if t == state {
			return true
		}
	}
	return false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// number parses a spreadsheet amount such as "$12,500". A blank cell is
// nil with no error.
func number(s string) (*float64, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
