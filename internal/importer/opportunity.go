package importer

import (
	"fmt"
	"strings"
	"time"
)

var (
	opportunityModes    = []string{"online", "offline", "hybrid"}
	opportunityStatuses = []string{"draft", "approved", "published"}
)

// OpportunityRecord is the normalized shape of one imported opportunity row.
type OpportunityRecord struct {
	ID                   string
	Title                string
	CategoryID           string
	CategoryName         string
	OrganizerID          string
	OrganizerName        string
	OrganizerLogo        string
	Mode                 string
	Status               string
	GradeEligibility     string
	RegistrationDeadline *time.Time
	StartDate            *time.Time
	EndDate              *time.Time
	Fee                  string
	Currency             string
	State                string
	Segments             []string
	Description          string
	Eligibility          []string
	Benefits             []string
	RegistrationProcess  []string
	Image                string
	ContactEmail         string
	ContactPhone         string
	ContactWebsite       string
}

// ExplicitID implements Record.
func (r *OpportunityRecord) ExplicitID() string { return r.ID }

// NaturalName implements Record.
func (r *OpportunityRecord) NaturalName() string { return r.Title }

// Document implements Record.
func (r *OpportunityRecord) Document() map[string]interface{} {
	return map[string]interface{}{
		"title":                r.Title,
		"categoryId":           r.CategoryID,
		"categoryName":         r.CategoryName,
		"category":             r.CategoryName,
		"organizerId":          r.OrganizerID,
		"organizerName":        r.OrganizerName,
		"organizer":            r.OrganizerName,
		"organizerLogo":        r.OrganizerLogo,
		"gradeEligibility":     r.GradeEligibility,
		"mode":                 r.Mode,
		"status":               r.Status,
		"fee":                  r.Fee,
		"currency":             r.Currency,
		"state":                r.State,
		"registrationDeadline": dateValue(r.RegistrationDeadline),
		"startDate":            dateValue(r.StartDate),
		"endDate":              dateValue(r.EndDate),
		"segments":             stringSlice(r.Segments),
		"image":                r.Image,
		"description":          r.Description,
		"eligibility":          stringSlice(r.Eligibility),
		"benefits":             stringSlice(r.Benefits),
		"registrationProcess":  stringSlice(r.RegistrationProcess),
		"contactInfo": map[string]interface{}{
			"email":   r.ContactEmail,
			"phone":   r.ContactPhone,
			"website": r.ContactWebsite,
		},
	}
}

func validateOpportunity(raw RawRecord, snap *Snapshot) ValidationResult {
	var errs []string
	cells := raw.Cells

	title := asTrimmedString(cells["title"])
	if title == "" {
		errs = append(errs, "Title is required")
	}

	mode, ok := asEnum(cells["mode"], opportunityModes, "online")
	if !ok {
		errs = append(errs, enumError("Mode", opportunityModes))
	}
	status, ok := asEnum(cells["status"], opportunityStatuses, "draft")
	if !ok {
		errs = append(errs, enumError("Status", opportunityStatuses))
	}

	categoryID, categoryName := resolveReference(
		snap.Collection(CollectionCategories),
		cells["categoryId"], cells["categoryName"], "Category", &errs,
	)
	organizerID, organizerName := resolveReference(
		snap.Collection(CollectionOrganizers),
		cells["organizerId"], cells["organizerName"], "Organizer", &errs,
	)

	registrationDeadline := asDate(cells["registrationDeadline"], "Registration deadline", &errs)
	startDate := asDate(cells["startDate"], "Start date", &errs)
	endDate := asDate(cells["endDate"], "End date", &errs)

	segments := resolveSegments(snap.Collection(CollectionSegments), cells["segments"], &errs)

	contactEmail := asEmail(cells["contactEmail"], "Contact email", &errs)

	if len(errs) > 0 {
		return ValidationResult{Errors: errs}
	}

	return ValidationResult{Data: &OpportunityRecord{
		ID:                   asTrimmedString(cells["id"]),
		Title:                title,
		CategoryID:           categoryID,
		CategoryName:         categoryName,
		OrganizerID:          organizerID,
		OrganizerName:        organizerName,
		OrganizerLogo:        asTrimmedString(cells["organizerLogo"]),
		Mode:                 mode,
		Status:               status,
		GradeEligibility:     asTrimmedString(cells["gradeEligibility"]),
		RegistrationDeadline: registrationDeadline,
		StartDate:            startDate,
		EndDate:              endDate,
		Fee:                  asTrimmedString(cells["fee"]),
		Currency:             strings.ToUpper(asTrimmedString(cells["currency"])),
		State:                asTrimmedString(cells["state"]),
		Segments:             segments,
		Description:          asTrimmedString(cells["description"]),
		Eligibility:          asList(cells["eligibility"]),
		Benefits:             asList(cells["benefits"]),
		RegistrationProcess:  asList(cells["registrationProcess"]),
		Image:                asTrimmedString(cells["image"]),
		ContactEmail:         contactEmail,
		ContactPhone:         asTrimmedString(cells["contactPhone"]),
		ContactWebsite:       asTrimmedString(cells["contactWebsite"]),
	}}
}

// resolveReference resolves an id/name cell pair against a reference lookup.
// The id cell wins when both are present; an unresolved non-empty reference
// is a row error naming the field and the offending value.
func resolveReference(lookup Lookup, idCell, nameCell, fieldName string, errs *[]string) (string, string) {
	value := asTrimmedString(idCell)
	if value == "" {
		value = asTrimmedString(nameCell)
	}
	if value == "" {
		return "", ""
	}
	doc, ok := lookup.Resolve(value)
	if !ok {
		*errs = append(*errs, fmt.Sprintf("%s %q not found", fieldName, value))
		return "", ""
	}
	return doc.ID, CanonicalName(doc)
}

func resolveSegments(lookup Lookup, cell string, errs *[]string) []string {
	values := asList(cell)
	segments := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		doc, ok := lookup.Resolve(value)
		if !ok {
			*errs = append(*errs, fmt.Sprintf("Segment %q is not recognised", value))
			continue
		}
		canonical := CanonicalName(doc)
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		segments = append(segments, canonical)
	}
	return segments
}

func dateValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// stringSlice widens []string for JSON document storage; nil collapses to an
// empty list so merge writes clear stale values instead of skipping the key.
func stringSlice(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
