package importer

var organizerTypes = []string{"government", "private", "ngo", "international", "other"}

// OrganizerRecord is the normalized shape of one imported organizer row.
type OrganizerRecord struct {
	ID             string
	Name           string
	Address        string
	Website        string
	Email          string
	Phone          string
	Logo           string
	Description    string
	FoundationYear *int
	Type           string
	Visibility     string
	IsVerified     bool
}

// ExplicitID implements Record.
func (r *OrganizerRecord) ExplicitID() string { return r.ID }

// NaturalName implements Record.
func (r *OrganizerRecord) NaturalName() string { return r.Name }

// Document implements Record.
func (r *OrganizerRecord) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"name":        r.Name,
		"address":     r.Address,
		"website":     r.Website,
		"email":       r.Email,
		"phone":       r.Phone,
		"logo":        r.Logo,
		"description": r.Description,
		"type":        r.Type,
		"visibility":  r.Visibility,
		"isVerified":  r.IsVerified,
	}
	if r.FoundationYear != nil {
		doc["foundationYear"] = *r.FoundationYear
	} else {
		doc["foundationYear"] = nil
	}
	return doc
}

func validateOrganizer(raw RawRecord, _ *Snapshot) ValidationResult {
	var errs []string
	cells := raw.Cells

	name := asTrimmedString(cells["name"])
	if name == "" {
		errs = append(errs, "Name is required")
	}

	orgType, ok := asEnum(cells["type"], organizerTypes, "other")
	if !ok {
		errs = append(errs, enumError("Type", organizerTypes))
	}

	visibility, ok := asEnum(cells["visibility"], []string{"public", "private"}, "public")
	if !ok {
		errs = append(errs, "Visibility must be either public or private")
	}

	var foundationYear *int
	if yearCell := asTrimmedString(cells["foundationYear"]); yearCell != "" {
		if value, numeric := asFiniteNumber(yearCell); numeric {
			year := int(value)
			foundationYear = &year
		} else {
			errs = append(errs, "Foundation year must be a number")
		}
	}

	email := asEmail(cells["email"], "Email", &errs)

	if len(errs) > 0 {
		return ValidationResult{Errors: errs}
	}

	return ValidationResult{Data: &OrganizerRecord{
		ID:             asTrimmedString(cells["id"]),
		Name:           name,
		Address:        asTrimmedString(cells["address"]),
		Website:        asTrimmedString(cells["website"]),
		Email:          email,
		Phone:          asTrimmedString(cells["phone"]),
		Logo:           asTrimmedString(cells["logo"]),
		Description:    asTrimmedString(cells["description"]),
		FoundationYear: foundationYear,
		Type:           orgType,
		Visibility:     visibility,
		IsVerified:     asBoolish(cells["isVerified"]),
	}}
}
