package importer

// SchoolRecord is the normalized shape of one imported school row.
type SchoolRecord struct {
	ID          string
	Name        string
	Address     string
	CityID      string
	CityName    string
	StateID     string
	StateName   string
	CountryID   string
	CountryName string
	Pincode     string
	Board       string
	Website     string
	Email       string
	Phone       string
	IsVerified  bool
}

// ExplicitID implements Record.
func (r *SchoolRecord) ExplicitID() string { return r.ID }

// NaturalName implements Record.
func (r *SchoolRecord) NaturalName() string { return r.Name }

// Document implements Record.
func (r *SchoolRecord) Document() map[string]interface{} {
	return map[string]interface{}{
		"name":        r.Name,
		"address":     r.Address,
		"cityId":      r.CityID,
		"cityName":    r.CityName,
		"city":        r.CityName,
		"stateId":     r.StateID,
		"stateName":   r.StateName,
		"state":       r.StateName,
		"countryId":   r.CountryID,
		"countryName": r.CountryName,
		"country":     r.CountryName,
		"pincode":     r.Pincode,
		"board":       r.Board,
		"website":     r.Website,
		"email":       r.Email,
		"phone":       r.Phone,
		"isVerified":  r.IsVerified,
	}
}

func validateSchool(raw RawRecord, snap *Snapshot) ValidationResult {
	var errs []string
	cells := raw.Cells

	name := asTrimmedString(cells["name"])
	if name == "" {
		errs = append(errs, "Name is required")
	}

	cityID, cityName := resolveReference(
		snap.Collection(CollectionCities),
		cells["cityId"], cells["cityName"], "City", &errs,
	)
	stateID, stateName := resolveReference(
		snap.Collection(CollectionStates),
		cells["stateId"], cells["stateName"], "State", &errs,
	)
	countryID, countryName := resolveReference(
		snap.Collection(CollectionCountries),
		cells["countryId"], cells["countryName"], "Country", &errs,
	)

	email := asEmail(cells["email"], "Email", &errs)

	if len(errs) > 0 {
		return ValidationResult{Errors: errs}
	}

	return ValidationResult{Data: &SchoolRecord{
		ID:          asTrimmedString(cells["id"]),
		Name:        name,
		Address:     asTrimmedString(cells["address"]),
		CityID:      cityID,
		CityName:    cityName,
		StateID:     stateID,
		StateName:   stateName,
		CountryID:   countryID,
		CountryName: countryName,
		Pincode:     asTrimmedString(cells["pincode"]),
		Board:       asTrimmedString(cells["board"]),
		Website:     asTrimmedString(cells["website"]),
		Email:       email,
		Phone:       asTrimmedString(cells["phone"]),
		IsVerified:  asBoolish(cells["isVerified"]),
	}}
}
