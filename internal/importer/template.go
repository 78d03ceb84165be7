package importer

// TemplateDefinition captures the downloadable CSV starter for an entity:
// the exact header row the importer expects plus one illustrative data row.
type TemplateDefinition struct {
	Headers []string
	Sample  []string
}

var templateDefinitions = map[Entity]TemplateDefinition{
	EntityOpportunities: {
		Headers: []string{
			"id", "title", "categoryId", "categoryName", "organizerId", "organizerName",
			"organizerLogo", "mode", "status", "gradeEligibility", "registrationDeadline",
			"startDate", "endDate", "fee", "currency", "state", "segments", "description",
			"eligibility", "benefits", "registrationProcess", "image", "contactEmail",
			"contactPhone", "contactWebsite",
		},
		Sample: []string{
			"", "National Science Olympiad", "", "Olympiad", "", "Science Foundation of India",
			"", "online", "draft", "Grades 6-12", "2026-01-15",
			"2026-02-01", "2026-02-01", "150", "INR", "", "School Students", "Annual science olympiad for school students",
			"Open to all students of grades 6-12; School registration required", "Certificates for all participants; Cash prizes for toppers", "Register on the website; Pay the fee; Download admit card", "", "contact@example.org",
			"+91 9000000000", "https://example.org",
		},
	},
	EntitySchools: {
		Headers: []string{
			"id", "name", "address", "cityId", "cityName", "stateId", "stateName",
			"countryId", "countryName", "pincode", "board", "website", "email", "phone",
			"isVerified",
		},
		Sample: []string{
			"", "Springfield Public School", "12 MG Road", "", "Bengaluru", "", "Karnataka",
			"", "India", "560001", "CBSE", "https://springfield.example.edu", "office@springfield.example.edu", "+91 8000000000",
			"false",
		},
	},
	EntityOrganizers: {
		Headers: []string{
			"id", "name", "address", "website", "email", "phone", "logo", "description",
			"foundationYear", "type", "visibility", "isVerified",
		},
		Sample: []string{
			"", "Science Foundation of India", "New Delhi", "https://example.org", "contact@example.org", "+91 9000000000", "", "Non-profit promoting science education",
			"1998", "ngo", "public", "true",
		},
	},
}

// Template returns the CSV template definition for an entity.
func Template(entity Entity) (TemplateDefinition, bool) {
	def, ok := templateDefinitions[entity]
	return def, ok
}
