package importer

// Entity identifies the kind of record being imported. The set is closed;
// adding a new entity means adding a validator, a template and a reference
// declaration here.
type Entity string

const (
	EntityOpportunities Entity = "opportunities"
	EntitySchools       Entity = "schools"
	EntityOrganizers    Entity = "organizers"
)

// Store collection names.
const (
	CollectionOpportunities = "opportunities"
	CollectionSchools       = "schools"
	CollectionOrganizers    = "organizers"
	CollectionCategories    = "categories"
	CollectionSegments      = "segments"
	CollectionCountries     = "countries"
	CollectionStates        = "states"
	CollectionCities        = "cities"
)

// Record is a validated, normalized row ready for persistence.
type Record interface {
	// ExplicitID returns the id column value when the row supplied one.
	ExplicitID() string
	// NaturalName is the field the persistor derives a slug from when no
	// explicit id was supplied.
	NaturalName() string
	// Document renders the store document for this record.
	Document() map[string]interface{}
}

// ValidationResult carries either a normalized record or the list of problems
// found in the row. Data is populated only when Errors is empty.
type ValidationResult struct {
	Data   Record
	Errors []string
}

// Valid reports whether the row may be persisted.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

type definition struct {
	Collection string
	References []string
	Validate   func(raw RawRecord, snap *Snapshot) ValidationResult
}

var definitions = map[Entity]definition{
	EntityOpportunities: {
		Collection: CollectionOpportunities,
		References: []string{CollectionCategories, CollectionOrganizers, CollectionSegments},
		Validate:   validateOpportunity,
	},
	EntitySchools: {
		Collection: CollectionSchools,
		References: []string{CollectionCountries, CollectionStates, CollectionCities},
		Validate:   validateSchool,
	},
	EntityOrganizers: {
		Collection: CollectionOrganizers,
		References: nil,
		Validate:   validateOrganizer,
	},
}

// ParseEntity maps a request path segment onto a supported entity type.
func ParseEntity(raw string) (Entity, bool) {
	entity := Entity(raw)
	_, ok := definitions[entity]
	return entity, ok
}

// Entities lists the supported entity types.
func Entities() []Entity {
	return []Entity{EntityOpportunities, EntitySchools, EntityOrganizers}
}

// Collection returns the target store collection for an entity type.
func Collection(entity Entity) string {
	return definitions[entity].Collection
}

// Validate runs the entity's row validator. It is pure and never panics on
// bad input; all problems come back as human-readable error strings.
func Validate(entity Entity, raw RawRecord, snap *Snapshot) ValidationResult {
	def, ok := definitions[entity]
	if !ok {
		return ValidationResult{Errors: []string{"unsupported entity type"}}
	}
	return def.Validate(raw, snap)
}
