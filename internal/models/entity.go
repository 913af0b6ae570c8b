package models

// EntityCategory is the closed set of entity categories the report
// generator understands. Categories outside the set parse to
// CategoryUnrecognized and are dropped from reports rather than matched
// against the wrong branch.
type EntityCategory string

const (
	CategoryMedication   EntityCategory = "MEDICATION"
	CategoryPHI          EntityCategory = "PROTECTED_HEALTH_INFORMATION"
	CategoryUnrecognized EntityCategory = "UNRECOGNIZED"
)

// ParseEntityCategory maps a raw category string onto the closed set.
func ParseEntityCategory(raw string) EntityCategory {
	switch raw {
	case string(CategoryMedication):
		return CategoryMedication
	case string(CategoryPHI):
		return CategoryPHI
	default:
		return CategoryUnrecognized
	}
}

// EntityTypeName is the only entity type with reporting significance:
// protected health information entities are reported only when their type
// is NAME.
const EntityTypeName = "NAME"

// EntityAttribute is one (type, text) pair nested under an entity, e.g. a
// medication dosage.
type EntityAttribute struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Entity is one classification result from the entity detection service.
// RawCategory keeps the service's original string for logging and for
// detecting malformed records; Category is its parse onto the closed set.
type Entity struct {
	Category    EntityCategory    `json:"-"`
	RawCategory string            `json:"category"`
	Type        string            `json:"type"`
	Text        string            `json:"text"`
	Attributes  []EntityAttribute `json:"attributes,omitempty"`
}
