package analyzer

import (
	"strings"

	"github.com/getmarco/medtextanalyze/internal/models"
	"github.com/getmarco/medtextanalyze/pkg/logger"
)

// reportSeparator closes every non-empty entity emission.
const reportSeparator = "-----\n"

// EntityClassifier renders detected entities into a human-readable report.
// Medication entities expand their attributes; protected health information
// is limited to names; everything else is dropped from the report.
type EntityClassifier struct {
	logger logger.Logger
}

// NewEntityClassifier creates a classifier.
func NewEntityClassifier(log logger.Logger) *EntityClassifier {
	return &EntityClassifier{logger: log}
}

// Classify renders the report in input order. An entity with no category at
// all, or a protected-health-information entity with no type, is malformed
// and fails the whole report; silently coercing it would make category
// matching unpredictable downstream. Re-running Classify on the same input
// yields a byte-identical report.
func (c *EntityClassifier) Classify(entities []models.Entity) (string, error) {
	var b strings.Builder
	for i, entity := range entities {
		if entity.RawCategory == "" {
			return "", &MalformedEntityError{Index: i, Reason: "missing category"}
		}
		switch entity.Category {
		case models.CategoryMedication:
			c.writeMedication(&b, entity)
			b.WriteString(reportSeparator)
		case models.CategoryPHI:
			if entity.Type == "" {
				return "", &MalformedEntityError{Index: i, Reason: "missing type"}
			}
			if entity.Type != models.EntityTypeName {
				continue
			}
			c.writePHI(&b, entity)
			b.WriteString(reportSeparator)
		default:
			// Unrecognized categories fail closed: dropped and logged.
			c.logger.Debug("dropping entity with unrecognized category",
				logger.Int("index", i),
				logger.String("category", entity.RawCategory),
			)
		}
	}
	return b.String(), nil
}

func (c *EntityClassifier) writeMedication(b *strings.Builder, entity models.Entity) {
	b.WriteString("Medication: ")
	b.WriteString(entity.Text)
	b.WriteString("\n")
	for _, attr := range entity.Attributes {
		b.WriteString(strings.ToLower(attr.Type))
		b.WriteString(": ")
		b.WriteString(attr.Text)
		b.WriteString("\n")
	}
}

func (c *EntityClassifier) writePHI(b *strings.Builder, entity models.Entity) {
	b.WriteString("PHI - ")
	b.WriteString(strings.ToLower(entity.Type))
	b.WriteString(": ")
	b.WriteString(entity.Text)
	b.WriteString("\n")
}
