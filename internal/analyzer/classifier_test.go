package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmarco/medtextanalyze/internal/models"
	"github.com/getmarco/medtextanalyze/pkg/logger"
)

func medication(text string, attrs ...models.EntityAttribute) models.Entity {
	return models.Entity{
		Category:    models.CategoryMedication,
		RawCategory: string(models.CategoryMedication),
		Text:        text,
		Attributes:  attrs,
	}
}

func phi(entityType, text string) models.Entity {
	return models.Entity{
		Category:    models.CategoryPHI,
		RawCategory: string(models.CategoryPHI),
		Type:        entityType,
		Text:        text,
	}
}

func TestClassifyReport(t *testing.T) {
	classifier := NewEntityClassifier(logger.NewTestLogger())
	entities := []models.Entity{
		medication("Aspirin", models.EntityAttribute{Type: "DOSAGE", Text: "81mg"}),
		phi("NAME", "Jane Doe"),
		{Category: models.CategoryUnrecognized, RawCategory: "TEST_TREATMENT_PROCEDURE", Type: "TEST_NAME", Text: "ignored"},
	}

	report, err := classifier.Classify(entities)
	require.NoError(t, err)
	assert.Equal(t, "Medication: Aspirin\ndosage: 81mg\n-----\nPHI - name: Jane Doe\n-----\n", report)
	assert.NotContains(t, report, "ignored")
}

func TestClassifyIsDeterministic(t *testing.T) {
	classifier := NewEntityClassifier(logger.NewTestLogger())
	entities := []models.Entity{
		medication("Metformin",
			models.EntityAttribute{Type: "DOSAGE", Text: "500mg"},
			models.EntityAttribute{Type: "FREQUENCY", Text: "twice daily"},
		),
		phi("NAME", "John Smith"),
	}

	first, err := classifier.Classify(entities)
	require.NoError(t, err)
	second, err := classifier.Classify(entities)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClassifyMedicationWithoutAttributes(t *testing.T) {
	classifier := NewEntityClassifier(logger.NewTestLogger())

	report, err := classifier.Classify([]models.Entity{medication("Ibuprofen")})
	require.NoError(t, err)
	assert.Equal(t, "Medication: Ibuprofen\n-----\n", report)
}

func TestClassifyAttributeTypesLowercased(t *testing.T) {
	classifier := NewEntityClassifier(logger.NewTestLogger())

	report, err := classifier.Classify([]models.Entity{
		medication("Aspirin",
			models.EntityAttribute{Type: "DOSAGE", Text: "81mg"},
			models.EntityAttribute{Type: "ROUTE_OR_MODE", Text: "oral"},
		),
	})
	require.NoError(t, err)
	assert.Equal(t, "Medication: Aspirin\ndosage: 81mg\nroute_or_mode: oral\n-----\n", report)
}

func TestClassifyPHISkipsNonNameTypes(t *testing.T) {
	classifier := NewEntityClassifier(logger.NewTestLogger())

	report, err := classifier.Classify([]models.Entity{
		phi("ADDRESS", "12 Main St"),
		phi("AGE", "47"),
		phi("NAME", "Jane Doe"),
	})
	require.NoError(t, err)
	assert.Equal(t, "PHI - name: Jane Doe\n-----\n", report)
}

func TestClassifyMissingCategoryFails(t *testing.T) {
	classifier := NewEntityClassifier(logger.NewTestLogger())

	_, err := classifier.Classify([]models.Entity{
		medication("Aspirin"),
		{RawCategory: "", Text: "broken"},
	})
	require.Error(t, err)

	var malformed *MalformedEntityError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.Index)
	assert.Equal(t, "missing category", malformed.Reason)
}

func TestClassifyPHIMissingTypeFails(t *testing.T) {
	classifier := NewEntityClassifier(logger.NewTestLogger())

	_, err := classifier.Classify([]models.Entity{phi("", "Jane Doe")})
	require.Error(t, err)

	var malformed *MalformedEntityError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "missing type", malformed.Reason)
}

func TestClassifyUnrecognizedCategoryDroppedAndLogged(t *testing.T) {
	log := logger.NewTestLogger()
	classifier := NewEntityClassifier(log)

	report, err := classifier.Classify([]models.Entity{
		{Category: models.CategoryUnrecognized, RawCategory: "ANATOMY", Text: "left arm"},
	})
	require.NoError(t, err)
	assert.Empty(t, report)
	require.Len(t, log.Entries(), 1)
	assert.Equal(t, "DEBUG", log.Entries()[0].Level)
}

func TestClassifyEmptyInput(t *testing.T) {
	classifier := NewEntityClassifier(logger.NewTestLogger())

	report, err := classifier.Classify(nil)
	require.NoError(t, err)
	assert.Empty(t, report)
}
