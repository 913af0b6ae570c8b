package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	assert.NoError(t, Required("value", "field"))

	err := Required("", "bucket name")
	require.Error(t, err)
	assert.Equal(t, "missing bucket name", err.Error())

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "bucket name", validation.Field)
}

func TestHasLength(t *testing.T) {
	assert.True(t, HasLength("x"))
	assert.False(t, HasLength(""))
}
