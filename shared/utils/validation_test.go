package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	ok, err := ValidateEmail("orders@acme.example")
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = ValidateEmail("not-an-email")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestParsePositiveInt(t *testing.T) {
	assert.Equal(t, 10, ParsePositiveInt("", 10))
	assert.Equal(t, 10, ParsePositiveInt("abc", 10))
	assert.Equal(t, 10, ParsePositiveInt("-3", 10))
	assert.Equal(t, 4, ParsePositiveInt("4", 10))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseID("0")
	assert.Error(t, err)
	_, err = ParseID("x1")
	assert.Error(t, err)
}
