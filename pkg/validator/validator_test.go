package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createForm struct {
	Line1   string `json:"line1" validate:"required,min=1"`
	State   string `json:"state" validate:"required,min=1"`
	Zip     string `json:"zip" validate:"required,min=3"`
	Country string `json:"country" validate:"required,min=2"`
}

type updateForm struct {
	ID    string  `json:"id" validate:"required,uuid"`
	Line1 *string `json:"line1" validate:"omitempty,min=1"`
	Zip   *string `json:"zip" validate:"omitempty,min=3"`
}

func TestValidate_Success(t *testing.T) {
	form := createForm{Line1: "123 Main St", State: "NY", Zip: "10001", Country: "USA"}
	assert.NoError(t, Validate(form))
}

func TestValidate_MissingRequired_UsesJSONName(t *testing.T) {
	form := createForm{State: "NY", Zip: "10001", Country: "USA"}
	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "Field 'line1' is required", valErr.First())
}

func TestValidate_FirstErrorWins(t *testing.T) {
	// Both line1 and zip are invalid; only the first (struct field order)
	// is surfaced.
	form := createForm{State: "NY", Zip: "1", Country: "USA"}
	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "Field 'line1' is required", valErr.First())
	assert.Len(t, valErr.Fields(), 2)
}

func TestValidate_MinLength(t *testing.T) {
	form := createForm{Line1: "x", State: "NY", Zip: "10", Country: "USA"}
	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "Field 'zip' must be at least 3 characters", valErr.First())
}

func TestValidate_UUIDFormat(t *testing.T) {
	form := updateForm{ID: "not-a-uuid"}
	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "Field 'id' must be a valid UUID", valErr.First())
}

func TestValidate_OptionalPointerSkippedWhenNil(t *testing.T) {
	form := updateForm{ID: "550e8400-e29b-41d4-a716-446655440000"}
	assert.NoError(t, Validate(form))
}

func TestValidate_OptionalPointerCheckedWhenSet(t *testing.T) {
	short := "1"
	form := updateForm{ID: "550e8400-e29b-41d4-a716-446655440000", Zip: &short}
	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "Field 'zip' must be at least 3 characters", valErr.First())
}

func TestCheck(t *testing.T) {
	assert.True(t, Check("https://x.com/a.png", "url"))
	assert.False(t, Check("not a url", "url"))
	assert.True(t, Check("user@example.com", "email"))
	assert.False(t, Check("nope", "email"))
}
