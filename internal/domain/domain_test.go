package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_NullableFieldsSerializeAsNull(t *testing.T) {
	u := User{ID: "user-1", Email: "a@b.com"}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	// Cleared name and image must appear as explicit nulls, not be omitted.
	v, ok := m["name"]
	assert.True(t, ok)
	assert.Nil(t, v)
	v, ok = m["image"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestProfileUpdate_Empty(t *testing.T) {
	assert.True(t, ProfileUpdate{}.Empty())

	name := "Ada"
	assert.False(t, ProfileUpdate{NameSet: true, Name: &name}.Empty())
	// An explicit null still counts as a supplied key.
	assert.False(t, ProfileUpdate{NameSet: true}.Empty())
	assert.False(t, ProfileUpdate{ImageSet: true}.Empty())
}

func TestVerificationToken_Expired(t *testing.T) {
	now := time.Now()
	tok := VerificationToken{ExpiresAt: now.Add(24 * time.Hour)}

	assert.False(t, tok.Expired(now))
	assert.False(t, tok.Expired(now.Add(24*time.Hour)))
	assert.True(t, tok.Expired(now.Add(24*time.Hour+time.Second)))
}

func TestAddressUpdate_Empty(t *testing.T) {
	assert.True(t, AddressUpdate{}.Empty())

	line1 := "123 Main St"
	assert.False(t, AddressUpdate{Line1: &line1}.Empty())

	def := false
	assert.False(t, AddressUpdate{IsDefault: &def}.Empty())
}

func TestAddress_TokenHashExcludedFromJSON(t *testing.T) {
	tok := VerificationToken{Identifier: "a@b.com", TokenHash: "secret"}

	data, err := json.Marshal(tok)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret")
}
