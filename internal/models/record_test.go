package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[7, "a1b2", null]`), &ids))
	assert.Equal(t, []ID{"7", "a1b2", ""}, ids)

	out, err := json.Marshal([]ID{"7", "a1b2"})
	require.NoError(t, err)
	assert.JSONEq(t, `[7, "a1b2"]`, string(out))
}

func TestRecordWithCopiesDraft(t *testing.T) {
	original := Record{ID: "5", FirstName: "Ann", LastName: "Lee", Category: LevelSenior}

	next, err := original.With(FieldLastName, "Kim")
	require.NoError(t, err)
	assert.Equal(t, "Kim", next.LastName)
	assert.Equal(t, "Lee", original.LastName)

	_, err = original.With(Field("email"), "x")
	assert.Error(t, err)
}

func TestCloneDetachesExtra(t *testing.T) {
	original := Record{Extra: map[string]json.RawMessage{"email": json.RawMessage(`"a@b.c"`)}}
	clone := original.Clone()
	clone.Extra["email"] = json.RawMessage(`"x@y.z"`)
	assert.Equal(t, `"a@b.c"`, string(original.Extra["email"]))
}

func TestIDKeepsLeadingZerosAsString(t *testing.T) {
	out, err := json.Marshal(ID("007"))
	require.NoError(t, err)
	assert.Equal(t, `"007"`, string(out))
}
