package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a persisted record. The backend decides its format; an empty
// ID means the record has never been saved.
type ID string

// IsZero reports whether the id is absent.
func (id ID) IsZero() bool {
	return id == ""
}

// String returns the id as text.
func (id ID) String() string {
	return string(id)
}

// MarshalJSON writes integer ids as JSON numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// Record is a teacher or student row. Category carries the kind specific
// field (level for teachers, group for students).
type Record struct {
	ID        ID
	FirstName string
	LastName  string
	Category  string
	// Extra keeps backend fields this client does not know about so that an
	// update writes them back untouched.
	Extra map[string]json.RawMessage
}

// Persisted reports whether the backend has assigned an id.
func (r Record) Persisted() bool {
	return !r.ID.IsZero()
}

// Clone returns a copy that shares no mutable state with r.
func (r Record) Clone() Record {
	clone := r
	if r.Extra != nil {
		clone.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			clone.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return clone
}

// Field names an editable record attribute.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldCategory  Field = "category"
)

// With returns a copy of r with one field replaced.
func (r Record) With(field Field, value string) (Record, error) {
	next := r.Clone()
	switch field {
	case FieldFirstName:
		next.FirstName = value
	case FieldLastName:
		next.LastName = value
	case FieldCategory:
		next.Category = value
	default:
		return r, fmt.Errorf("unknown field %q", field)
	}
	return next, nil
}
