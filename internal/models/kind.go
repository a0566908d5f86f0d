package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	jsonID        = "id"
	jsonFirstName = "firstName"
	jsonLastName  = "lastName"
)

// Kind describes one record type: where it lives on the backend, which JSON
// field holds its category and which category values are allowed.
type Kind struct {
	// Name is the singular lower-case noun used in messages ("teacher").
	Name string
	// Plural is used in logs and titles ("teachers").
	Plural string
	// Title is the display noun ("Teacher").
	Title string
	// CollectionPath is the backend collection endpoint ("/teacher").
	CollectionPath string
	// Route is the shell path serving the view ("/teacher").
	Route string
	// FirstNameLabel heads the first-name column ("Name" or "First Name").
	FirstNameLabel string
	// CategoryField is the JSON key of the category attribute ("level").
	CategoryField string
	// CategoryLabel is the column and placeholder label ("Level").
	CategoryLabel string
	// Categories lists the allowed category values in display order.
	Categories []string
}

// AllowsCategory reports whether value is one of the kind's categories.
func (k Kind) AllowsCategory(value string) bool {
	for _, c := range k.Categories {
		if c == value {
			return true
		}
	}
	return false
}

// ItemPathParam names the placeholder ItemPath leaves for the record id.
const ItemPathParam = "id"

// ItemPath returns the backend path addressing one record, with the id left
// as a {id} placeholder for the HTTP client to fill in escaped.
func (k Kind) ItemPath() string {
	return strings.TrimRight(k.CollectionPath, "/") + "/{" + ItemPathParam + "}"
}

// EncodeRecord renders r into the kind's JSON shape. The id key is omitted
// for records that were never persisted.
func (k Kind) EncodeRecord(r Record) ([]byte, error) {
	payload := make(map[string]any, len(r.Extra)+4)
	for key, value := range r.Extra {
		payload[key] = value
	}
	payload[jsonFirstName] = r.FirstName
	payload[jsonLastName] = r.LastName
	payload[k.CategoryField] = r.Category
	if r.Persisted() {
		payload[jsonID] = r.ID
	} else {
		delete(payload, jsonID)
	}
	return json.Marshal(payload)
}

// DecodeRecord parses one JSON object of this kind.
func (k Kind) DecodeRecord(data []byte) (Record, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, fmt.Errorf("decode %s: %w", k.Name, err)
	}
	return k.fromRaw(raw)
}

// DecodeRecords parses a JSON array of this kind.
func (k Kind) DecodeRecords(data []byte) ([]Record, error) {
	var raws []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode %s: %w", k.Plural, err)
	}
	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		record, err := k.fromRaw(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (k Kind) fromRaw(raw map[string]json.RawMessage) (Record, error) {
	var record Record
	for key, value := range raw {
		var err error
		switch key {
		case jsonID:
			err = json.Unmarshal(value, &record.ID)
		case jsonFirstName:
			record.FirstName, err = optionalString(value)
		case jsonLastName:
			record.LastName, err = optionalString(value)
		case k.CategoryField:
			record.Category, err = optionalString(value)
		default:
			if record.Extra == nil {
				record.Extra = make(map[string]json.RawMessage)
			}
			record.Extra[key] = value
		}
		if err != nil {
			return Record{}, fmt.Errorf("decode %s field %q: %w", k.Name, key, err)
		}
	}
	return record, nil
}

func optionalString(value json.RawMessage) (string, error) {
	if string(value) == "null" {
		return "", nil
	}
	var s string
	err := json.Unmarshal(value, &s)
	return s, err
}
