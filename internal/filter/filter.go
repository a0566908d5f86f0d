// Package filter derives the displayed rows of a record view from the full
// collection, a free-text query and an optional category.
package filter

import (
	"strings"

	"github.com/noah-isme/sma-adp-admin/internal/models"
)

// Criteria holds the user's current search inputs.
type Criteria struct {
	SearchText string
	Category   string
}

// Apply returns the records matching searchText and category, in input order.
// The input slice is never modified.
func Apply(records []models.Record, searchText, category string) []models.Record {
	query := strings.ToLower(strings.TrimSpace(searchText))
	tokens := strings.Fields(query)

	out := make([]models.Record, 0, len(records))
	for _, record := range records {
		if Matches(record, query, tokens, category) {
			out = append(out, record)
		}
	}
	return out
}

// ApplyCriteria is Apply with the inputs bundled.
func ApplyCriteria(records []models.Record, c Criteria) []models.Record {
	return Apply(records, c.SearchText, c.Category)
}

// Matches reports whether record passes the three checks. query must already
// be lower-cased and trimmed, tokens its whitespace split.
func Matches(record models.Record, query string, tokens []string, category string) bool {
	if category != "" && record.Category != category {
		return false
	}

	first := strings.ToLower(record.FirstName)
	last := strings.ToLower(record.LastName)
	full := first + " " + last

	for _, token := range tokens {
		if !strings.Contains(full, token) {
			return false
		}
	}

	return strings.Contains(full, query) ||
		strings.Contains(first, query) ||
		strings.Contains(last, query)
}
