// Package search derives display views of the password list from a free-text
// query. Views are recomputed on every call; there is no index to maintain.
package search

import (
	"strings"

	"github.com/dmitrijs2005/mustardseed/internal/models"
)

// Filter returns the entries whose website or username contains query as a
// contiguous, case-insensitive substring, in their original order. Query and
// fields are compared trimmed. An empty or blank query returns entries as is.
//
// Filter never modifies entries.
func Filter(entries []models.Entry, query string) []models.Entry {
	q := normalize(query)
	if q == "" {
		return entries
	}

	view := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if matches(e, q) {
			view = append(view, e)
		}
	}
	return view
}

func matches(e models.Entry, q string) bool {
	return strings.Contains(normalize(e.Website), q) ||
		strings.Contains(normalize(e.Username), q)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
