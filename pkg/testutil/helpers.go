// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/RakeemAI/Rakeem/internal/deadlines"
)

// FindEntry finds an entry by obligation id in the results slice.
// Returns a pointer to the entry if found, nil otherwise.
func FindEntry(entries []deadlines.Entry, id string) *deadlines.Entry {
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i]
		}
	}
	return nil
}

// EntryIDs returns the obligation ids of entries in order.
func EntryIDs(entries []deadlines.Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
