package deadlines

import (
	"strings"
)

// Filter narrows entries by authority and category. An empty list matches
// everything; values compare case-insensitively after trimming.
type Filter struct {
	Authorities []string
	Categories  []string
}

// IsZero reports whether the filter matches every entry.
func (f Filter) IsZero() bool {
	return len(f.Authorities) == 0 && len(f.Categories) == 0
}

// Match reports whether entry passes the filter.
func (f Filter) Match(entry Entry) bool {
	return matchAny(f.Authorities, entry.Authority) && matchAny(f.Categories, entry.Category)
}

// Apply returns the entries passing the filter in their original order.
func (f Filter) Apply(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if f.Match(entry) {
			out = append(out, entry)
		}
	}
	return out
}

func matchAny(allowed []string, value string) bool {
	if len(allowed) == 0 {
		return true
	}
	value = strings.TrimSpace(value)
	for _, candidate := range allowed {
		if strings.EqualFold(strings.TrimSpace(candidate), value) {
			return true
		}
	}
	return false
}
