// Package ranking implements the named-value ordering shared by every query
// and recommendation.
package ranking

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// Order selects how entries are sorted
type Order int

const (
	// Unsorted keeps the order the entries were gathered in
	Unsorted Order = iota
	Ascending
	// Descending is the exact reverse of Ascending, name tie-break included
	Descending
)

// ParseOrder maps "asc" and "desc" to an order. Anything else is Unsorted.
func ParseOrder(s string) Order {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Ascending
	case "desc":
		return Descending
	default:
		return Unsorted
	}
}

// Entry associates a display name with one or two sort keys
type Entry struct {
	Name         string
	Primary      float64
	Secondary    float64
	HasSecondary bool
}

// New creates an entry with a single key
func New(name string, primary float64) Entry {
	return Entry{Name: name, Primary: primary}
}

// NewWithSecondary creates an entry with primary and secondary keys
func NewWithSecondary(name string, primary, secondary float64) Entry {
	return Entry{Name: name, Primary: primary, Secondary: secondary, HasSecondary: true}
}

func key(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// Compare orders a before b by primary key, then secondary key when either
// entry carries one, then name. Keys compare exactly; NaN counts as 0.
func Compare(a, b Entry) int {
	if c := cmp.Compare(key(a.Primary), key(b.Primary)); c != 0 {
		return c
	}
	if a.HasSecondary || b.HasSecondary {
		if c := cmp.Compare(key(a.Secondary), key(b.Secondary)); c != 0 {
			return c
		}
	}
	return strings.Compare(a.Name, b.Name)
}

// Sort orders entries in place.
func Sort(entries []Entry, order Order) {
	switch order {
	case Ascending:
		slices.SortStableFunc(entries, Compare)
	case Descending:
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return Compare(b, a)
		})
	}
}

// Top returns at most limit entries from the front. A non-positive limit
// yields no entries.
func Top(entries []Entry, limit int) []Entry {
	if limit <= 0 {
		return []Entry{}
	}
	if limit > len(entries) {
		limit = len(entries)
	}
	return entries[:limit]
}

// Rank sorts entries and truncates the result to limit
func Rank(entries []Entry, order Order, limit int) []Entry {
	Sort(entries, order)
	return Top(entries, limit)
}

// Names returns the entry names in order
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Render formats names as a bracketed, comma separated list: "[a, b]".
func Render(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}
