// Package models defines the core data structures used throughout finvizlite.
package models

import (
	"sort"
	"time"
)

// Fundamentals maps a snapshot-table label to its value.
// Values are string (raw mode or unparsable), float64 (normalized numbers)
// or bool (Optionable / Shortable in normalized mode).
type Fundamentals map[string]any

// Labels returns the record's labels in lexical order.
func (f Fundamentals) Labels() []string {
	labels := make([]string, 0, len(f))
	for k := range f {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// String returns the value for label if it is stored as a string.
func (f Fundamentals) String(label string) (string, bool) {
	s, ok := f[label].(string)
	return s, ok
}

// Float returns the value for label if it was normalized to a number.
func (f Fundamentals) Float(label string) (float64, bool) {
	v, ok := f[label].(float64)
	return v, ok
}

// Bool returns the value for label if it was coerced to a boolean.
func (f Fundamentals) Bool(label string) (bool, bool) {
	b, ok := f[label].(bool)
	return b, ok
}

// NewsItem is a single headline from the quote page news table.
type NewsItem struct {
	Date   time.Time `json:"date"`
	Title  string    `json:"title"`
	Link   string    `json:"link"`
	Source string    `json:"source"`
}

// Rating is a single analyst rating change.
type Rating struct {
	Date   time.Time `json:"date"`
	Status string    `json:"status"` // e.g., "Upgrade", "Reiterated"
	Outer  string    `json:"outer"`  // analyst / brokerage name
	Rating string    `json:"rating"` // e.g., "Hold → Buy"
	Price  string    `json:"price"`  // price target, as displayed
}

// TickerInfo aggregates every section extracted for one ticker.
// Sections that were never requested (or are absent on the page) stay nil.
type TickerInfo struct {
	Ticker       string       `json:"ticker"`
	Fundamentals Fundamentals `json:"fundament,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Ratings      []Rating     `json:"ratings_outer,omitempty"`
	News         []NewsItem   `json:"news,omitempty"`
	FetchedAt    time.Time    `json:"fetched_at"`
}
