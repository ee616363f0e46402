// Package model defines the core data types shared across the widget pipeline.
package model

import "time"

// WidgetKind selects which HTML widget is rendered from a prepared dataset.
type WidgetKind string

const (
	WidgetTable WidgetKind = "table" // branded sortable table
	WidgetList  WidgetKind = "list"  // ranked rows with drill-down panel
	WidgetMap   WidgetKind = "map"   // choropleth + high/low tables
)

// Valid reports whether k names a known widget kind.
func (k WidgetKind) Valid() bool {
	switch k {
	case WidgetTable, WidgetList, WidgetMap:
		return true
	}
	return false
}

// EntityMode describes what the identity column contains.
type EntityMode string

const (
	// ModeStates resolves identifiers against the US state lookup table;
	// rows that fail to resolve are dropped.
	ModeStates EntityMode = "states"
	// ModeCities keeps identifiers as-is (trimmed); no lookup exists for
	// city names, so nothing is dropped on identity grounds.
	ModeCities EntityMode = "cities"
)

// RawRow is one uploaded row before coercion: the identity cell, the raw
// metric cell, and every other column preserved verbatim for display.
type RawRow struct {
	Identifier string
	MetricText string
	Extras     map[string]string
}

// RankedRecord is one row after normalization, coercion, and ranking.
// Every record in a prepared result has both Code and Metric present;
// rows that failed either check never make it this far.
type RankedRecord struct {
	Identifier string // original text as uploaded
	Code       string // canonical 2-letter code (states) or raw label (cities)

	Metric float64
	// Rank is 1-based with minimum-rank tie semantics: tied values share
	// the best rank, and the next distinct value's rank is the count of
	// strictly greater records plus one.
	Rank int
	// NormPosition is (Metric-min)/(max-min) across the surviving cohort,
	// clamped to [0,1]; uniformly 0.5 when max == min.
	NormPosition float64

	Extras map[string]string
}

// Publication records one successful publish of a widget file.
type Publication struct {
	ID        string     `json:"id"`
	Owner     string     `json:"owner"`
	Repo      string     `json:"repo"`
	Filename  string     `json:"filename"`
	Widget    WidgetKind `json:"widget"`
	Brand     string     `json:"brand"`
	EmbedURL  string     `json:"embed_url"`
	CreatedAt time.Time  `json:"created_at"`
}
