// Package render turns a prepared dataset into a self-contained,
// brand-themed HTML widget: a searchable table, a ranked list with
// drill-down panels, or a choropleth map with high/low tables.
package render

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bettercollective/embedforge/internal/brand"
	"github.com/bettercollective/embedforge/internal/model"
	"github.com/bettercollective/embedforge/internal/rank"
)

// Params carries everything one widget needs. Result must already be
// prepared; Render never re-ranks.
type Params struct {
	Kind model.WidgetKind
	Mode model.EntityMode

	Title     string
	Subtitle  string
	Strapline string

	// IdentityLabel and MetricLabel are the column headers as uploaded.
	IdentityLabel string
	MetricLabel   string
	// ExtraColumns preserves the upload's column order for extras.
	ExtraColumns []string

	// Legend and section copy for the map page.
	LegendLow  string
	LegendHigh string
	HighTitle  string
	HighSub    string
	LowTitle   string
	LowSub     string

	// EmbedURL is baked into the widget's own "embed this" footer. It may
	// be empty before the first publish.
	EmbedURL string

	Brand  brand.Brand
	Result *rank.Result
}

// Render produces the complete HTML document for the requested widget.
// An empty prepared result yields a short placeholder page rather than
// an error, matching the "no valid data" behavior upstream.
func Render(p Params) (string, error) {
	if p.Result == nil {
		return "", eris.New("render: nil result")
	}
	if p.Result.Empty() {
		return emptyPage, nil
	}

	switch p.Kind {
	case model.WidgetTable:
		return renderTable(p)
	case model.WidgetList:
		return renderList(p)
	case model.WidgetMap:
		return renderMap(p)
	default:
		return "", eris.Errorf("render: unknown widget kind %q", p.Kind)
	}
}

const emptyPage = `<!doctype html>
<html lang="en"><head><meta charset="utf-8"></head>
<body><p style="padding:16px;font-family:sans-serif;">No valid data to display.</p></body>
</html>
`

// formatMetric renders a metric without trailing zero noise.
func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatFixed renders with a fixed number of decimals, for bar labels.
func formatFixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// orderedExtras returns extras values in upload column order, skipping
// columns the row never had.
func orderedExtras(rec model.RankedRecord, cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		out = append(out, rec.Extras[c])
	}
	return out
}

// displayName is the label a widget shows for a record: the original
// identifier text, falling back to the canonical code.
func displayName(rec model.RankedRecord) string {
	if s := strings.TrimSpace(rec.Identifier); s != "" {
		return s
	}
	return rec.Code
}
