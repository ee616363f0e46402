// Package rank coerces a raw metric column to numeric and computes
// competition ranks and normalized positions for widget rendering.
package rank

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bettercollective/embedforge/internal/model"
	"github.com/bettercollective/embedforge/internal/usstate"
)

// DefaultTopN bounds the high/low table views when no override is given.
const DefaultTopN = 10

// Options configures Prepare.
type Options struct {
	Mode model.EntityMode // defaults to ModeStates
	TopN int              // defaults to DefaultTopN
}

// Result is the prepared working set for one uploaded dataset.
type Result struct {
	// Records holds every surviving row, metric descending (rank 1 first).
	Records []model.RankedRecord
	// Descending is Records truncated to TopN, for "highest N" displays.
	Descending []model.RankedRecord
	// Ascending is metric-ascending, truncated to TopN, for "lowest N".
	Ascending []model.RankedRecord

	Min, Max float64
	// Dropped counts input rows excluded by coercion or normalization.
	Dropped int
}

// Empty reports whether no rows survived coercion.
func (r *Result) Empty() bool { return len(r.Records) == 0 }

// Prepare runs the full data-preparation pipeline: coerce the metric cell,
// resolve the identity cell, then compute min/max, normalized positions,
// and minimum-rank ("1224") competition ranks. Rows failing either check
// are excluded; there is no partial row. An all-dropped input yields an
// empty Result, not an error.
func Prepare(rows []model.RawRow, opts Options) (*Result, error) {
	if opts.Mode == "" {
		opts.Mode = model.ModeStates
	}
	if opts.Mode != model.ModeStates && opts.Mode != model.ModeCities {
		return nil, eris.Errorf("rank: unknown entity mode %q", opts.Mode)
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}

	res := &Result{}
	for _, row := range rows {
		metric, ok := CoerceMetric(row.MetricText)
		if !ok {
			res.Dropped++
			continue
		}

		code := strings.TrimSpace(row.Identifier)
		if opts.Mode == model.ModeStates {
			code, ok = usstate.Normalize(row.Identifier)
			if !ok {
				res.Dropped++
				continue
			}
		}
		if code == "" {
			res.Dropped++
			continue
		}

		res.Records = append(res.Records, model.RankedRecord{
			Identifier: strings.TrimSpace(row.Identifier),
			Code:       code,
			Metric:     metric,
			Extras:     row.Extras,
		})
	}

	zap.L().Debug("rank: prepared dataset",
		zap.Int("kept", len(res.Records)),
		zap.Int("dropped", res.Dropped),
	)

	if res.Empty() {
		return res, nil
	}

	res.Min, res.Max = res.Records[0].Metric, res.Records[0].Metric
	for _, rec := range res.Records[1:] {
		if rec.Metric < res.Min {
			res.Min = rec.Metric
		}
		if rec.Metric > res.Max {
			res.Max = rec.Metric
		}
	}

	span := res.Max - res.Min
	for i := range res.Records {
		if span == 0 {
			res.Records[i].NormPosition = 0.5
			continue
		}
		p := (res.Records[i].Metric - res.Min) / span
		// Guard against floating-point overshoot at the edges.
		if p < 0 {
			p = 0
		} else if p > 1 {
			p = 1
		}
		res.Records[i].NormPosition = p
	}

	sort.SliceStable(res.Records, func(i, j int) bool {
		return res.Records[i].Metric > res.Records[j].Metric
	})
	for i := range res.Records {
		if i > 0 && res.Records[i].Metric == res.Records[i-1].Metric {
			res.Records[i].Rank = res.Records[i-1].Rank
		} else {
			res.Records[i].Rank = i + 1
		}
	}

	res.Descending = truncate(res.Records, opts.TopN)

	asc := make([]model.RankedRecord, len(res.Records))
	copy(asc, res.Records)
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].Metric < asc[j].Metric
	})
	res.Ascending = truncate(asc, opts.TopN)

	return res, nil
}

// CoerceMetric strips '%' and ',' from a raw metric cell and parses it as
// a float. The second return is false for unparsable values.
func CoerceMetric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func truncate(recs []model.RankedRecord, n int) []model.RankedRecord {
	if len(recs) > n {
		recs = recs[:n]
	}
	out := make([]model.RankedRecord, len(recs))
	copy(out, recs)
	return out
}
