package render

import (
	"encoding/json"
	"html/template"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bettercollective/embedforge/internal/model"
	"github.com/bettercollective/embedforge/internal/usstate"
)

// mapView is the precomputed model for the choropleth map page.
type mapView struct {
	Title     string
	Subtitle  string
	Strapline string

	LegendLow  string
	LegendHigh string

	Class     string
	Accent    template.CSS
	Soft      template.CSS
	ScaleLow  template.CSS
	ScaleMid  template.CSS
	ScaleHigh template.CSS

	// Plot is the full plotly payload (data + layout + config) as JSON.
	Plot template.JS

	HighTitle string
	HighSub   string
	LowTitle  string
	LowSub    string
	HighTable rankedTable
	LowTable  rankedTable

	EmbedURL string
	LogoURL  string
	LogoAlt  string
}

type rankedTable struct {
	Columns []string
	Rows    []rankedTableRow
}

type rankedTableRow struct {
	Rank  int
	Name  string
	Cells []string
}

func renderMap(p Params) (string, error) {
	if p.Mode == model.ModeCities {
		return "", eris.New("render: map widget requires a states dataset")
	}

	view := mapView{
		Title:      p.Title,
		Subtitle:   p.Subtitle,
		Strapline:  p.Strapline,
		LegendLow:  defaultStr(p.LegendLow, "Lowest"),
		LegendHigh: defaultStr(p.LegendHigh, "Highest"),
		Class:      p.Brand.Class,
		Accent:     template.CSS(p.Brand.Accent),
		Soft:       template.CSS(p.Brand.AccentSoft),
		ScaleLow:   template.CSS(p.Brand.MapScale[0]),
		ScaleMid:   template.CSS(p.Brand.MapScale[1]),
		ScaleHigh:  template.CSS(p.Brand.MapScale[2]),
		HighTitle:  defaultStr(p.HighTitle, "Highest"),
		HighSub:    p.HighSub,
		LowTitle:   defaultStr(p.LowTitle, "Lowest"),
		LowSub:     p.LowSub,
		EmbedURL:   p.EmbedURL,
		LogoURL:    p.Brand.LogoURL,
		LogoAlt:    p.Brand.LogoAlt,
	}

	plot, err := buildPlot(p)
	if err != nil {
		return "", err
	}
	view.Plot = template.JS(plot) //nolint:gosec // payload built by json.Marshal

	numericExtras := numericExtraColumns(p)
	view.HighTable = buildRankedTable(p, p.Result.Descending, numericExtras)
	view.LowTable = buildRankedTable(p, p.Result.Ascending, numericExtras)

	var b strings.Builder
	if err := mapTmpl.Execute(&b, view); err != nil {
		return "", eris.Wrap(err, "render: execute map template")
	}
	return b.String(), nil
}

// buildPlot assembles the plotly payload: the choropleth trace colored by
// the metric on the brand's three-stop scale, plus a text trace carrying
// every state label (outside placement for the small dense states).
func buildPlot(p Params) ([]byte, error) {
	recs := p.Result.Records

	locations := make([]string, 0, len(recs))
	z := make([]float64, 0, len(recs))
	hover := make([]string, 0, len(recs))

	var labelLat, labelLon []float64
	var labelText, labelColor []string

	for _, rec := range recs {
		locations = append(locations, rec.Code)
		z = append(z, rec.Metric)
		hover = append(hover, hoverText(p, rec))

		lat, lon, outside, ok := labelPosition(rec.Code)
		if !ok {
			continue
		}
		labelLat = append(labelLat, lat)
		labelLon = append(labelLon, lon)
		labelText = append(labelText, rec.Code)

		// Inside labels need contrast against the fill; the top half of
		// the scale is dark enough for white text.
		color := "#374151"
		if !outside && rec.NormPosition > 0.55 {
			color = "#ffffff"
		}
		labelColor = append(labelColor, color)
	}

	choropleth := map[string]any{
		"type":         "choropleth",
		"locationmode": "USA-states",
		"locations":    locations,
		"z":            z,
		"text":         hover,
		"hoverinfo":    "text",
		"colorscale": []any{
			[]any{0, p.Brand.MapScale[0]},
			[]any{0.5, p.Brand.MapScale[1]},
			[]any{1, p.Brand.MapScale[2]},
		},
		"showscale": false,
		"marker":    map[string]any{"line": map[string]any{"color": "#ffffff", "width": 1}},
	}
	labels := map[string]any{
		"type":      "scattergeo",
		"mode":      "text",
		"lat":       labelLat,
		"lon":       labelLon,
		"text":      labelText,
		"hoverinfo": "skip",
		"textfont":  map[string]any{"size": 10, "color": labelColor},
	}
	layout := map[string]any{
		"margin":        map[string]any{"l": 0, "r": 0, "t": 0, "b": 0},
		"paper_bgcolor": "rgba(0,0,0,0)",
		"plot_bgcolor":  "rgba(0,0,0,0)",
		"showlegend":    false,
		"geo": map[string]any{
			"scope":     "usa",
			"bgcolor":   "rgba(0,0,0,0)",
			"lakecolor": "rgba(0,0,0,0)",
			"showlakes": false,
			"showland":  true,
			"landcolor": "#F3F4F6",
		},
	}

	payload := map[string]any{
		"data":   []any{choropleth, labels},
		"layout": layout,
		"config": map[string]any{"displayModeBar": false, "responsive": true},
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "render: marshal plot payload")
	}
	return out, nil
}

func hoverText(p Params, rec model.RankedRecord) string {
	name := displayName(rec)
	if full, ok := usstate.Name(rec.Code); ok {
		name = full
	}
	var b strings.Builder
	b.WriteString("<b>" + template.HTMLEscapeString(name) + "</b><br>")
	b.WriteString(template.HTMLEscapeString(p.MetricLabel) + ": " + formatMetric(rec.Metric))
	for _, c := range p.ExtraColumns {
		if v, ok := rec.Extras[c]; ok && strings.TrimSpace(v) != "" {
			b.WriteString("<br>" + template.HTMLEscapeString(c) + ": " + template.HTMLEscapeString(v))
		}
	}
	return b.String()
}

// numericExtraColumns keeps the upload order but drops extras that fail
// numeric coercion anywhere; the ranked tables show numbers only.
func numericExtraColumns(p Params) []string {
	var cols []string
	for _, c := range p.ExtraColumns {
		if columnLooksNumeric(p, c) {
			cols = append(cols, c)
		}
	}
	return cols
}

func buildRankedTable(p Params, recs []model.RankedRecord, extras []string) rankedTable {
	t := rankedTable{
		Columns: append([]string{p.MetricLabel}, extras...),
	}
	for _, rec := range recs {
		row := rankedTableRow{
			Rank:  rec.Rank,
			Name:  displayName(rec),
			Cells: []string{formatMetric(rec.Metric)},
		}
		for _, c := range extras {
			row.Cells = append(row.Cells, rec.Extras[c])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func defaultStr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

var mapTmpl = template.Must(template.New("map").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>{{.Title}}</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js" charset="utf-8"></script>
</head>
<body style="margin:0;">

<section class="vm-embed {{.Class}}"
  style="max-width:1040px;margin:16px auto;font:14px/1.4 Inter,system-ui,-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif;
         color:#181a1f;background:#fff;border:1px solid #e5e7eb;border-radius:12px;
         box-shadow:0 1px 2px rgba(0,0,0,.04),0 6px 16px rgba(0,0,0,.09);">

  <style>
    .vm-embed, .vm-embed * { box-sizing:border-box; font-family:inherit; }
    .vm-embed{
      --accent:{{.Accent}};
      --accent-soft:{{.Soft}};
      --muted:#6b7280;
    }
    .vm-embed .vm-header{
      padding:14px 18px 10px;border-bottom:1px solid var(--accent-soft);
      background:linear-gradient(90deg,var(--accent-soft),#ffffff);
    }
    .vm-embed .vm-header .title{margin:0;font-size:clamp(19px,2.4vw,24px);font-weight:750;color:var(--accent);}
    .vm-embed .vm-header .subtitle{margin:2px 0 0;font-size:13px;color:var(--muted);}
    .vm-embed .vm-header .strapline{margin:6px 0 0;font-size:12px;color:#9ca3af;}
    .vm-embed #vm-plot{width:100%;min-height:420px;padding:6px 10px 0;}
    .vm-embed .vm-legend{display:flex;align-items:center;gap:10px;padding:4px 18px 10px;font-size:12px;color:var(--muted);}
    .vm-embed .vm-legend .scale{
      flex:0 0 180px;height:10px;border-radius:999px;
      background:linear-gradient(90deg,{{.ScaleLow}},{{.ScaleMid}},{{.ScaleHigh}});
    }
    .vm-embed .vm-tables{display:grid;grid-template-columns:repeat(2,minmax(0,1fr));gap:16px;padding:8px 18px 16px;}
    @media (max-width:760px){.vm-embed .vm-tables{grid-template-columns:1fr;}}
    .vm-embed .vm-tables h3{margin:0 0 2px;font-size:15px;color:var(--accent);}
    .vm-embed .vm-tables .sub{margin:0 0 8px;font-size:12px;color:var(--muted);}
    .vm-embed table.vm-table{width:100%;border-collapse:collapse;font-size:13px;}
    .vm-embed .vm-table th{
      text-align:left;padding:7px 8px;background:var(--accent-soft);font-weight:650;white-space:nowrap;
    }
    .vm-embed .vm-table td{padding:6px 8px;border-bottom:1px solid #f1f5f9;white-space:nowrap;}
    .vm-embed .vm-rank-pill{
      display:inline-flex;align-items:center;justify-content:center;min-width:24px;height:24px;
      border-radius:999px;background:var(--accent);color:#fff;font-weight:700;font-size:12px;padding:0 6px;
    }
    .vm-embed .vm-footer{display:flex;align-items:center;justify-content:space-between;gap:12px;
      padding:10px 18px;border-top:1px solid var(--accent-soft);}
    .vm-embed .embed-btn{background:var(--accent);color:#fff;border:0;border-radius:10px;padding:8px 12px;cursor:pointer;}
    .vm-embed .embed-wrapper{display:none;}
    .vm-embed .embed-wrapper textarea{width:100%;height:120px;
      font:13px/1.45 ui-monospace,SFMono-Regular,Menlo,Consolas,monospace;}
  </style>

  <div class="vm-header">
    <h2 class="title">{{.Title}}</h2>
    {{if .Subtitle}}<p class="subtitle">{{.Subtitle}}</p>{{end}}
    {{if .Strapline}}<p class="strapline">{{.Strapline}}</p>{{end}}
  </div>

  <div id="vm-plot"></div>

  <div class="vm-legend">
    <span>{{.LegendLow}}</span>
    <span class="scale" aria-hidden="true"></span>
    <span>{{.LegendHigh}}</span>
  </div>

  <div class="vm-tables">
    <div>
      <h3>{{.HighTitle}}</h3>
      {{if .HighSub}}<p class="sub">{{.HighSub}}</p>{{end}}
      <table class="vm-table">
        <thead>
          <tr><th scope="col">Rank</th><th scope="col">State</th>{{range .HighTable.Columns}}<th scope="col">{{.}}</th>{{end}}</tr>
        </thead>
        <tbody>
{{- range .HighTable.Rows}}
          <tr><td><span class="vm-rank-pill">{{.Rank}}</span></td><td>{{.Name}}</td>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
        </tbody>
      </table>
    </div>
    <div>
      <h3>{{.LowTitle}}</h3>
      {{if .LowSub}}<p class="sub">{{.LowSub}}</p>{{end}}
      <table class="vm-table">
        <thead>
          <tr><th scope="col">Rank</th><th scope="col">State</th>{{range .LowTable.Columns}}<th scope="col">{{.}}</th>{{end}}</tr>
        </thead>
        <tbody>
{{- range .LowTable.Rows}}
          <tr><td><span class="vm-rank-pill">{{.Rank}}</span></td><td>{{.Name}}</td>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
        </tbody>
      </table>
    </div>
  </div>

  <div class="vm-footer" role="contentinfo">
    <button id="vm-embed-btn" class="embed-btn" aria-expanded="false">&#128279; Embed This Map</button>
    <img src="{{.LogoURL}}" alt="{{.LogoAlt}}" width="140" height="auto" loading="lazy" decoding="async" />
    <div id="vm-embed-wrapper" class="embed-wrapper">
      <textarea id="vm-embed-code" readonly>&lt;iframe src="{{.EmbedURL}}"
  title="{{.Title}}"
  width="100%" height="750" scrolling="no"
  style="border:0;" loading="lazy"&gt;&lt;/iframe&gt;</textarea>
    </div>
  </div>

  <script>
  (function(){
    const spec = {{.Plot}};
    Plotly.newPlot('vm-plot', spec.data, spec.layout, spec.config);

    function sendHeightToParent(){
      try{
        window.parent.postMessage({ type:"resize-iframe", height:document.body.scrollHeight, src:window.location.href }, "*");
      }catch(e){}
    }
    window.addEventListener("load", sendHeightToParent);
    window.addEventListener("resize", sendHeightToParent);

    const btn = document.getElementById('vm-embed-btn');
    const wrapper = document.getElementById('vm-embed-wrapper');
    const ta = document.getElementById('vm-embed-code');
    btn.addEventListener('click', ()=>{
      const open = wrapper.style.display==='block';
      wrapper.style.display = open ? 'none' : 'block';
      btn.setAttribute('aria-expanded', String(!open));
      if(!open){ ta.focus(); ta.select(); try{ document.execCommand('copy'); }catch(e){} }
      sendHeightToParent();
    });
  })();
  </script>

</section>
</body>
</html>
`))
