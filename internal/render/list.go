package render

import (
	"encoding/json"
	"html/template"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bettercollective/embedforge/internal/model"
	"github.com/bettercollective/embedforge/internal/usstate"
)

// listView is the precomputed model for the ranked list widget.
type listView struct {
	Title       string
	Subtitle    string
	MetricLabel string
	EmbedURL    string
	LogoURL     string
	LogoAlt     string
	Class       string
	Accent      template.CSS
	Soft        template.CSS
	Rows        []listRow
	Data        template.JS
}

type listRow struct {
	Rank     int
	Name     string
	Metric   string
	FlagURL  string
	WidthPct string
	Opacity  string
}

type listDatum struct {
	Metric float64       `json:"metric"`
	Extras []listExtraKV `json:"extras"`
}

type listExtraKV struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func renderList(p Params) (string, error) {
	view := listView{
		Title:       p.Title,
		Subtitle:    p.Subtitle,
		MetricLabel: p.MetricLabel,
		EmbedURL:    p.EmbedURL,
		LogoURL:     p.Brand.LogoURL,
		LogoAlt:     p.Brand.LogoAlt,
		Class:       p.Brand.Class,
		Accent:      template.CSS(p.Brand.Accent),
		Soft:        template.CSS(p.Brand.AccentSoft),
	}

	max := p.Result.Max
	data := make(map[string]listDatum, len(p.Result.Records))
	for _, rec := range p.Result.Records {
		frac := 1.0
		if max > 0 {
			frac = rec.Metric / max
		}
		if frac < 0 {
			frac = 0
		}

		row := listRow{
			Rank:     rec.Rank,
			Name:     displayName(rec),
			Metric:   formatFixed(rec.Metric, 2),
			WidthPct: formatFixed(frac*100, 2),
			Opacity:  formatFixed(0.35+0.65*frac, 2),
		}
		if p.Mode == model.ModeStates || p.Mode == "" {
			row.FlagURL = usstate.FlagURL(rec.Code)
		}
		view.Rows = append(view.Rows, row)

		extras := make([]listExtraKV, 0, len(p.ExtraColumns))
		for _, c := range p.ExtraColumns {
			if v, ok := rec.Extras[c]; ok {
				extras = append(extras, listExtraKV{Label: c, Value: v})
			}
		}
		data[row.Name] = listDatum{Metric: rec.Metric, Extras: extras}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", eris.Wrap(err, "render: marshal list data")
	}
	view.Data = template.JS(raw) //nolint:gosec // values are escaped by json.Marshal

	var b strings.Builder
	if err := listTmpl.Execute(&b, view); err != nil {
		return "", eris.Wrap(err, "render: execute list template")
	}
	return b.String(), nil
}

var listTmpl = template.Must(template.New("list").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>{{.Title}}</title>
</head>
<body style="margin:0;">

<section class="rl-embed {{.Class}}"
  style="max-width:860px;margin:16px auto;font:14px/1.35 Inter,system-ui,-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif;
         color:#181a1f;background:#fff;border:1px solid #e5e7eb;border-radius:12px;
         box-shadow:0 1px 2px rgba(0,0,0,.04),0 6px 16px rgba(0,0,0,.09);">

  <style>
    .rl-embed, .rl-embed * { box-sizing:border-box; font-family:inherit; }
    .rl-embed{
      --accent:{{.Accent}};
      --accent-soft:{{.Soft}};
      --muted:#6b7280;
    }
    .rl-embed .rl-header{
      padding:12px 16px 10px;border-bottom:1px solid var(--accent-soft);
      background:linear-gradient(90deg,var(--accent-soft),#ffffff);
    }
    .rl-embed .rl-header .title{margin:0;font-size:clamp(18px,2.3vw,22px);font-weight:750;color:var(--accent);}
    .rl-embed .rl-header .subtitle{margin:2px 0 0;font-size:13px;color:var(--muted);}
    .rl-embed .rows{padding:8px 12px 12px;}
    .rl-embed .row{
      display:grid;grid-template-columns:40px minmax(0,1fr) minmax(140px,40%);
      align-items:center;gap:10px;padding:8px 6px;border-bottom:1px solid #f1f5f9;
      cursor:pointer;border-radius:8px;
    }
    .rl-embed .row:hover{background:var(--accent-soft);}
    .rl-embed .rank{display:flex;align-items:center;justify-content:center;font-weight:700;color:var(--muted);}
    .rl-embed .entity{display:flex;align-items:center;gap:8px;min-width:0;}
    .rl-embed .entity img{width:24px;height:16px;object-fit:cover;border-radius:2px;box-shadow:0 0 0 1px rgba(0,0,0,.08);}
    .rl-embed .entity .name{font-weight:600;overflow:hidden;text-overflow:ellipsis;white-space:nowrap;}
    .rl-embed .metric{position:relative;display:flex;align-items:center;gap:8px;}
    .rl-embed .metric .bar{
      display:block;height:10px;border-radius:999px;background:var(--accent);min-width:4px;
      transition:width .6s ease;
    }
    .rl-embed .metric .val{font-variant-numeric:tabular-nums;font-weight:650;}
    .rl-embed .details{
      margin:0;padding:0;border:1px solid var(--accent-soft);border-width:0;border-radius:12px;background:var(--accent-soft);
      max-height:0;opacity:0;overflow:hidden;transform:translateY(-6px);
      transition:max-height .28s ease,opacity .28s ease,transform .28s ease;
    }
    .rl-embed .details.open{margin:8px 0 12px;padding:12px;border-width:1px;max-height:420px;opacity:1;transform:translateY(0);}
    .rl-embed .details .metrics-title{margin:0 0 8px;font-size:14px;font-weight:700;}
    .rl-embed .details .metrics-grid{display:grid;grid-template-columns:repeat(3,minmax(0,1fr));gap:8px;}
    @media (max-width:640px){.rl-embed .details .metrics-grid{grid-template-columns:repeat(2,minmax(0,1fr));}}
    .rl-embed .details .metric-card{background:#fff;border-radius:10px;padding:8px 10px;}
    .rl-embed .details .metric-card .label{font-size:12px;color:var(--muted);}
    .rl-embed .details .metric-card .value{font-size:15px;font-weight:700;}
    .rl-embed .rl-footer{display:flex;align-items:center;justify-content:space-between;gap:12px;
      padding:10px 16px;border-top:1px solid var(--accent-soft);}
    .rl-embed .embed-btn{background:var(--accent);color:#fff;border:0;border-radius:10px;padding:8px 12px;cursor:pointer;}
    .rl-embed .embed-wrapper{display:none;}
    .rl-embed .embed-wrapper textarea{width:100%;height:120px;
      font:13px/1.45 ui-monospace,SFMono-Regular,Menlo,Consolas,monospace;}
  </style>

  <div class="rl-header">
    <h2 class="title">{{.Title}}</h2>
    {{if .Subtitle}}<p class="subtitle">{{.Subtitle}}</p>{{end}}
  </div>

  <div class="rows" id="rl-rows">
{{- range .Rows}}
    <div class="row" data-entity="{{.Name}}" aria-expanded="false" tabindex="0" role="button">
      <div class="rank">{{.Rank}}</div>
      <div class="entity">
        {{if .FlagURL}}<img src="{{.FlagURL}}" alt="" loading="lazy" decoding="async" />{{end}}
        <span class="name">{{.Name}}</span>
      </div>
      <div class="metric">
        <span class="bar" style="width:{{.WidthPct}}%;opacity:{{.Opacity}};"></span>
        <span class="val">{{.Metric}}</span>
      </div>
    </div>
{{- end}}
    <div class="details" id="rl-details" aria-hidden="true">
      <p class="metrics-title" id="rl-details-title"></p>
      <div class="metrics-grid" id="rl-details-grid"></div>
    </div>
  </div>

  <div class="rl-footer" role="contentinfo">
    <button id="rl-embed-btn" class="embed-btn" aria-expanded="false">&#128279; Embed This List</button>
    <img src="{{.LogoURL}}" alt="{{.LogoAlt}}" width="120" height="auto" loading="lazy" decoding="async" />
    <div id="rl-embed-wrapper" class="embed-wrapper">
      <textarea id="rl-embed-code" readonly>&lt;iframe src="{{.EmbedURL}}"
  title="{{.Title}}"
  width="100%" height="750" scrolling="no"
  style="border:0;" loading="lazy"&gt;&lt;/iframe&gt;</textarea>
    </div>
  </div>

  <script>
  (function(){
    const DATA = {{.Data}};
    const METRIC_LABEL = {{.MetricLabel}};

    const rows = document.querySelectorAll('.rl-embed .row[data-entity]');
    const panel = document.getElementById('rl-details');
    const titleEl = document.getElementById('rl-details-title');
    const grid = document.getElementById('rl-details-grid');
    let openFor = null;

    function card(label, value){
      const div = document.createElement('div');
      div.className = 'metric-card';
      const l = document.createElement('div'); l.className='label'; l.textContent=label;
      const v = document.createElement('div'); v.className='value'; v.textContent=value;
      div.appendChild(l); div.appendChild(v);
      return div;
    }

    function openUnder(row, name){
      const d = DATA[name];
      if(!d) return;
      titleEl.textContent = name;
      grid.innerHTML = '';
      grid.appendChild(card(METRIC_LABEL, String(d.metric)));
      (d.extras || []).forEach(e => grid.appendChild(card(e.label, e.value)));
      row.after(panel);
      panel.classList.add('open');
      panel.setAttribute('aria-hidden','false');
      rows.forEach(r=>r.setAttribute('aria-expanded', r===row ? 'true' : 'false'));
      openFor = name;
      sendHeightToParent();
    }

    function close(){
      panel.classList.remove('open');
      panel.setAttribute('aria-hidden','true');
      rows.forEach(r=>r.setAttribute('aria-expanded','false'));
      openFor = null;
      sendHeightToParent();
    }

    rows.forEach(row=>{
      const name = row.dataset.entity;
      const toggle = ()=> openFor===name ? close() : openUnder(row, name);
      row.addEventListener('click', toggle);
      row.addEventListener('keydown', e=>{ if(e.key==='Enter'||e.key===' '){ e.preventDefault(); toggle(); } });
    });

    function sendHeightToParent(){
      try{
        window.parent.postMessage({ type:"resize-iframe", height:document.body.scrollHeight, src:window.location.href }, "*");
      }catch(e){}
    }
    window.addEventListener("load", sendHeightToParent);
    window.addEventListener("resize", sendHeightToParent);

    const btn = document.getElementById('rl-embed-btn');
    const wrapper = document.getElementById('rl-embed-wrapper');
    const ta = document.getElementById('rl-embed-code');
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
