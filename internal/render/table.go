package render

import (
	"html/template"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bettercollective/embedforge/internal/rank"
)

// tableView is the precomputed model for the branded table widget.
type tableView struct {
	Title     string
	Subtitle  string
	EmbedURL  string
	LogoURL   string
	LogoAlt   string
	Class     string
	Accent    template.CSS
	Soft      template.CSS
	Columns   []tableColumn
	Rows      []tableRow
	ColumnLen int
}

type tableColumn struct {
	Label   string
	Numeric bool
}

type tableRow struct {
	Cells []string
}

func renderTable(p Params) (string, error) {
	view := tableView{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		EmbedURL: p.EmbedURL,
		LogoURL:  p.Brand.LogoURL,
		LogoAlt:  p.Brand.LogoAlt,
		Class:    p.Brand.Class,
		Accent:   template.CSS(p.Brand.Accent),
		Soft:     template.CSS(p.Brand.AccentSoft),
	}

	view.Columns = append(view.Columns,
		tableColumn{Label: "Rank", Numeric: true},
		tableColumn{Label: p.IdentityLabel},
		tableColumn{Label: p.MetricLabel, Numeric: true},
	)
	for _, c := range p.ExtraColumns {
		view.Columns = append(view.Columns, tableColumn{Label: c, Numeric: columnLooksNumeric(p, c)})
	}
	view.ColumnLen = len(view.Columns)

	for _, rec := range p.Result.Records {
		cells := []string{
			formatMetric(float64(rec.Rank)),
			displayName(rec),
			formatMetric(rec.Metric),
		}
		cells = append(cells, orderedExtras(rec, p.ExtraColumns)...)
		view.Rows = append(view.Rows, tableRow{Cells: cells})
	}

	var b strings.Builder
	if err := tableTmpl.Execute(&b, view); err != nil {
		return "", eris.Wrap(err, "render: execute table template")
	}
	return b.String(), nil
}

// columnLooksNumeric samples the column across the prepared records; a
// column sorts numerically only when every non-empty cell coerces.
func columnLooksNumeric(p Params, col string) bool {
	seen := false
	for _, rec := range p.Result.Records {
		v, ok := rec.Extras[col]
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		seen = true
		if _, ok := rank.CoerceMetric(v); !ok {
			return false
		}
	}
	return seen
}

var tableTmpl = template.Must(template.New("table").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>{{.Title}}</title>
</head>
<body style="margin:0;">

<section class="bt-embed {{.Class}}" style="max-width:960px;margin:16px auto;
         font:14px/1.35 Inter,system-ui,-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif;
         color:#181a1f;background:#ffffff;border:1px solid #e5e7eb;border-radius:12px;
         box-shadow:0 1px 2px rgba(0,0,0,.04),0 6px 16px rgba(0,0,0,.09);">

  <style>
    .bt-embed, .bt-embed * { box-sizing:border-box; font-family:inherit; }
    .bt-embed{
      --accent:{{.Accent}};
      --accent-soft:{{.Soft}};
      --stripe:color-mix(in oklab,var(--accent-soft) 60%, #ffffff);
      --hover:var(--accent-soft);
    }
    .bt-embed .bt-header{
      padding:10px 16px 8px;border-bottom:1px solid var(--accent-soft);
      background:linear-gradient(90deg,var(--accent-soft),#ffffff);
      display:flex;flex-direction:column;gap:2px;
    }
    .bt-embed .bt-header .title{margin:0;font-size:clamp(18px,2.3vw,22px);font-weight:750;color:var(--accent);}
    .bt-embed .bt-header .subtitle{margin:0;font-size:13px;color:#6b7280;}
    #bt-block{padding:8px clamp(8px,4vw,14px);}
    #bt-block .bt-controls{display:grid;grid-template-columns:minmax(0,1fr) auto;align-items:center;gap:12px;margin:4px 0 10px;}
    #bt-block .bt-input,#bt-block .bt-select,#bt-block .bt-btn{
      font:14px/1.2 system-ui,-apple-system,"Segoe UI",Roboto,Arial,sans-serif;border-radius:10px;padding:8px 10px;
    }
    #bt-block .bt-input,#bt-block .bt-select{background:#fff;border:1px solid #d1d5db;color:#1f2937;}
    #bt-block .bt-input{width:min(320px,100%);}
    #bt-block .bt-input:focus,#bt-block .bt-select:focus{outline:none;border-color:var(--accent);}
    #bt-block .bt-btn{background:var(--accent);color:#fff;border:1px solid var(--accent);cursor:pointer;}
    #bt-block .bt-btn[disabled]{background:#fafafa;border-color:#d1d5db;color:#6b7280;cursor:not-allowed;}
    #bt-block .bt-scroll{overflow-x:auto;-webkit-overflow-scrolling:touch;}
    #bt-block table.bt-table{width:100%;border-collapse:collapse;}
    #bt-block .bt-table th{
      position:sticky;top:0;background:var(--accent);color:#fff;text-align:left;
      padding:9px 10px;font-weight:650;cursor:pointer;user-select:none;white-space:nowrap;
    }
    #bt-block .bt-table th[data-sort="asc"]::after{content:" \25B2";}
    #bt-block .bt-table th[data-sort="desc"]::after{content:" \25BC";}
    #bt-block .bt-table td{padding:8px 10px;border-bottom:1px solid #f1f5f9;white-space:nowrap;}
    #bt-block .bt-table tbody tr:nth-child(even){background:var(--stripe);}
    #bt-block .bt-table tbody tr:hover{background:var(--hover);}
    .bt-footer{display:flex;align-items:center;justify-content:space-between;gap:12px;
      padding:10px 16px;border-top:1px solid var(--accent-soft);}
    .bt-footer .embed-btn{background:var(--accent);color:#fff;border:0;border-radius:10px;padding:8px 12px;cursor:pointer;}
    .bt-footer .embed-wrapper{display:none;}
    .bt-footer .embed-wrapper textarea{width:100%;height:120px;
      font:13px/1.45 ui-monospace,SFMono-Regular,Menlo,Consolas,monospace;}
  </style>

  <div class="bt-header">
    <h2 class="title">{{.Title}}</h2>
    {{if .Subtitle}}<p class="subtitle">{{.Subtitle}}</p>{{end}}
  </div>

  <div id="bt-block">
    <div class="bt-controls">
      <div class="left">
        <input class="bt-input" type="search" placeholder="Search…" aria-label="Search table" />
      </div>
      <div class="right">
        <select id="bt-size" class="bt-select" aria-label="Rows per page">
          <option value="10" selected>10</option>
          <option value="25">25</option>
          <option value="50">50</option>
          <option value="0">All</option>
        </select>
        <button class="bt-btn" data-page="prev" aria-label="Previous page">&lsaquo;</button>
        <button class="bt-btn" data-page="next" aria-label="Next page">&rsaquo;</button>
      </div>
    </div>

    <div class="bt-scroll">
      <table class="bt-table">
        <thead>
          <tr>
{{- range .Columns}}
            <th scope="col" data-type="{{if .Numeric}}num{{else}}text{{end}}" tabindex="0">{{.Label}}</th>
{{- end}}
          </tr>
        </thead>
        <tbody>
{{- range .Rows}}
          <tr>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
          <tr class="bt-empty" style="display:none;"><td colspan="{{.ColumnLen}}">No matches found.</td></tr>
        </tbody>
      </table>
    </div>
  </div>

  <div class="bt-footer" role="contentinfo">
    <button id="bt-embed-btn" class="embed-btn" aria-expanded="false">&#128279; Embed This Table</button>
    <img src="{{.LogoURL}}" alt="{{.LogoAlt}}" width="140" height="auto" loading="lazy" decoding="async" />
    <div id="bt-embed-wrapper" class="embed-wrapper">
      <textarea id="bt-embed-code" readonly>&lt;iframe src="{{.EmbedURL}}"
  title="{{.Title}}"
  width="100%" height="750" scrolling="no"
  style="border:0;" loading="lazy"&gt;&lt;/iframe&gt;</textarea>
      <p id="bt-copy-status" style="display:none;">Embed code copied!</p>
    </div>
  </div>

  <script>
  (function(){
    const root = document.getElementById('bt-block');
    if (!root || root.dataset.init === '1') return;
    root.dataset.init = '1';

    const table = root.querySelector('table.bt-table');
    const tb = table.tBodies[0];
    const emptyRow = tb.querySelector('.bt-empty');
    const heads = Array.from(table.tHead.rows[0].cells);
    const searchInput = root.querySelector('.bt-input');
    const sizeSel = root.querySelector('#bt-size');
    const prevBtn = root.querySelector('[data-page="prev"]');
    const nextBtn = root.querySelector('[data-page="next"]');

    Array.from(tb.rows).forEach((r,i)=>{ if(!r.classList.contains('bt-empty')) r.dataset.idx=i; });

    let pageSize = parseInt(sizeSel.value,10) || 10;
    let page = 1;
    let filter = '';

    heads.forEach((th,i)=>{
      const go = ()=> sortBy(i, th.dataset.type || 'text', th);
      th.addEventListener('click', go);
      th.addEventListener('keydown', e=>{ if(e.key==='Enter'||e.key===' '){ e.preventDefault(); go(); } });
    });

    function textOf(tr,i){ return (tr.children[i].innerText||'').trim(); }

    function sortBy(colIdx, type, th){
      const rows = Array.from(tb.rows).filter(r=>!r.classList.contains('bt-empty'));
      const current = th.dataset.sort || 'none';
      const next = current==='none' ? 'asc' : current==='asc' ? 'desc' : 'none';
      heads.forEach(h=>{ delete h.dataset.sort; });

      if(next === 'none'){
        rows.sort((a,b)=>(+a.dataset.idx)-(+b.dataset.idx));
      } else {
        th.dataset.sort = next;
        const mul = next==='asc'?1:-1;
        rows.sort((a,b)=>{
          let v1=textOf(a,colIdx), v2=textOf(b,colIdx);
          if(type==='num'){
            v1=parseFloat(v1.replace(/[^0-9.\-]/g,'')); if(isNaN(v1)) v1=-Infinity;
            v2=parseFloat(v2.replace(/[^0-9.\-]/g,'')); if(isNaN(v2)) v2=-Infinity;
          } else {
            v1=v1.toLowerCase(); v2=v2.toLowerCase();
          }
          return v1>v2 ? mul : v1<v2 ? -mul : 0;
        });
      }
      rows.forEach(r=>tb.insertBefore(r, emptyRow));
      renderPage();
    }

    function renderPage(){
      const ordered = Array.from(tb.rows).filter(r=>!r.classList.contains('bt-empty'));
      const visible = ordered.filter(r=>r.innerText.toLowerCase().includes(filter));
      ordered.forEach(r=>{ r.style.display='none'; });

      if(visible.length===0){
        emptyRow.style.display='table-row';
        prevBtn.disabled = nextBtn.disabled = true;
        return;
      }
      emptyRow.style.display='none';

      let shown = visible;
      if(pageSize>0){
        const pages = Math.max(1, Math.ceil(visible.length / pageSize));
        page = Math.min(Math.max(1, page), pages);
        shown = visible.slice((page-1)*pageSize, page*pageSize);
        prevBtn.disabled = page<=1;
        nextBtn.disabled = page>=pages;
      } else {
        prevBtn.disabled = nextBtn.disabled = true;
      }
      shown.forEach(r=>{ r.style.display='table-row'; });
    }

    let t=null;
    searchInput.addEventListener('input', e=>{
      clearTimeout(t);
      t=setTimeout(()=>{ filter=(e.target.value||'').toLowerCase().trim(); page=1; renderPage(); },120);
    });
    sizeSel.addEventListener('change', e=>{ pageSize=parseInt(e.target.value,10)||0; page=1; renderPage(); });
    prevBtn.addEventListener('click', ()=>{ page--; renderPage(); });
    nextBtn.addEventListener('click', ()=>{ page++; renderPage(); });
    renderPage();

    function sendHeightToParent(){
      try{
        window.parent.postMessage({ type:"resize-iframe", height:document.body.scrollHeight, src:window.location.href }, "*");
      }catch(e){}
    }
    window.addEventListener("load", sendHeightToParent);
    window.addEventListener("resize", sendHeightToParent);

    const btn = document.getElementById('bt-embed-btn');
    const wrapper = document.getElementById('bt-embed-wrapper');
    const ta = document.getElementById('bt-embed-code');
    const status = document.getElementById('bt-copy-status');
    btn.addEventListener('click', ()=>{
      const open = wrapper.style.display==='block';
      wrapper.style.display = open ? 'none' : 'block';
      btn.setAttribute('aria-expanded', String(!open));
      if(!open){
        ta.focus(); ta.select();
        try{ document.execCommand('copy'); }catch(e){}
        status.style.display='block';
        setTimeout(()=>status.style.display='none', 2500);
      }
      sendHeightToParent();
    });
  })();
  </script>

</section>
</body>
</html>
`))
