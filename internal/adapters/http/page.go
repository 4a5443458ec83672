package http

import (
	"bytes"
	"context"
	"html/template"
	"io"

	"github.com/samirrijal/geofunlab/internal/cartography"
	"github.com/samirrijal/geofunlab/internal/core/domain"
	"github.com/samirrijal/geofunlab/internal/core/usecases"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Geographer Fun Lab</title>
{{- if .View.Busy}}
<meta http-equiv="refresh" content="2">
{{- end}}
<style>
body{margin:0;font-family:system-ui,sans-serif;background:#0f172a;color:#e2e8f0}
.app-shell{display:grid;grid-template-columns:minmax(320px,1fr) 2fr;gap:24px;padding:24px}
.panel{background:#111c33;border-radius:16px;padding:24px}
.tag-pulse{font-size:.75rem;text-transform:uppercase;letter-spacing:.1em;color:#5eead4}
.primary-btn{background:#38bdf8;color:#0f172a;border:0;border-radius:999px;padding:10px 18px;font-weight:600;cursor:pointer}
.primary-btn:disabled{opacity:.6;cursor:progress}
.loading-state{margin-top:16px;color:#94a3b8}
.error-state{margin-top:16px;color:#fca5a5}
.challenge-type{margin-top:16px;color:#facc15;font-weight:600}
.challenge-prompt{margin:8px 0;font-size:1.2rem}
.hidden-text{letter-spacing:.3em}
.fact-card{margin-top:12px;padding:12px;border-radius:12px;background:#1e293b}
.status-chip{margin-left:12px;font-size:.75rem;padding:4px 10px;border-radius:999px;background:#1e293b}
.map-wrapper svg{width:100%;height:auto}
</style>
</head>
<body>
<main class="app-shell" data-phase="{{.View.Phase}}" data-generation="{{.View.Generation}}" data-revealed="{{.View.Revealed}}">
<section class="panel">
<span class="tag-pulse">Live cartography playground</span>
<div class="challenge-card">
<h1>Geographer Fun Lab</h1>
<p class="lead">Explore a rotating supply of geo trivia, carto puzzles, and map storytelling prompts.</p>
<form method="post" action="/challenge">
<button class="primary-btn" type="submit"{{if not .View.CanRequestNew}} disabled{{end}}>{{.View.RequestLabel}}</button>
</form>
{{- if .View.Busy}}
<div class="loading-state">{{.View.BusyText}}</div>
{{- end}}
{{- with .View.Error}}
<div class="error-state">{{.}}</div>
{{- end}}
{{- with .View.Challenge}}
<div class="challenge-type">{{.Type}}</div>
<div class="challenge-prompt">{{.Prompt}}</div>
<div class="hint-stack">
<h3>Field Notes</h3>
<ul>
{{- range .Hints}}
<li id="{{.Key}}">{{.Text}}</li>
{{- end}}
</ul>
</div>
<div class="answer-block">
<div class="answer-text">
{{- if $.View.Revealed}}<strong>Answer:</strong> {{.Answer}}{{else}}<span class="hidden-text">{{.Answer}}</span>{{end -}}
</div>
<form method="post" action="/challenge/answer">
<button class="primary-btn" type="submit">{{$.View.RevealLabel}}</button>
</form>
</div>
<div class="fact-card"><strong>Fun Fact:</strong> {{.FunFact}}</div>
{{- end}}
</div>
</section>
<section class="panel map-panel">
<h2>Atlas View<span class="status-chip">{{.View.Status}}</span></h2>
<div class="map-wrapper">{{.Map}}</div>
{{- if .View.Challenge}}
<div class="fact-card"><strong>World Whisper:</strong> {{.View.WorldFact}}</div>
<div class="fact-card"><strong>Cartography Prompt:</strong> {{.View.Inspiration}}</div>
{{- end}}
</section>
</main>
<script>
(function () {
  var shell = document.querySelector(".app-shell");
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = function (msg) {
    var data;
    try { data = JSON.parse(msg.data); } catch (e) { return; }
    if (data.type !== "view_changed" || !data.event) { return; }
    var ev = data.event;
    if (String(ev.generation) !== shell.dataset.generation ||
        ev.phase !== shell.dataset.phase ||
        String(ev.revealed) !== shell.dataset.revealed) {
      location.reload();
    }
  };
})();
</script>
</body>
</html>
`))

type pageData struct {
	View usecases.View
	Map  template.HTML
}

// renderMap draws the map panel. A features failure still yields a map,
// with the marker but no outlines.
func renderMap(ctx context.Context, deps *Dependencies, loc *domain.GeoPoint, vp cartography.Viewport) (template.HTML, error) {
	var feats []cartography.Feature
	var loadErr error
	if deps.Features != nil {
		feats, loadErr = deps.Features.Features(ctx)
	}

	var buf bytes.Buffer
	if err := cartography.Render(feats, loc, vp).WriteSVG(&buf); err != nil {
		return "", err
	}
	// WriteSVG output is produced by html/template.
	return template.HTML(buf.String()), loadErr
}

func writePage(w io.Writer, view usecases.View, svg template.HTML) error {
	return pageTemplate.Execute(w, pageData{View: view, Map: svg})
}
