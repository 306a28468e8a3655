package report

import (
	"bytes"
	"html/template"
	"io"
	"time"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/roboscan/roboscan/internal/types"
)

type htmlIssue struct {
	types.Finding
	Code template.HTML
}

type htmlPage struct {
	Target    string
	Timestamp string
	Stats     Summary
	Issues    []htmlIssue
}

// WriteHTML writes a self-contained dashboard for target.
func WriteHTML(w io.Writer, target string, findings []types.Finding, now time.Time) error {
	page := htmlPage{
		Target:    target,
		Timestamp: now.Format("2006-01-02 15:04:05"),
		Stats:     Summarize(findings),
	}
	for _, f := range findings {
		page.Issues = append(page.Issues, htmlIssue{Finding: f, Code: highlightSnippet(f.Snippet)})
	}
	return dashboard.Execute(w, page)
}

// highlightSnippet renders one line of Solidity as inline-styled HTML.
// Empty input yields an empty fragment.
func highlightSnippet(code string) template.HTML {
	if code == "" {
		return ""
	}
	lexer := lexers.Get("solidity")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("github-dark")
	if style == nil {
		style = styles.Fallback
	}

	formatter := chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4))
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(code) + "</pre>")
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(code) + "</pre>")
	}
	return template.HTML(buf.String()) // #nosec G203 -- chroma escapes token text
}

var dashboard = template.Must(template.New("report").Parse(dashboardHTML))

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>RoboScan Audit Report</title>
<style>
:root {
  --bg-color: #0d1117;
  --card-bg: #161b22;
  --text-primary: #c9d1d9;
  --text-secondary: #8b949e;
  --accent: #58a6ff;
  --critical: #da3633;
  --high: #d29922;
  --medium: #3fb950;
  --low: #58a6ff;
  --border: #30363d;
}
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif; background-color: var(--bg-color); color: var(--text-primary); margin: 0; padding: 20px; }
.container { max-width: 1000px; margin: 0 auto; }
.header { display: flex; justify-content: space-between; align-items: center; border-bottom: 1px solid var(--border); padding-bottom: 20px; margin-bottom: 30px; }
h1 { margin: 0; font-size: 24px; color: var(--accent); }
.meta { color: var(--text-secondary); font-size: 14px; }
.stats-grid { display: grid; grid-template-columns: repeat(5, 1fr); gap: 15px; margin-bottom: 30px; }
.stat-card { background: var(--card-bg); padding: 15px; border-radius: 6px; border: 1px solid var(--border); text-align: center; }
.stat-value { font-size: 28px; font-weight: bold; display: block; }
.stat-label { font-size: 12px; color: var(--text-secondary); text-transform: uppercase; letter-spacing: 1px; }
.c-critical { color: var(--critical); }
.c-high { color: var(--high); }
.c-medium { color: var(--medium); }
.c-low { color: var(--low); }
.filters { margin-bottom: 20px; }
.btn { background: var(--card-bg); border: 1px solid var(--border); color: var(--text-primary); padding: 8px 16px; border-radius: 6px; cursor: pointer; margin-right: 10px; transition: 0.2s; }
.btn:hover, .btn.active { background: var(--accent); color: white; border-color: var(--accent); }
.issue-card { background: var(--card-bg); border: 1px solid var(--border); border-radius: 6px; padding: 20px; margin-bottom: 15px; border-left: 5px solid transparent; }
.issue-card.CRITICAL { border-left-color: var(--critical); }
.issue-card.HIGH { border-left-color: var(--high); }
.issue-card.MEDIUM { border-left-color: var(--medium); }
.issue-card.LOW { border-left-color: var(--low); }
.issue-header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 10px; }
.badge { padding: 4px 8px; border-radius: 4px; font-size: 12px; font-weight: bold; background: #30363d; }
.badge.CRITICAL { color: var(--critical); border: 1px solid var(--critical); }
.badge.HIGH { color: var(--high); border: 1px solid var(--high); }
.badge.MEDIUM { color: var(--medium); border: 1px solid var(--medium); }
.badge.LOW { color: var(--low); border: 1px solid var(--low); }
.file-loc { color: var(--text-secondary); font-family: monospace; font-size: 13px; }
.desc { line-height: 1.5; }
.code pre { padding: 10px; border-radius: 6px; overflow-x: auto; margin: 10px 0 0; }
.empty-state { text-align: center; padding: 50px; color: var(--text-secondary); }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <div>
      <h1>🛡️ RoboScan Report</h1>
      <span class="meta">Target: {{.Target}}</span>
    </div>
    <div class="meta">Scanned on: {{.Timestamp}}</div>
  </div>

  <div class="stats-grid">
    <div class="stat-card"><span class="stat-value c-critical">{{.Stats.Critical}}</span><span class="stat-label">Critical</span></div>
    <div class="stat-card"><span class="stat-value c-high">{{.Stats.High}}</span><span class="stat-label">High</span></div>
    <div class="stat-card"><span class="stat-value c-medium">{{.Stats.Medium}}</span><span class="stat-label">Medium</span></div>
    <div class="stat-card"><span class="stat-value c-low">{{.Stats.Low}}</span><span class="stat-label">Low</span></div>
    <div class="stat-card"><span class="stat-value">{{.Stats.Total}}</span><span class="stat-label">Total Issues</span></div>
  </div>

  <div class="filters">
    <button class="btn active" onclick="filterIssues(event, 'ALL')">All</button>
    <button class="btn" onclick="filterIssues(event, 'CRITICAL')">Critical</button>
    <button class="btn" onclick="filterIssues(event, 'HIGH')">High</button>
    <button class="btn" onclick="filterIssues(event, 'MEDIUM')">Medium</button>
    <button class="btn" onclick="filterIssues(event, 'LOW')">Low</button>
  </div>

  <div id="issues-container">
{{- if not .Issues}}
    <div class="empty-state">
      <h2>✅ Clean Code!</h2>
      <p>No security vulnerabilities were detected.</p>
    </div>
{{- else}}
{{- range .Issues}}
    <div class="issue-card {{.Severity}}">
      <div class="issue-header">
        <h3 style="margin:0">{{.Title}}</h3>
        <span class="badge {{.Severity}}">{{.Severity}}</span>
      </div>
      <div class="file-loc">📄 {{.Path}} : Line {{.Line}}</div>
      <p class="desc">{{.Description}}</p>
      {{- if .Code}}
      <div class="code">{{.Code}}</div>
      {{- end}}
    </div>
{{- end}}
{{- end}}
  </div>
</div>
<script>
function filterIssues(ev, severity) {
  document.querySelectorAll('.btn').forEach(function (btn) { btn.classList.remove('active'); });
  ev.target.classList.add('active');
  document.querySelectorAll('.issue-card').forEach(function (card) {
    card.style.display = (severity === 'ALL' || card.classList.contains(severity)) ? 'block' : 'none';
  });
}
</script>
</body>
</html>
`
