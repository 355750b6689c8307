// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the research form UI on a local port",
	Long: `Serve starts a local HTTP server with a single-page form: topic, data
points (one per line), and an authoritative-sources toggle. Submitting the
form runs the full pipeline and renders the progress log, the findings
table, and the executive summary.`,
	RunE: runServe,
}

const defaultTopic = "The future of renewable energy in Australia"

const defaultDataPoints = `Projected market size by 2030
Key government incentives
Leading companies in the solar energy sector
Main challenges for wind energy adoption`

var formTmpl = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head><title>research-agent</title></head>
<body>
<h1>research-agent</h1>
<p>Enter a topic and the data points you need. The agent searches the web,
extracts the information, and generates a summary.</p>
<form method="POST" action="/research">
  <p><label>Research topic:<br>
    <input type="text" name="topic" size="80" value="{{.Topic}}" required>
  </label></p>
  <p><label>Data points (one per line):<br>
    <textarea name="data_points" rows="8" cols="80" required>{{.DataPoints}}</textarea>
  </label></p>
  <p><label>
    <input type="checkbox" name="elite" value="1"{{if .Elite}} checked{{end}}>
    Prefer authoritative consulting and analyst sources
  </label></p>
  <p><button type="submit">Start Research</button></p>
</form>
</body>
</html>
`))

var resultTmpl = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head><title>research-agent — {{.Report.Request.Topic}}</title></head>
<body>
<h1>Research complete</h1>
<p><a href="/">New research</a></p>

<h2>Research Findings</h2>
<table border="1" cellpadding="4">
  <tr><th>Data Point</th><th>Finding</th><th>Source URL</th></tr>
  {{range .Report.Findings}}
  <tr><td>{{.DataPoint}}</td><td>{{.Value}}</td><td>{{.SourceURL}}</td></tr>
  {{end}}
</table>

<h2>Executive Summary</h2>
<pre>{{.Report.Summary}}</pre>

<h2>Progress Log</h2>
<pre>{{.Progress}}</pre>
</body>
</html>
`))

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		// Render to a buffer first so a template failure produces a clean
		// error response instead of a half-written page.
		var page bytes.Buffer
		if err := renderForm(&page); err != nil {
			http.Error(w, fmt.Sprintf("rendering form: %v", err), http.StatusInternalServerError)
			return
		}
		page.WriteTo(w)
	})
	mux.HandleFunc("POST /research", func(w http.ResponseWriter, r *http.Request) {
		handleResearch(cmd, w, r)
	})

	fmt.Fprintf(os.Stderr, "Serving research form on http://%s\n", addr)
	return http.ListenAndServe(addr, mux)
}

// handleResearch runs the whole pipeline for one form submission and
// renders the result page. The run is synchronous; the progress log is
// captured and shown with the findings.
func handleResearch(cmd *cobra.Command, w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := types.ResearchRequest{
		Topic:               r.FormValue("topic"),
		DataPoints:          types.ParseDataPoints(r.FormValue("data_points")),
		PreferAuthoritative: r.FormValue("elite") == "1",
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	orch, cleanup, err := buildOrchestrator(cmd, req.PreferAuthoritative)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer cleanup()

	var progress bytes.Buffer
	report, err := orch.Run(r.Context(), req, &progress)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var page bytes.Buffer
	if err := renderResult(&page, report, progress.String()); err != nil {
		http.Error(w, fmt.Sprintf("rendering result: %v", err), http.StatusInternalServerError)
		return
	}
	page.WriteTo(w)
}

// renderForm writes the research form page.
func renderForm(w io.Writer) error {
	return formTmpl.Execute(w, struct {
		Topic, DataPoints string
		Elite             bool
	}{defaultTopic, defaultDataPoints, false})
}

// renderResult writes the completed-run page: findings table, summary, and
// the captured progress log.
func renderResult(w io.Writer, report *types.Report, progress string) error {
	return resultTmpl.Execute(w, struct {
		Report   *types.Report
		Progress string
	}{report, progress})
}

func init() {
	serveCmd.Flags().String("addr", "localhost:8080", "listen address")
	addPipelineFlags(serveCmd)

	rootCmd.AddCommand(serveCmd)
}
