// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summary turns a completed findings table into an executive
// narrative with one model call.
package summary

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/research-agent/internal/genai"
	"github.com/pdiddy/research-agent/pkg/types"
)

// summaryPromptTmpl instructs the model to write the three-section
// narrative strictly from the serialized table.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`As a top-tier business consultant, write a concise, professional executive summary about "{{.Topic}}" based *only* on the research data below. Do not invent any information.

Structure the summary as exactly three labeled bulleted sections:

Key Insights: the most important findings from the data.
Implications: what the findings mean for decision makers.
Gaps & Next Steps: data points that could not be found and what to research next.

Research data:
---
{{.Table}}
---
`))

// Generator produces the executive summary for a run.
type Generator struct {
	AI genai.Client
}

// Generate serializes the findings table and asks the model for the
// three-section summary. The response is returned verbatim, trimmed. It is
// called exactly once per run, after every finding has been resolved, and
// must handle a table of nothing but placeholder rows.
func (g *Generator) Generate(ctx context.Context, topic string, findings []types.Finding) (string, error) {
	prompt, err := renderPrompt(topic, findings)
	if err != nil {
		return "", fmt.Errorf("rendering summary prompt: %w", err)
	}

	text, err := g.AI.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summary model call: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SerializeFindings flattens the table to the pipe-delimited text given to
// the model, one row per finding in table order.
func SerializeFindings(findings []types.Finding) string {
	var b strings.Builder
	b.WriteString("Data Point | Finding | Source URL\n")
	for _, f := range findings {
		fmt.Fprintf(&b, "%s | %s | %s\n", f.DataPoint, f.Value, f.SourceURL)
	}
	return b.String()
}

func renderPrompt(topic string, findings []types.Finding) (string, error) {
	var buf bytes.Buffer
	err := summaryPromptTmpl.Execute(&buf, struct {
		Topic string
		Table string
	}{Topic: topic, Table: SerializeFindings(findings)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
