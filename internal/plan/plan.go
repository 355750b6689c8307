// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan asks the model for alternative search phrasings of a data
// point, raising recall before the pipeline gives up on it.
package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/kaptinlin/jsonrepair"

	"github.com/pdiddy/research-agent/internal/genai"
)

const defaultMaxQueries = 3

// planPromptTmpl asks for query phrasings as a bare JSON array. The model's
// output is parsed, never evaluated.
var planPromptTmpl = template.Must(template.New("plan").Parse(`Propose {{.Count}} diverse web search queries to find this fact about "{{.Topic}}": "{{.DataPoint}}".

Vary the wording and angle across the queries. Respond with only a JSON array of {{.Count}} strings, nothing else.

Example response:
["renewable energy australia market size forecast 2030", "australia clean energy sector projected value", "2030 renewable electricity market outlook australia"]
`))

// Planner generates candidate search queries for one data point.
type Planner struct {
	AI         genai.Client
	MaxQueries int
}

// Queries returns an ordered list of search queries for the data point.
// On any model or parse failure it falls back to the single synthesized
// query "{topic} {data point}", so the caller always gets at least one
// query. Progress text goes to w.
func (p *Planner) Queries(ctx context.Context, topic, dataPoint string, w io.Writer) []string {
	max := p.MaxQueries
	if max <= 0 {
		max = defaultMaxQueries
	}
	fallback := []string{FallbackQuery(topic, dataPoint)}

	prompt, err := renderPrompt(topic, dataPoint, max)
	if err != nil {
		return fallback
	}

	raw, err := p.AI.Generate(ctx, prompt)
	if err != nil {
		fmt.Fprintf(w, "   query planning failed, using direct query: %v\n", err)
		return fallback
	}

	queries, err := parseQueryList(raw, max)
	if err != nil {
		fmt.Fprintf(w, "   query plan unparseable, using direct query: %v\n", err)
		return fallback
	}

	return queries
}

// FallbackQuery synthesizes the single default query for a data point.
func FallbackQuery(topic, dataPoint string) string {
	return topic + " " + dataPoint
}

// parseQueryList validates the model's response as a JSON array of strings.
// Markdown code fences are stripped and a JSON repair pass is attempted
// before rejecting; anything else is an error and the caller falls back.
func parseQueryList(raw string, max int) ([]string, error) {
	cleaned := stripCodeFence(raw)

	var queries []string
	if err := json.Unmarshal([]byte(cleaned), &queries); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(cleaned)
		if repairErr != nil {
			return nil, fmt.Errorf("parsing query list: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &queries); err != nil {
			return nil, fmt.Errorf("parsing repaired query list: %w", err)
		}
	}

	var valid []string
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		valid = append(valid, q)
		if len(valid) == max {
			break
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("query list is empty")
	}
	return valid, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// renderPrompt executes the planning template.
func renderPrompt(topic, dataPoint string, count int) (string, error) {
	var buf bytes.Buffer
	err := planPromptTmpl.Execute(&buf, struct {
		Topic     string
		DataPoint string
		Count     int
	}{Topic: topic, DataPoint: dataPoint, Count: count})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
