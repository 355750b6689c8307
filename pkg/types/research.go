// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-agent pipeline.
package types

import (
	"fmt"
	"strings"
	"time"
)

// NotFoundValue is the placeholder recorded when no source yields a usable
// value for a data point.
const NotFoundValue = "Could not find in top search results"

// NoSource is the placeholder source URL for a data point that was never
// resolved.
const NoSource = "N/A"

// ResearchRequest describes one research run: a topic, the ordered list of
// data points to locate, and whether searches should be biased toward
// authoritative consulting and analyst sources. Immutable once a run starts.
type ResearchRequest struct {
	// Topic is the main research subject (e.g. "The future of renewable
	// energy in Australia").
	Topic string `json:"topic" yaml:"topic"`

	// DataPoints lists the facts to locate, in the order they were entered.
	DataPoints []string `json:"data_points" yaml:"data_points"`

	// PreferAuthoritative biases every search query in the run toward a
	// fixed allow-list of consulting and analyst domains.
	PreferAuthoritative bool `json:"prefer_authoritative" yaml:"prefer_authoritative"`
}

// Validate reports whether the request can be executed.
func (r ResearchRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	if len(r.DataPoints) == 0 {
		return fmt.Errorf("at least one data point is required")
	}
	return nil
}

// ParseDataPoints splits multi-line user input into a data point list.
// Lines are trimmed of surrounding whitespace; blank lines are dropped.
func ParseDataPoints(input string) []string {
	var points []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			points = append(points, line)
		}
	}
	return points
}

// Finding is the resolved outcome for one data point: an extracted value and
// its source URL, or the not-found placeholders. Exactly one Finding exists
// per requested data point, in request order.
type Finding struct {
	// DataPoint is the fact that was requested, verbatim.
	DataPoint string `json:"data_point" yaml:"data_point"`

	// Value is the extracted fact, or NotFoundValue when every candidate
	// source was exhausted.
	Value string `json:"value" yaml:"value"`

	// SourceURL is the page the value was extracted from, or NoSource.
	SourceURL string `json:"source_url" yaml:"source_url"`
}

// Resolved reports whether the finding carries an extracted value rather
// than the not-found placeholder.
func (f Finding) Resolved() bool {
	return f.SourceURL != NoSource && f.SourceURL != ""
}

// Report is the durable artifact of one research run: the findings table in
// data-point order plus the generated executive summary.
type Report struct {
	// ID identifies the run in the history archive. Empty until saved.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Request is the request that produced this report.
	Request ResearchRequest `json:"request" yaml:"request"`

	// Findings holds one row per requested data point, in request order.
	Findings []Finding `json:"findings" yaml:"findings"`

	// Summary is the three-section executive narrative generated from the
	// findings table, or a literal error message if generation failed.
	Summary string `json:"summary" yaml:"summary"`

	// GeneratedAt is when the run finished.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// ResolvedCount returns the number of findings with an extracted value.
func (r Report) ResolvedCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Resolved() {
			n++
		}
	}
	return n
}
