// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract locates a requested fact within a candidate page by
// asking the model to answer strictly from the page's visible text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/pdiddy/research-agent/internal/genai"
	"github.com/pdiddy/research-agent/internal/webpage"
)

// notFoundSentinel is the exact phrase the prompt instructs the model to
// emit when the page does not contain the requested fact. The model
// occasionally wraps it in extra words, so detection is by substring.
const notFoundSentinel = "Information Not Found"

// OutcomeKind discriminates the three results of one extraction attempt.
type OutcomeKind int

const (
	// KindFound means the page yielded a usable value.
	KindFound OutcomeKind = iota

	// KindNotFound means the page was read but did not contain the fact.
	KindNotFound

	// KindFailed means the page could not be read or the model call
	// failed; the value of the page remains unknown.
	KindFailed
)

// String returns the kind name for progress output.
func (k OutcomeKind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindNotFound:
		return "not found"
	case KindFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the tagged result of one extraction attempt. Callers branch on
// Kind, never on the value text. NotFound and Failed both mean "try the
// next source" but stay distinguishable for diagnostics.
type Outcome struct {
	Kind      OutcomeKind
	Value     string
	SourceURL string
	Err       error
}

// Found builds a successful outcome.
func Found(value, url string) Outcome {
	return Outcome{Kind: KindFound, Value: value, SourceURL: url}
}

// NotFound builds an outcome for a readable page without the fact.
func NotFound(url string) Outcome {
	return Outcome{Kind: KindNotFound, SourceURL: url}
}

// Failed builds an outcome for an unreadable page or a failed model call.
func Failed(url string, err error) Outcome {
	return Outcome{Kind: KindFailed, SourceURL: url, Err: err}
}

// extractionPromptTmpl instructs the model to answer only from the given
// page text or emit the not-found sentinel.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`Based *only* on the following webpage text, find the value for this query: "{{.DataPoint}}".

If the answer is not present in the text, respond with only "Information Not Found". Do not add commentary or caveats; respond with the value alone.

Webpage text:
---
{{.Text}}
---
`))

// PageSource abstracts the page fetch so tests can supply canned text.
type PageSource interface {
	VisibleText(ctx context.Context, url string) (string, error)
}

// Extractor fetches a page and asks the model for one fact from its text.
type Extractor struct {
	Pages PageSource
	AI    genai.Client
}

// Extract resolves one (url, data point) pair into a tagged Outcome.
// Progress text is written to w after the fetch and after the model call;
// it has no effect on control flow.
func (e *Extractor) Extract(ctx context.Context, url, dataPoint string, w io.Writer) Outcome {
	fmt.Fprintf(w, "   scraping %s\n", url)

	text, err := e.Pages.VisibleText(ctx, url)
	if err != nil {
		if errors.Is(err, webpage.ErrNotHTML) {
			fmt.Fprintf(w, "   skipped: %v\n", err)
		} else {
			fmt.Fprintf(w, "   fetch failed: %v\n", err)
		}
		return Failed(url, err)
	}

	prompt, err := renderPrompt(dataPoint, text)
	if err != nil {
		return Failed(url, fmt.Errorf("rendering prompt: %w", err))
	}

	answer, err := e.AI.Generate(ctx, prompt)
	if err != nil {
		fmt.Fprintf(w, "   model call failed: %v\n", err)
		return Failed(url, fmt.Errorf("extraction model call: %w", err))
	}

	answer = strings.TrimSpace(answer)
	fmt.Fprintf(w, "   model: %s\n", preview(answer, 50))

	if strings.Contains(answer, notFoundSentinel) {
		return NotFound(url)
	}
	return Found(answer, url)
}

// renderPrompt executes the extraction template for one data point and page.
func renderPrompt(dataPoint, text string) (string, error) {
	var buf bytes.Buffer
	err := extractionPromptTmpl.Execute(&buf, struct {
		DataPoint string
		Text      string
	}{DataPoint: dataPoint, Text: text})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// preview shortens s for a progress line.
func preview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
