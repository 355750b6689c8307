// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research orchestrates the pipeline: plan queries, search the web,
// extract facts from candidate pages, and summarize the findings table.
package research

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/research-agent/internal/extract"
	"github.com/pdiddy/research-agent/pkg/types"
)

// QueryPlanner produces candidate search queries for one data point. It
// never fails: a planner that cannot plan returns the synthesized default.
type QueryPlanner interface {
	Queries(ctx context.Context, topic, dataPoint string, w io.Writer) []string
}

// Searcher runs one query and returns candidate pages in ranking order.
type Searcher interface {
	Search(ctx context.Context, query string) ([]types.SearchResult, error)
}

// PageExtractor resolves one (url, data point) pair into a tagged outcome.
type PageExtractor interface {
	Extract(ctx context.Context, url, dataPoint string, w io.Writer) extract.Outcome
}

// Summarizer generates the executive summary from the completed table.
type Summarizer interface {
	Generate(ctx context.Context, topic string, findings []types.Finding) (string, error)
}

// Orchestrator wires the pipeline stages together for one run.
type Orchestrator struct {
	Planner   QueryPlanner
	Searcher  Searcher
	Extractor PageExtractor
	Summary   Summarizer

	// Parallelism bounds how many data points are resolved concurrently.
	// Values below 2 resolve points strictly sequentially in input order.
	Parallelism int
}

// Run resolves every data point of the request and generates the summary.
// The report always carries exactly one finding per data point, in request
// order, regardless of how many sources failed. The summary call happens
// exactly once, after all findings are resolved; if it fails the report
// carries a literal error message in its place.
func (o *Orchestrator) Run(ctx context.Context, req types.ResearchRequest, w io.Writer) (*types.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	total := len(req.DataPoints)
	findings := make([]types.Finding, total)

	if o.Parallelism > 1 {
		sink := &syncWriter{w: w}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.Parallelism)
		for i, point := range req.DataPoints {
			i, point := i, point
			g.Go(func() error {
				fmt.Fprintf(sink, "(%d/%d) searching for: %q\n", i+1, total, point)
				findings[i] = o.resolvePoint(gctx, req.Topic, point, sink)
				return nil
			})
		}
		g.Wait()
	} else {
		for i, point := range req.DataPoints {
			fmt.Fprintf(w, "(%d/%d) searching for: %q\n", i+1, total, point)
			findings[i] = o.resolvePoint(ctx, req.Topic, point, w)
		}
	}

	fmt.Fprintln(w, "generating summary...")
	summaryText, err := o.Summary.Generate(ctx, req.Topic, findings)
	if err != nil {
		// Degrade, not crash: the findings table is still valid.
		summaryText = fmt.Sprintf("Error generating summary: %v", err)
		fmt.Fprintf(w, "warning: %v\n", err)
	}

	return &types.Report{
		Request:     req,
		Findings:    findings,
		Summary:     summaryText,
		GeneratedAt: time.Now().UTC(),
		Duration:    time.Since(start),
	}, nil
}

// resolvePoint walks one data point through the state machine
// Pending → Searching → Extracting → Found | Exhausted. The first
// extraction that yields a value wins; remaining queries and URLs for the
// point are never attempted. An exhausted point records the fixed
// placeholder finding.
func (o *Orchestrator) resolvePoint(ctx context.Context, topic, point string, w io.Writer) types.Finding {
	var (
		state   = StatePending
		queries []string
		qi      int
		pages   []types.SearchResult
		pi      int
		finding types.Finding
	)

	for {
		if ctx.Err() != nil {
			state = StateExhausted
		}

		switch state {
		case StatePending:
			queries = o.Planner.Queries(ctx, topic, point, w)
			state = StateSearching

		case StateSearching:
			if qi >= len(queries) {
				state = StateExhausted
				continue
			}
			fmt.Fprintf(w, "  query: %q\n", queries[qi])
			results, err := o.Searcher.Search(ctx, queries[qi])
			if err != nil {
				// Unavailable search counts as zero results for this query.
				fmt.Fprintf(w, "  warning: %v\n", err)
				results = nil
			}
			pages = results
			pi = 0
			state = StateExtracting

		case StateExtracting:
			if pi >= len(pages) {
				qi++
				state = StateSearching
				continue
			}
			outcome := o.Extractor.Extract(ctx, pages[pi].URL, point, w)
			if outcome.Kind == extract.KindFound {
				finding = types.Finding{
					DataPoint: point,
					Value:     outcome.Value,
					SourceURL: outcome.SourceURL,
				}
				state = StateFound
				continue
			}
			// NotFound and Failed both advance to the next candidate.
			pi++

		case StateFound:
			return finding

		case StateExhausted:
			return types.Finding{
				DataPoint: point,
				Value:     types.NotFoundValue,
				SourceURL: types.NoSource,
			}
		}
	}
}

// syncWriter serializes progress writes from concurrent point resolvers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
