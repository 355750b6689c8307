// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries a web search API and returns ordered candidate pages.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/research-agent/pkg/types"
)

// ErrUnavailable marks transport or service failures from the search
// backend. Callers treat it as "no results for this query" and move on.
var ErrUnavailable = errors.New("search service unavailable")

// eliteDomains is the fixed allow-list of consulting and analyst sources
// used when a run prefers authoritative results.
var eliteDomains = []string{
	"mckinsey.com",
	"bcg.com",
	"bain.com",
	"deloitte.com",
	"pwc.com",
	"gartner.com",
	"forrester.com",
	"statista.com",
}

// Backend searches a single web search API. Implementations must return
// results in the service's ranking order.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error)
}

// Searcher dispatches queries to a backend, applying the run-wide
// authoritative-source bias before each call.
type Searcher struct {
	Backend     Backend
	Config      types.SearchConfig
	PreferElite bool
}

// Search runs one query through the backend. When the searcher prefers
// elite sources the same fixed site-restriction clause is appended to
// every query; otherwise the query passes through unmodified. Backend
// failures are wrapped in ErrUnavailable.
func (s *Searcher) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	if s.PreferElite {
		query = AugmentQuery(query)
	}
	results, err := s.Backend.Search(ctx, query, s.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, s.Backend.Name(), err)
	}
	return results, nil
}

// AugmentQuery appends the elite-sources site-restriction clause to a query.
// The clause is deterministic: the domain order never changes within or
// across runs.
func AugmentQuery(query string) string {
	clauses := make([]string, len(eliteDomains))
	for i, d := range eliteDomains {
		clauses[i] = "site:" + d
	}
	return query + " (" + strings.Join(clauses, " OR ") + ")"
}
