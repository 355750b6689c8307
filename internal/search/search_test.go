// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/research-agent/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	name    string
	results []types.SearchResult
	err     error
	queries []string
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Search(_ context.Context, query string, _ types.SearchConfig) ([]types.SearchResult, error) {
	m.queries = append(m.queries, query)
	return m.results, m.err
}

func TestAugmentQueryIsDeterministic(t *testing.T) {
	first := AugmentQuery("solar market size")
	second := AugmentQuery("solar market size")
	if first != second {
		t.Errorf("augmented query differs between calls:\n%s\n%s", first, second)
	}

	if !strings.HasPrefix(first, "solar market size (site:") {
		t.Errorf("augmented query should append the site clause, got %q", first)
	}
	for _, d := range eliteDomains {
		if !strings.Contains(first, "site:"+d) {
			t.Errorf("augmented query missing domain %s", d)
		}
	}
	if strings.Count(first, " OR ") != len(eliteDomains)-1 {
		t.Errorf("expected %d OR separators, got %d", len(eliteDomains)-1, strings.Count(first, " OR "))
	}
}

func TestSearcherAppliesEliteBias(t *testing.T) {
	backend := &mockBackend{name: "mock"}
	s := &Searcher{Backend: backend, PreferElite: true}

	s.Search(context.Background(), "query one")
	s.Search(context.Background(), "query two")

	if len(backend.queries) != 2 {
		t.Fatalf("backend saw %d queries, want 2", len(backend.queries))
	}
	for _, q := range backend.queries {
		if !strings.Contains(q, "site:mckinsey.com") {
			t.Errorf("elite bias not applied to query %q", q)
		}
	}
}

func TestSearcherPassthroughWithoutElite(t *testing.T) {
	backend := &mockBackend{name: "mock"}
	s := &Searcher{Backend: backend, PreferElite: false}

	s.Search(context.Background(), "wind energy challenges")

	if got := backend.queries[0]; got != "wind energy challenges" {
		t.Errorf("query modified without elite toggle: %q", got)
	}
}

func TestSearcherWrapsBackendErrors(t *testing.T) {
	backend := &mockBackend{name: "mock", err: fmt.Errorf("connection refused")}
	s := &Searcher{Backend: backend}

	_, err := s.Search(context.Background(), "anything")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("backend failure should wrap ErrUnavailable, got %v", err)
	}
}

func TestSearcherReturnsResultsInOrder(t *testing.T) {
	backend := &mockBackend{
		name: "mock",
		results: []types.SearchResult{
			{URL: "https://a.example.com", Score: 0.9},
			{URL: "https://b.example.com", Score: 0.8},
			{URL: "https://c.example.com", Score: 0.7},
		},
	}
	s := &Searcher{Backend: backend}

	results, err := s.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	want := []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"}
	for i, r := range results {
		if r.URL != want[i] {
			t.Errorf("results[%d].URL = %q, want %q", i, r.URL, want[i])
		}
	}
}
