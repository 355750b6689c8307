// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
)

type mockAI struct {
	response string
	err      error
}

func (m *mockAI) Generate(_ context.Context, _ string) (string, error) {
	return m.response, m.err
}

func TestQueriesParsesJSONArray(t *testing.T) {
	p := &Planner{AI: &mockAI{response: `["solar market australia 2030", "australia pv capacity forecast", "renewable investment outlook"]`}}

	got := p.Queries(context.Background(), "renewables", "market size", &bytes.Buffer{})

	want := []string{"solar market australia 2030", "australia pv capacity forecast", "renewable investment outlook"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("queries[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestQueriesStripsCodeFence(t *testing.T) {
	p := &Planner{AI: &mockAI{response: "```json\n[\"q1\", \"q2\", \"q3\"]\n```"}}

	got := p.Queries(context.Background(), "topic", "point", &bytes.Buffer{})
	if len(got) != 3 || got[0] != "q1" {
		t.Errorf("got %v, want [q1 q2 q3]", got)
	}
}

func TestQueriesRepairsSloppyJSON(t *testing.T) {
	// Single quotes and a trailing comma: invalid JSON the repair pass fixes.
	p := &Planner{AI: &mockAI{response: `['query one', 'query two',]`}}

	got := p.Queries(context.Background(), "topic", "point", &bytes.Buffer{})
	if len(got) != 2 || got[0] != "query one" || got[1] != "query two" {
		t.Errorf("got %v, want repaired [query one, query two]", got)
	}
}

func TestQueriesFallsBackOnGarbage(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prose", "Here are some great queries you could try!"},
		{"empty array", "[]"},
		{"array of blanks", `["", "   "]`},
		{"wrong type", `{"queries": ["a"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Planner{AI: &mockAI{response: tt.response}}
			var progress bytes.Buffer

			got := p.Queries(context.Background(), "renewables", "market size", &progress)

			if len(got) != 1 || got[0] != "renewables market size" {
				t.Errorf("got %v, want the single synthesized fallback", got)
			}
		})
	}
}

func TestQueriesFallsBackOnModelError(t *testing.T) {
	p := &Planner{AI: &mockAI{err: fmt.Errorf("model unavailable")}}
	var progress bytes.Buffer

	got := p.Queries(context.Background(), "renewables", "market size", &progress)

	if len(got) != 1 || got[0] != "renewables market size" {
		t.Errorf("got %v, want fallback query", got)
	}
	if !strings.Contains(progress.String(), "using direct query") {
		t.Errorf("progress should note the fallback: %q", progress.String())
	}
}

func TestQueriesCapsCount(t *testing.T) {
	p := &Planner{AI: &mockAI{response: `["a", "b", "c", "d", "e"]`}, MaxQueries: 3}

	got := p.Queries(context.Background(), "t", "p", &bytes.Buffer{})
	if len(got) != 3 {
		t.Errorf("len = %d, want capped at 3", len(got))
	}
}

func TestFallbackQuery(t *testing.T) {
	if got := FallbackQuery("The future of renewable energy", "Key incentives"); got != "The future of renewable energy Key incentives" {
		t.Errorf("FallbackQuery = %q", got)
	}
}
