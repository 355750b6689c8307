// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDataPoints(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "A\nB", []string{"A", "B"}},
		{"blanks and padding", "A\n\n  B  \n\t\n", []string{"A", "B"}},
		{"single line", "only one", []string{"only one"}},
		{"empty input", "", nil},
		{"whitespace only", "  \n\t\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDataPoints(tt.input))
		})
	}
}

func TestRequestValidate(t *testing.T) {
	valid := ResearchRequest{Topic: "t", DataPoints: []string{"a"}}
	assert.NoError(t, valid.Validate())

	assert.Error(t, ResearchRequest{DataPoints: []string{"a"}}.Validate())
	assert.Error(t, ResearchRequest{Topic: "   ", DataPoints: []string{"a"}}.Validate())
	assert.Error(t, ResearchRequest{Topic: "t"}.Validate())
}

func TestFindingResolved(t *testing.T) {
	assert.True(t, Finding{DataPoint: "a", Value: "v", SourceURL: "https://example.com"}.Resolved())
	assert.False(t, Finding{DataPoint: "a", Value: NotFoundValue, SourceURL: NoSource}.Resolved())
	assert.False(t, Finding{}.Resolved())
}

func TestReportResolvedCount(t *testing.T) {
	r := Report{Findings: []Finding{
		{SourceURL: "https://one.example.com"},
		{SourceURL: NoSource},
		{SourceURL: "https://two.example.com"},
	}}
	assert.Equal(t, 2, r.ResolvedCount())
}
