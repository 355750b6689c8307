// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchResult represents a candidate page returned by a web search query.
// Results are ephemeral: they exist only while a data point is being
// resolved and are never persisted.
type SearchResult struct {
	// URL is the address of the candidate page.
	URL string `json:"url" yaml:"url"`

	// Title is the page title as returned by the search service.
	Title string `json:"title" yaml:"title"`

	// Snippet is the content excerpt returned by the search service.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Score is the relevance score assigned by the search service.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}
