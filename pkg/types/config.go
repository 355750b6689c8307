// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchDepth selects how thoroughly the search service crawls for a query.
type SearchDepth string

const (
	DepthBasic    SearchDepth = "basic"
	DepthAdvanced SearchDepth = "advanced"
)

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the search service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Depth is the search depth: basic or advanced (default basic).
	Depth SearchDepth `json:"depth" yaml:"depth"`

	// MaxResults is the maximum number of result URLs per query (default 3).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// FetchConfig holds settings for fetching and stripping candidate pages.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxTextChars bounds the visible text passed to the model (default 15000).
	MaxTextChars int `json:"max_text_chars" yaml:"max_text_chars"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout is the HTTP timeout for a single model call (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retry attempts for rate-limited calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PlannerConfig holds settings for the query planning stage.
type PlannerConfig struct {
	// Enabled controls whether the model proposes alternative query
	// phrasings. When false each data point gets the single synthesized
	// query "{topic} {data point}".
	Enabled bool `json:"enabled" yaml:"enabled"`

	// MaxQueries bounds the number of planned queries per data point (default 3).
	MaxQueries int `json:"max_queries" yaml:"max_queries"`
}

// HistoryConfig holds settings for the run history archive.
type HistoryConfig struct {
	// DBPath is the SQLite database file for saved runs.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// PipelineConfig groups all stage configurations for one research run.
type PipelineConfig struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Planner PlannerConfig `json:"planner" yaml:"planner"`
	History HistoryConfig `json:"history" yaml:"history"`

	// Parallelism bounds how many data points are resolved concurrently.
	// The default of 1 preserves strictly sequential resolution.
	Parallelism int `json:"parallelism" yaml:"parallelism"`
}
