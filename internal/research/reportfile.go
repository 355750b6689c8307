// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-agent/pkg/types"
)

// LoadRequest reads a ResearchRequest from a YAML file. Data points are
// normalized the same way as interactive input: trimmed, blanks dropped.
func LoadRequest(path string) (types.ResearchRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ResearchRequest{}, fmt.Errorf("reading request file: %w", err)
	}

	var req types.ResearchRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return types.ResearchRequest{}, fmt.Errorf("parsing request file: %w", err)
	}

	var points []string
	for _, p := range req.DataPoints {
		points = append(points, types.ParseDataPoints(p)...)
	}
	req.DataPoints = points

	if err := req.Validate(); err != nil {
		return types.ResearchRequest{}, fmt.Errorf("request file %s: %w", path, err)
	}
	return req, nil
}

// SaveReport writes the full report to a YAML file so a run can be kept or
// diffed without re-querying anything.
func SaveReport(path string, report *types.Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadReport reads a previously saved report from a YAML file.
func LoadReport(path string) (*types.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}
	var report types.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing report file: %w", err)
	}
	return &report, nil
}
