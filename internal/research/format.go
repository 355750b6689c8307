// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/research-agent/pkg/types"
)

// FormatTable writes the findings as a human-readable table to w.
func FormatTable(findings []types.Finding, w io.Writer) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return
	}

	fmt.Fprintf(w, "%-40s  %-60s  %s\n", "Data Point", "Finding", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 130))

	for _, f := range findings {
		fmt.Fprintf(w, "%-40s  %-60s  %s\n",
			truncate(f.DataPoint, 40), truncate(f.Value, 60), f.SourceURL)
	}

	resolved := 0
	for _, f := range findings {
		if f.Resolved() {
			resolved++
		}
	}
	fmt.Fprintf(w, "\n%d of %d data points resolved\n", resolved, len(findings))
}

// FormatJSON writes the full report as indented JSON to w.
func FormatJSON(report *types.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// truncate cuts s to fit a max-byte column without splitting a UTF-8
// sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max-3]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut + "..."
}
