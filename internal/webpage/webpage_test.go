// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package webpage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/research-agent/pkg/types"
)

func testFetcher(client *http.Client) *Fetcher {
	f := NewFetcher(types.FetchConfig{})
	f.Client = client
	return f
}

func TestVisibleTextStripsMarkup(t *testing.T) {
	page := `<html><head>
		<title>Report</title>
		<style>body { color: red; }</style>
		<script>console.log("tracking");</script>
	</head><body>
		<h1>Market   Outlook</h1>
		<p>The market is projected to reach
		<b>$12bn</b> by 2030.</p>
		<noscript>enable js</noscript>
	</body></html>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	text, err := testFetcher(ts.Client()).VisibleText(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("VisibleText() error: %v", err)
	}

	if strings.Contains(text, "tracking") || strings.Contains(text, "color: red") || strings.Contains(text, "enable js") {
		t.Errorf("non-visible content leaked into text: %q", text)
	}
	if !strings.Contains(text, "Market Outlook") {
		t.Errorf("whitespace not collapsed: %q", text)
	}
	if !strings.Contains(text, "$12bn by 2030") {
		t.Errorf("visible text missing: %q", text)
	}
}

func TestVisibleTextSendsUserAgent(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, "<html><body>hello</body></html>")
	}))
	defer ts.Close()

	if _, err := testFetcher(ts.Client()).VisibleText(context.Background(), ts.URL); err != nil {
		t.Fatalf("VisibleText() error: %v", err)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want the browser-like default", gotUA)
	}
}

func TestVisibleTextTruncates(t *testing.T) {
	long := strings.Repeat("word ", 10000)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "<html><body>%s</body></html>", long)
	}))
	defer ts.Close()

	f := NewFetcher(types.FetchConfig{MaxTextChars: 100})
	f.Client = ts.Client()

	text, err := f.VisibleText(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("VisibleText() error: %v", err)
	}
	if len(text) > 100 {
		t.Errorf("len(text) = %d, want <= 100", len(text))
	}
}

func TestVisibleTextRejectsNonHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.4")
	}))
	defer ts.Close()

	_, err := testFetcher(ts.Client()).VisibleText(context.Background(), ts.URL)
	if !errors.Is(err, ErrNotHTML) {
		t.Errorf("error = %v, want ErrNotHTML", err)
	}
}

func TestVisibleTextHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := testFetcher(ts.Client()).VisibleText(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("expected error for HTTP 404")
	}
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	s := strings.Repeat("é", 10) // 2 bytes each
	got := truncate(s, 5)
	if len(got) > 5 {
		t.Errorf("len = %d, want <= 5", len(got))
	}
	if !strings.HasPrefix(s, got) {
		t.Errorf("truncated string %q is not a prefix of input", got)
	}
	for _, r := range got {
		if r == '�' {
			t.Error("truncation split a UTF-8 sequence")
		}
	}
}
