package tasty

import (
	"context"
	"strings"
	"testing"
)

func TestReporterFlushWithNoFindings(t *testing.T) {
	r := NewReporter(nil)
	md, html, err := r.Flush(context.Background())
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if !strings.Contains(md, "No unsupported features encountered.") {
		t.Fatalf("Flush() markdown = %q, want the no-findings line", md)
	}
	if !strings.Contains(html, "<p>") {
		t.Fatalf("Flush() html = %q, want rendered Markdown", html)
	}
}

func TestReporterDedupesRepeatedFindings(t *testing.T) {
	r := NewReporter(nil)
	e := &UnsupportedFeatureError{Feature: "match type", Location: "pkg > Foo"}
	r.ReportUnsupported(e)
	r.ReportUnsupported(e)
	r.ReportUnsupported(e)

	md, _, err := r.Flush(context.Background())
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if strings.Count(md, "match type") != 1 {
		t.Fatalf("expected exactly one table row for the repeated finding, got markdown:\n%s", md)
	}
	if !strings.Contains(md, "| 3 |") {
		t.Fatalf("expected the dedup count column to read 3, got markdown:\n%s", md)
	}
}

func TestReporterIgnoresNilError(t *testing.T) {
	r := NewReporter(nil)
	r.ReportUnsupported(nil) // must not panic
	md, _, _ := r.Flush(context.Background())
	if !strings.Contains(md, "No unsupported features encountered.") {
		t.Fatalf("expected a nil report to leave findings empty, got:\n%s", md)
	}
}
