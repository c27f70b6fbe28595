package tasty

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"golang.org/x/time/rate"
)

// Reporter collects diagnostics for one decode run and renders them as
// Markdown at the end, the same shape as the teacher's editor status line
// but durable rather than ephemeral: every UnsupportedFeatureError hit
// during a run is worth seeing in aggregate, not just the first one.
//
// RunID correlates every line from one Unpickle call; one rate limiter,
// shared by every feature/location pair, caps how many unsupported-feature
// lines get logged so a pattern that recurs across thousands of symbols in
// one artifact doesn't flood output.
type Reporter struct {
	RunID uuid.UUID

	mu       sync.Mutex
	limiter  *rate.Limiter
	seen     map[string]int
	findings []reportLine
	out      io.Writer
}

type reportLine struct {
	Feature  string
	Location string
	Count    int
}

// NewReporter creates a Reporter that writes ReportUnsupported and Echo
// lines to out as they occur. ReportUnsupported lines are throttled by a
// single limiter of 5 lines per second (burst 5) across all feature/location
// pairs (the rest are still counted for Flush, just not written).
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		RunID:   uuid.New(),
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		seen:    make(map[string]int),
		out:     out,
	}
}

// ReportUnsupported records one UnsupportedFeatureError occurrence.
func (r *Reporter) ReportUnsupported(e *UnsupportedFeatureError) {
	if r == nil || e == nil {
		return
	}
	key := e.Feature + "@" + e.Location
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[key]; !ok {
		r.findings = append(r.findings, reportLine{Feature: e.Feature, Location: e.Location})
	}
	r.seen[key]++
	if r.limiter.Allow() && r.out != nil {
		fmt.Fprintf(r.out, "[%s] unsupported feature %q at %s\n", r.RunID, e.Feature, e.Location)
	}
}

// Echo writes one position-less diagnostic line straight to out, bypassing
// the findings/rate-limit bookkeeping ReportUnsupported uses: debug-tasty
// logging (§2, §6) is meant to trace every major unpickling decision, not
// aggregate anomalies, so nothing here is throttled or deduplicated.
func (r *Reporter) Echo(format string, args ...any) {
	if r == nil || r.out == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "[%s] %s\n", r.RunID, fmt.Sprintf(format, args...))
}

// Flush renders the accumulated findings as a Markdown report and returns
// the rendered HTML alongside the raw Markdown source, using goldmark the
// same way the teacher's web/ package rendered editor help text.
func (r *Reporter) Flush(ctx context.Context) (markdownSrc string, html string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var md strings.Builder
	fmt.Fprintf(&md, "# Decode report (%s)\n\n", r.RunID)
	if len(r.findings) == 0 {
		md.WriteString("No unsupported features encountered.\n")
	} else {
		md.WriteString("| feature | location | count |\n|---|---|---|\n")
		for _, f := range r.findings {
			count := r.seen[f.Feature+"@"+f.Location]
			fmt.Fprintf(&md, "| %s | %s | %d |\n", f.Feature, f.Location, count)
		}
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md.String()), &buf); err != nil {
		return md.String(), "", err
	}
	return md.String(), buf.String(), nil
}

// Clock is a small indirection so Reporter never calls time.Now()
// directly in a code path that tests exercise deterministically; production
// callers use RealClock.
type Clock interface{ Now() time.Time }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// RealClock is the production Clock implementation.
var RealClock Clock = systemClock{}
