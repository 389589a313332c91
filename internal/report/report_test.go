package report

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"lnwarn/internal/app"
)

func sample() app.Result {
	results := []app.LineCountResult{
		{Path: "/r/A.go", DisplayName: "A.go", LineCount: 10},
		{Path: "/r/B.go", DisplayName: "B.go", LineCount: 60},
		{Path: "/r/C.go", DisplayName: "C.go", LineCount: 5},
	}
	return app.Result{
		Root:       "/r",
		MaxLines:   50,
		Results:    results,
		Violations: app.Violations(results, 50),
	}
}

func lineWith(t *testing.T, out, needle string) string {
	t.Helper()
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, needle) {
			return l
		}
	}
	t.Fatalf("no line containing %q in:\n%s", needle, out)
	return ""
}

func TestRenderViolationsOnly(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	r := New(stdout, stderr, Options{Color: "never"})
	if err := r.Render(sample()); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("violation report belongs on stderr, stdout=%q", stdout.String())
	}
	out := stderr.String()
	for _, want := range []string{"Line count check failed", "min line length: off", "max lines: 50", "1 file(s) exceed the maximum", "Path", "Lines"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if !strings.Contains(lineWith(t, out, "B.go"), "60") {
		t.Fatalf("B.go row should show 60")
	}
	if strings.Contains(out, "A.go") || strings.Contains(out, "C.go") {
		t.Fatalf("passing files should not be listed:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color disabled but escape codes written")
	}
}

func TestRenderShowAll(t *testing.T) {
	stderr := &bytes.Buffer{}
	min := 3
	r := New(&bytes.Buffer{}, stderr, Options{ShowAll: true, Color: "never", MinLineLength: &min})
	if err := r.Render(sample()); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := stderr.String()
	ib, ia, ic := strings.Index(out, "B.go"), strings.Index(out, "A.go"), strings.Index(out, "C.go")
	if ib < 0 || !(ib < ia && ia < ic) {
		t.Fatalf("rows should be ordered B, A, C:\n%s", out)
	}
	if !strings.Contains(lineWith(t, out, "B.go"), markFail) {
		t.Fatalf("B.go should be marked as violating")
	}
	for _, name := range []string{"A.go", "C.go"} {
		if !strings.Contains(lineWith(t, out, name), markPass) {
			t.Fatalf("%s should be marked as passing", name)
		}
	}
	if !strings.Contains(out, "min line length: 3") {
		t.Fatalf("threshold missing:\n%s", out)
	}
}

func TestRenderSuccess(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	res := sample()
	res.MaxLines = 100
	res.Violations = app.Violations(res.Results, 100)
	r := New(stdout, stderr, Options{ShowAll: true, Color: "never"})
	if err := r.Render(res); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if stderr.Len() != 0 {
		t.Fatalf("nothing should go to stderr on success: %q", stderr.String())
	}
	if got := stdout.String(); got != "All 3 files are within the maximum of 100 lines.\n" {
		t.Fatalf("unexpected success output: %q", got)
	}
}

func TestRenderColorIsReset(t *testing.T) {
	stderr := &bytes.Buffer{}
	r := New(&bytes.Buffer{}, stderr, Options{Color: "always"})
	if err := r.Render(sample()); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := stderr.String()
	if !strings.Contains(out, "\x1b[31m") {
		t.Fatalf("expected red escape code: %q", out)
	}
	if !strings.HasSuffix(out, "\x1b[0m") {
		t.Fatalf("color state should be reset at the end: %q", out)
	}
}

func TestSortByLines(t *testing.T) {
	in := []app.LineCountResult{
		{DisplayName: "a", LineCount: 5},
		{DisplayName: "b", LineCount: 9},
		{DisplayName: "c", LineCount: 5},
		{DisplayName: "d", LineCount: 7},
	}
	got := SortByLines(in)
	names := ""
	for i, r := range got {
		names += r.DisplayName
		if i > 0 && got[i-1].LineCount < r.LineCount {
			t.Fatalf("rows must be non-increasing: %+v", got)
		}
	}
	if names != "bdac" {
		t.Fatalf("ties should keep discovery order, got %s", names)
	}
	if in[0].DisplayName != "a" {
		t.Fatalf("input must not be reordered")
	}
}

func TestRenderJSONEvents(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	r := New(stdout, stderr, Options{Format: "ndjson", Version: "test"})
	r.Progress("Scanning %s", "/r")
	if err := r.Render(sample()); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected meta, one file and summary, got %d lines: %q", len(lines), stdout.String())
	}
	var file, summary map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &file); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[2]), &summary); err != nil {
		t.Fatal(err)
	}
	if file["path"] != "B.go" || file["violation"] != true {
		t.Fatalf("unexpected file event: %#v", file)
	}
	if summary["exit_code"].(float64) != 1 || summary["passed"] != false {
		t.Fatalf("unexpected summary: %#v", summary)
	}
	if stderr.Len() != 0 {
		t.Fatalf("json mode writes only to stdout")
	}
}

func TestProgress(t *testing.T) {
	stdout := &bytes.Buffer{}
	New(stdout, &bytes.Buffer{}, Options{}).Progress("Scanning %s", "/r")
	if stdout.String() != "Scanning /r\n" {
		t.Fatalf("unexpected progress: %q", stdout.String())
	}
	quiet := &bytes.Buffer{}
	New(quiet, &bytes.Buffer{}, Options{Quiet: true}).Progress("x")
	if quiet.Len() != 0 {
		t.Fatalf("quiet should suppress progress")
	}
}

func TestEventsShowAll(t *testing.T) {
	ev := Events(sample(), Options{ShowAll: true})
	if len(ev) != 5 {
		t.Fatalf("expected 5 events, got %d", len(ev))
	}
	if ev[1]["path"] != "B.go" || ev[3]["path"] != "C.go" {
		t.Fatalf("file events should be sorted: %#v", ev)
	}
	if ev[0]["min_line_length"] != nil {
		t.Fatalf("unset min length should be null")
	}
}

func TestColorEnabled(t *testing.T) {
	buf := &bytes.Buffer{}
	if !ColorEnabled(buf, "always") || ColorEnabled(buf, "never") {
		t.Fatalf("explicit modes should win")
	}
	if ColorEnabled(buf, "auto") {
		t.Fatalf("auto should be off for a non-terminal writer")
	}
	t.Setenv("NO_COLOR", "1")
	if ColorEnabled(os.Stderr, "auto") {
		t.Fatalf("NO_COLOR should disable auto color")
	}
	if !ColorEnabled(os.Stderr, "always") {
		t.Fatalf("always should ignore NO_COLOR")
	}
}
