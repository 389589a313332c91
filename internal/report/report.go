// Package report renders line count results as a console table or as a
// stream of JSON events.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"lnwarn/internal/app"
	"lnwarn/internal/output"
	"lnwarn/internal/textutil"
)

const (
	markFail = "✗"
	markPass = "✓"
	ellipsis = "…"
)

type Options struct {
	MinLineLength *int
	ShowAll       bool
	Format        string
	Color         string
	PathWidth     int
	Quiet         bool
	Version       string
}

// Reporter writes progress and the success message to stdout and the
// violation report to stderr. It makes no decisions about the results.
type Reporter struct {
	stdout io.Writer
	stderr io.Writer
	opts   Options
}

func New(stdout, stderr io.Writer, opts Options) *Reporter {
	if opts.Format == "" {
		opts.Format = "text"
	}
	return &Reporter{stdout: stdout, stderr: stderr, opts: opts}
}

func (r *Reporter) textMode() bool { return r.opts.Format == "text" }

// Progress prints an informational line in text mode.
func (r *Reporter) Progress(format string, args ...any) {
	if !r.textMode() || r.opts.Quiet {
		return
	}
	fmt.Fprintf(r.stdout, format+"\n", args...)
}

func (r *Reporter) Render(res app.Result) error {
	if !r.textMode() {
		return output.Write(r.stdout, r.opts.Format, Events(res, r.opts))
	}
	if res.Passed() {
		return r.renderSuccess(res)
	}
	return r.renderViolations(res)
}

func (r *Reporter) renderSuccess(res app.Result) error {
	p := newPainter(r.stdout, r.opts.Color)
	defer p.reset()
	msg := fmt.Sprintf("All %d files are within the maximum of %d lines.", len(res.Results), res.MaxLines)
	_, err := fmt.Fprintln(r.stdout, p.green(msg))
	return err
}

func (r *Reporter) renderViolations(res app.Result) error {
	p := newPainter(r.stderr, r.opts.Color)
	defer p.reset()

	var b strings.Builder
	b.WriteString(p.bold(p.red("Line count check failed")) + "\n")
	fmt.Fprintf(&b, "min line length: %s  max lines: %d\n", formatMin(r.opts.MinLineLength), res.MaxLines)
	fmt.Fprintf(&b, "%d file(s) exceed the maximum\n", len(res.Violations))
	b.WriteString(r.table(p, res))
	_, err := io.WriteString(r.stderr, b.String())
	return err
}

func (r *Reporter) table(p *painter, res app.Result) string {
	rows := res.Violations
	if r.opts.ShowAll {
		rows = res.Results
	}
	rows = SortByLines(rows)

	t := table.NewWriter()
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)
	if r.opts.ShowAll {
		t.AppendHeader(table.Row{"", "Path", "Lines"})
	} else {
		t.AppendHeader(table.Row{"Path", "Lines"})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Name: "Lines", Align: text.AlignRight}})

	for _, row := range rows {
		name := textutil.TruncateLeft(row.DisplayName, r.opts.PathWidth, ellipsis)
		if !r.opts.ShowAll {
			t.AppendRow(table.Row{name, p.red(fmt.Sprint(row.LineCount))})
			continue
		}
		mark := p.green(markPass)
		if row.IsViolation(res.MaxLines) {
			mark = p.red(markFail)
		}
		t.AppendRow(table.Row{mark, name, row.LineCount})
	}
	return t.Render() + "\n"
}

// SortByLines returns a copy of results ordered by line count, largest first.
// Equal counts keep their discovery order.
func SortByLines(results []app.LineCountResult) []app.LineCountResult {
	out := append([]app.LineCountResult(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LineCount > out[j].LineCount
	})
	return out
}

// Events is the machine-readable form of a result: a meta event, one file
// event per reported file and a summary.
func Events(res app.Result, opts Options) []output.Event {
	var minLen any
	if opts.MinLineLength != nil {
		minLen = *opts.MinLineLength
	}
	events := []output.Event{{
		"type":            "meta",
		"tool":            "lnwarn",
		"version":         opts.Version,
		"root":            res.Root,
		"max_lines":       res.MaxLines,
		"min_line_length": minLen,
		"show_all":        opts.ShowAll,
	}}
	rows := res.Violations
	if opts.ShowAll {
		rows = res.Results
	}
	for _, row := range SortByLines(rows) {
		events = append(events, output.Event{
			"type":      "file",
			"path":      row.DisplayName,
			"lines":     row.LineCount,
			"violation": row.IsViolation(res.MaxLines),
		})
	}
	events = append(events, output.Event{
		"type":            "summary",
		"total_files":     len(res.Results),
		"violation_count": len(res.Violations),
		"passed":          res.Passed(),
		"exit_code":       res.ExitCode(),
	})
	return events
}

func formatMin(n *int) string {
	if n == nil {
		return "off"
	}
	return fmt.Sprint(*n)
}
