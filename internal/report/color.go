package report

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

type fdWriter interface {
	Fd() uintptr
}

// painter styles text for one writer. Its lifetime is one render; reset must
// be called when the render ends so no color state leaks past it.
type painter struct {
	out     *termenv.Output
	enabled bool
}

func newPainter(w io.Writer, mode string) *painter {
	enabled := ColorEnabled(w, mode)
	profile := termenv.Ascii
	if enabled {
		profile = termenv.ANSI
	}
	return &painter{out: termenv.NewOutput(w, termenv.WithProfile(profile)), enabled: enabled}
}

// ColorEnabled decides whether escape codes may be written to w. "auto" means
// w is a terminal and NO_COLOR is unset.
func ColorEnabled(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *painter) red(s string) string {
	return p.out.String(s).Foreground(p.out.Color("1")).String()
}

func (p *painter) green(s string) string {
	return p.out.String(s).Foreground(p.out.Color("2")).String()
}

func (p *painter) bold(s string) string {
	return p.out.String(s).Bold().String()
}

func (p *painter) reset() {
	if p.enabled {
		p.out.Reset()
	}
}

// Fatal prints msg in red on w and resets the terminal afterwards.
func Fatal(w io.Writer, colorMode, msg string) {
	p := newPainter(w, colorMode)
	defer p.reset()
	fmt.Fprintln(w, p.red(msg))
}
