package cmd

import (
	"io"
	"strings"

	"lnwarn/internal/app"
	"lnwarn/internal/config"
	"lnwarn/internal/output"
)

// writeCLIError emits a run that failed before any result existed: meta,
// the error itself and an empty summary.
func writeCLIError(w io.Writer, format string, err error, exitCode int) {
	events := []output.Event{
		{
			"type":    "meta",
			"tool":    "lnwarn",
			"version": Version,
		},
		app.ErrorEvent(err),
		{
			"type":            "summary",
			"total_files":     0,
			"violation_count": 0,
			"passed":          false,
			"exit_code":       exitCode,
		},
	}
	_ = output.Write(w, normalizeFormat(format), events)
}

func normalizeFormat(format string) string {
	if output.Supported(format) {
		return format
	}
	return config.FormatText
}

// flagValueFromArgs finds the value of a long flag in raw arguments, for
// errors raised before cobra has parsed them.
func flagValueFromArgs(args []string, name, def string) string {
	for i := 0; i < len(args); i++ {
		a := strings.TrimSpace(args[i])
		if a == "--" {
			break
		}
		if a == name {
			if i+1 < len(args) {
				return args[i+1]
			}
			continue
		}
		if strings.HasPrefix(a, name+"=") {
			return strings.TrimPrefix(a, name+"=")
		}
	}
	return def
}
