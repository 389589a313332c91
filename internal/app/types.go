package app

import "lnwarn/internal/linecount"

// MaxViolationExit caps the exit code so that it stays clear of the codes
// reserved for errors.
const MaxViolationExit = 250

const unknownDisplayName = "<unknown>"

type Options struct {
	Root     string
	Include  []string
	Exclude  []string
	MaxLines int
	Counter  *linecount.Counter
}

// LineCountResult is the filtered line count of one file.
type LineCountResult struct {
	Path        string `json:"path"`
	DisplayName string `json:"display_name"`
	LineCount   uint   `json:"lines"`
}

// IsViolation reports whether the count exceeds maxLines.
func (r LineCountResult) IsViolation(maxLines int) bool {
	return int64(r.LineCount) > int64(maxLines)
}

type Result struct {
	Root       string
	MaxLines   int
	Results    []LineCountResult
	Violations []LineCountResult
}

func (r Result) Passed() bool { return len(r.Violations) == 0 }

// ExitCode is 0 on success and otherwise the number of violating files,
// capped at MaxViolationExit.
func (r Result) ExitCode() int {
	return ExitCode(r.Violations)
}
