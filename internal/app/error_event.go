package app

import (
	"context"
	"errors"

	"lnwarn/internal/linecount"
	"lnwarn/internal/scan"
)

type errorHint struct {
	NextAction  string
	FixExample  string
	Recoverable bool
}

// ErrorCode classifies err for machine-readable output.
func ErrorCode(err error) (category, code string) {
	var (
		ce *ConfigErr
		ae *ArgErr
		fe *FileErr
		de *linecount.DecodeError
	)
	switch {
	case errors.As(err, &ce) && errors.Is(err, scan.ErrRootNotDir):
		return "config", "root_not_dir"
	case errors.As(err, &ce):
		return "config", "root_not_found"
	case errors.As(err, &ae):
		return "arg", "invalid_args"
	case errors.As(err, &de):
		return "input", "decode_failed"
	case errors.As(err, &fe):
		return "input", "file_read_failed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "internal", "interrupted"
	default:
		return "internal", "internal_error"
	}
}

// ErrorEvent renders err as an "error" event with a suggested next step.
func ErrorEvent(err error) map[string]any {
	category, code := ErrorCode(err)
	path := ""
	var fe *FileErr
	if errors.As(err, &fe) {
		path = fe.Path
	}
	return buildErrorEvent(category, code, path, err.Error())
}

func buildErrorEvent(category, code, path, detail string) map[string]any {
	h := hintByCode(code)
	return map[string]any{
		"type":        "error",
		"code":        code,
		"category":    category,
		"path":        path,
		"detail":      detail,
		"next_action": h.NextAction,
		"fix_example": h.FixExample,
		"recoverable": h.Recoverable,
	}
}

func hintByCode(code string) errorHint {
	switch code {
	case "root_not_found":
		return errorHint{
			NextAction:  "check that --path points to an existing directory",
			FixExample:  "lnwarn --path ./src",
			Recoverable: true,
		}
	case "root_not_dir":
		return errorHint{
			NextAction:  "point --path at the directory that contains the file, not the file itself",
			FixExample:  "lnwarn --path ./src --include 'main.go'",
			Recoverable: true,
		}
	case "invalid_args":
		return errorHint{
			NextAction:  "fix the flag, glob or config value named in detail",
			FixExample:  "lnwarn --include '**/*.go' --max 50",
			Recoverable: true,
		}
	case "file_read_failed":
		return errorHint{
			NextAction:  "check the file permissions, or exclude the file",
			FixExample:  "lnwarn --exclude 'generated/**'",
			Recoverable: true,
		}
	case "decode_failed":
		return errorHint{
			NextAction:  "exclude binary files or pick the right --encoding",
			FixExample:  "lnwarn --encoding gbk",
			Recoverable: true,
		}
	default:
		return errorHint{
			NextAction:  "retry; run with -vv for details",
			FixExample:  "lnwarn -vv",
			Recoverable: false,
		}
	}
}
