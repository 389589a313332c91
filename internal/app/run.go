package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lnwarn/internal/linecount"
	"lnwarn/internal/logging"
	"lnwarn/internal/scan"
)

// Run counts every file selected under opts.Root, one at a time in discovery
// order, and classifies the results against opts.MaxLines. The first file that
// cannot be counted aborts the run.
func Run(ctx context.Context, opts Options) (Result, error) {
	logger := logging.GetLogger("app")
	res := Result{Root: opts.Root, MaxLines: opts.MaxLines}
	if opts.Counter == nil {
		opts.Counter = linecount.New(nil)
	}
	if opts.MaxLines < 0 {
		return res, &ArgErr{Msg: fmt.Sprintf("max lines must not be negative, got %d", opts.MaxLines)}
	}

	if err := scan.CheckRoot(opts.Root); err != nil {
		if errors.Is(err, scan.ErrRootNotFound) {
			return res, &ConfigErr{Msg: fmt.Sprintf("root path %q does not exist", opts.Root), Err: err}
		}
		if errors.Is(err, scan.ErrRootNotDir) {
			return res, &ConfigErr{Msg: fmt.Sprintf("root path %q is not a directory", opts.Root), Err: err}
		}
		return res, &ConfigErr{Msg: err.Error(), Err: err}
	}

	done := logging.LogOperationStart(logger, "enumerate")
	paths, err := scan.Enumerate(ctx, scan.Options{Root: opts.Root, Include: opts.Include, Exclude: opts.Exclude})
	done()
	if err != nil {
		if ctx.Err() != nil {
			return res, err
		}
		var perr *os.PathError
		if errors.As(err, &perr) {
			return res, &FileErr{Path: perr.Path, Err: err}
		}
		return res, &ArgErr{Msg: err.Error()}
	}
	logger.Info().Int("files", len(paths)).Str("root", opts.Root).Msg("Files enumerated")
	logger.Debug().
		Str("encoding", opts.Counter.Encoding()).
		Int("filters", opts.Counter.Filters()).
		Int("max_lines", opts.MaxLines).
		Msg("Counting")

	res.Results = make([]LineCountResult, 0, len(paths))
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		abs := filepath.Join(opts.Root, filepath.FromSlash(rel))
		n, err := countFile(opts.Counter, abs)
		if err != nil {
			return res, &FileErr{Path: rel, Err: err}
		}
		logger.Debug().Str("path", rel).Uint("lines", n).Msg("Counted")
		res.Results = append(res.Results, LineCountResult{
			Path:        abs,
			DisplayName: displayName(rel),
			LineCount:   n,
		})
	}
	res.Violations = Violations(res.Results, opts.MaxLines)
	return res, nil
}

func countFile(c *linecount.Counter, path string) (uint, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return c.Count(f)
}

// Violations returns the results whose count exceeds maxLines, keeping their
// order.
func Violations(results []LineCountResult, maxLines int) []LineCountResult {
	out := make([]LineCountResult, 0)
	for _, r := range results {
		if r.IsViolation(maxLines) {
			out = append(out, r)
		}
	}
	return out
}

func ExitCode(violations []LineCountResult) int {
	n := len(violations)
	if n > MaxViolationExit {
		return MaxViolationExit
	}
	return n
}

func displayName(rel string) string {
	if strings.TrimSpace(rel) == "" {
		return unknownDisplayName
	}
	return rel
}
