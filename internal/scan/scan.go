package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	ErrRootNotFound = errors.New("root path does not exist")
	ErrRootNotDir   = errors.New("root path is not a directory")
)

var (
	DefaultInclude = []string{"**/*.go"}
	DefaultExclude = []string{"**/vendor/**", "**/testdata/**", "**/.git/**"}
)

type Options struct {
	Root    string
	Include []string
	Exclude []string
}

// ExpandHome turns "~" and "~/x" into paths under the user's home directory.
// "~user" forms are left alone.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
		if home == "" {
			return path
		}
	}
	if len(path) == 1 {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}

// CheckRoot verifies that root exists and is a directory.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%q: %w", root, ErrRootNotFound)
		}
		return fmt.Errorf("stat %q: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q: %w", root, ErrRootNotDir)
	}
	return nil
}

func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("empty glob pattern")
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return fmt.Errorf("invalid glob pattern: %s", p)
		}
	}
	return nil
}

// Enumerate lists regular files under opts.Root whose slash-separated relative
// path matches at least one include pattern and no exclude pattern. Directories
// covered by an exclude pattern ending in "/**" are not descended into. The
// result is sorted.
func Enumerate(ctx context.Context, opts Options) ([]string, error) {
	if err := ValidatePatterns(opts.Include); err != nil {
		return nil, err
	}
	if err := ValidatePatterns(opts.Exclude); err != nil {
		return nil, err
	}
	include := toSlash(opts.Include)
	exclude := toSlash(opts.Exclude)
	prune := dirPrefixes(exclude)

	var files []string
	err := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		rel, rerr := filepath.Rel(opts.Root, path)
		if rerr != nil {
			return rerr
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if matchAny(prune, rel) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if Match(rel, include, exclude) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Match reports whether rel is selected by include and not rejected by exclude.
func Match(rel string, include, exclude []string) bool {
	rel = filepath.ToSlash(rel)
	return matchAny(include, rel) && !matchAny(exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		ok, err := doublestar.Match(p, rel)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// dirPrefixes keeps the directory part of "dir/**" patterns; a directory
// matching one of them holds nothing but excluded files.
func dirPrefixes(exclude []string) []string {
	var out []string
	for _, p := range exclude {
		if strings.HasSuffix(p, "/**") {
			out = append(out, strings.TrimSuffix(p, "/**"))
		}
	}
	return out
}

func toSlash(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(p)), "./"))
	}
	return out
}
