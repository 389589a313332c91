package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lnwarn/internal/linecount"
	"lnwarn/internal/logging"
)

func writeLines(t *testing.T, root, rel string, n int) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	if err := os.WriteFile(p, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func fixture(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	writeLines(t, tmp, "A.go", 10)
	writeLines(t, tmp, "B.go", 60)
	writeLines(t, tmp, "C.go", 5)
	return tmp
}

func TestRunClassifiesViolations(t *testing.T) {
	tmp := fixture(t)
	res, err := Run(context.Background(), Options{
		Root:     tmp,
		Include:  []string{"**/*.go"},
		MaxLines: 50,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(res.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res.Results))
	}
	if len(res.Violations) != 1 || res.Violations[0].DisplayName != "B.go" || res.Violations[0].LineCount != 60 {
		t.Fatalf("unexpected violations: %+v", res.Violations)
	}
	if res.Passed() || res.ExitCode() != 1 {
		t.Fatalf("expected failure with exit code 1, got %d", res.ExitCode())
	}
	if res.Results[0].Path != filepath.Join(tmp, "A.go") {
		t.Fatalf("path should be absolute under root: %s", res.Results[0].Path)
	}
}

func TestRunMaxZero(t *testing.T) {
	tmp := fixture(t)
	if err := os.WriteFile(filepath.Join(tmp, "empty.go"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := Run(context.Background(), Options{Root: tmp, Include: []string{"*.go"}, MaxLines: 0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(res.Violations) != 3 {
		t.Fatalf("every non-empty file should violate: %+v", res.Violations)
	}
	for _, v := range res.Violations {
		if v.DisplayName == "empty.go" {
			t.Fatalf("empty file should pass")
		}
	}
}

func TestRunUsesFilters(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "a.go"), []byte("12345\n123\n1234\n123456\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	min := 5
	res, err := Run(context.Background(), Options{
		Root:     tmp,
		Include:  []string{"**/*"},
		MaxLines: 1,
		Counter:  linecount.New(linecount.BuildFilters(&min)),
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Results[0].LineCount != 2 || len(res.Violations) != 1 {
		t.Fatalf("expected filtered count 2 and one violation: %+v", res)
	}
}

func TestRunRootMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	res, err := Run(context.Background(), Options{Root: missing, Include: []string{"**/*"}})
	var ce *ConfigErr
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigErr, got %T %v", err, err)
	}
	if !strings.Contains(ce.Error(), "does not exist") {
		t.Fatalf("unexpected message: %s", ce.Error())
	}
	if len(res.Results) != 0 {
		t.Fatalf("no files should be processed")
	}
}

func TestRunRootNotDirectory(t *testing.T) {
	tmp := fixture(t)
	file := filepath.Join(tmp, "A.go")
	_, err := Run(context.Background(), Options{Root: file, Include: []string{"**/*"}})
	var ce *ConfigErr
	if !errors.As(err, &ce) || !strings.Contains(ce.Error(), "is not a directory") {
		t.Fatalf("expected not-a-directory ConfigErr, got %v", err)
	}
	if _, code := ErrorCode(err); code != "root_not_dir" {
		t.Fatalf("unexpected code: %s", code)
	}
	ev := ErrorEvent(err)
	if ev["code"] != "root_not_dir" || strings.Contains(ev["next_action"].(string), "existing directory") {
		t.Fatalf("unexpected event: %#v", ev)
	}

	missing := filepath.Join(tmp, "nope")
	_, err = Run(context.Background(), Options{Root: missing, Include: []string{"**/*"}})
	if _, code := ErrorCode(err); code != "root_not_found" {
		t.Fatalf("missing root should stay root_not_found, got %s", code)
	}
}

func TestRunAbortsOnDecodeError(t *testing.T) {
	tmp := fixture(t)
	if err := os.WriteFile(filepath.Join(tmp, "bin.go"), []byte{0, 1, 2}, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Run(context.Background(), Options{Root: tmp, Include: []string{"*.go"}, MaxLines: 50})
	var fe *FileErr
	if !errors.As(err, &fe) || fe.Path != "bin.go" {
		t.Fatalf("expected FileErr for bin.go, got %v", err)
	}
	var de *linecount.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("decode error should be wrapped: %v", err)
	}
	if _, code := ErrorCode(err); code != "decode_failed" {
		t.Fatalf("unexpected error code: %s", code)
	}
}

func TestRunInvalidPatternAndMax(t *testing.T) {
	tmp := t.TempDir()
	_, err := Run(context.Background(), Options{Root: tmp, Include: []string{"[x"}})
	var ae *ArgErr
	if !errors.As(err, &ae) {
		t.Fatalf("expected ArgErr, got %v", err)
	}
	if _, err := Run(context.Background(), Options{Root: tmp, Include: []string{"**/*"}, MaxLines: -1}); !errors.As(err, &ae) {
		t.Fatalf("expected ArgErr for negative max, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	tmp := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{Root: tmp, Include: []string{"**/*"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, code := ErrorCode(err); code != "interrupted" {
		t.Fatalf("unexpected code: %s", code)
	}
}

func TestViolationsAndExitCode(t *testing.T) {
	results := []LineCountResult{
		{DisplayName: "a", LineCount: 50},
		{DisplayName: "b", LineCount: 51},
		{DisplayName: "c", LineCount: 0},
		{DisplayName: "d", LineCount: 99},
	}
	v := Violations(results, 50)
	if len(v) != 2 || v[0].DisplayName != "b" || v[1].DisplayName != "d" {
		t.Fatalf("violation iff count > max, in order: %+v", v)
	}
	if ExitCode(nil) != 0 || ExitCode(v) != 2 {
		t.Fatalf("unexpected exit codes")
	}
	many := make([]LineCountResult, MaxViolationExit+20)
	if ExitCode(many) != MaxViolationExit {
		t.Fatalf("exit code should be clamped")
	}
}

func TestErrorEvent(t *testing.T) {
	ev := ErrorEvent(&FileErr{Path: "x.go", Err: os.ErrPermission})
	if ev["type"] != "error" || ev["code"] != "file_read_failed" || ev["path"] != "x.go" {
		t.Fatalf("unexpected event: %#v", ev)
	}
	if ev := ErrorEvent(&ConfigErr{Msg: "m"}); ev["category"] != "config" || ev["next_action"] == "" {
		t.Fatalf("unexpected config event: %#v", ev)
	}
	if _, code := ErrorCode(errors.New("boom")); code != "internal_error" {
		t.Fatalf("unexpected fallback code: %s", code)
	}
	if (&ArgErr{Msg: "b"}).Error() != "b" {
		t.Fatalf("arg err string mismatch")
	}
}

func TestRunLogsCounterSettings(t *testing.T) {
	buf := &bytes.Buffer{}
	logging.Setup(buf, 2, true)
	defer logging.Setup(&bytes.Buffer{}, 0, true)

	tmp := fixture(t)
	min := 3
	_, err := Run(context.Background(), Options{
		Root:     tmp,
		Include:  []string{"**/*.go"},
		MaxLines: 50,
		Counter:  linecount.New(linecount.BuildFilters(&min, linecount.NonBlank), linecount.WithEncoding("latin1")),
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"encoding=latin1", "filters=2", "max_lines=50", "path=B.go"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in log:\n%s", want, out)
		}
	}
}
