package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"lnwarn/internal/app"
	"lnwarn/internal/config"
	"lnwarn/internal/linecount"
	"lnwarn/internal/logging"
	"lnwarn/internal/report"
	"lnwarn/internal/scan"
)

type lintFlags struct {
	Config        string
	MinLineLength int
	MaxLines      int
	Include       []string
	Exclude       []string
	Path          string
	ShowAll       bool
	SkipBlank     bool
	IgnorePrefix  []string
	Encoding      string
	Format        string
	Color         string
	PathWidth     int
	Quiet         bool
	Verbose       int
	ShowVersion   bool
}

func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := normalizeArgs(os.Args[1:])
	root := NewRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var ee *ExitError
		if errors.As(err, &ee) {
			if ee.Msg != "" {
				report.Fatal(os.Stderr, flagValueFromArgs(args, "--color", config.ColorAuto), ee.Msg)
			}
			return ee.Code
		}
		// Flag parsing failed before RunE could run.
		format := normalizeFormat(flagValueFromArgs(args, "--format", config.FormatText))
		if format != config.FormatText {
			writeCLIError(os.Stdout, format, &app.ArgErr{Msg: err.Error()}, ExitArg)
			return ExitArg
		}
		report.Fatal(os.Stderr, flagValueFromArgs(args, "--color", config.ColorAuto), err.Error())
		return ExitArg
	}
	return ExitOK
}

func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &lintFlags{}
	root := &cobra.Command{
		Use:           "lnwarn [path]",
		Short:         "Fail when files have more significant lines than allowed",
		Long:          rootLongHelp(),
		Example:       rootExampleHelp(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ShowVersion {
				printVersion(stdout)
				return nil
			}
			s, err := resolveSettings(cmd, flags, args)
			if err != nil {
				return fail(stdout, normalizeFormat(flags.Format), &app.ArgErr{Msg: err.Error()})
			}
			return runLint(cmd.Context(), stdout, stderr, s)
		},
	}
	root.CompletionOptions.HiddenDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stderr)
	bindFlags(root, flags)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(stdout)
		},
	}
	root.AddCommand(versionCmd)
	return root
}

func bindFlags(cmd *cobra.Command, flags *lintFlags) {
	f := cmd.Flags()
	f.StringVarP(&flags.Config, "config", "c", "", "YAML config file (LNWARN_* environment variables are read as well)")
	f.IntVarP(&flags.MinLineLength, "min-line-length", "l", 0, fmt.Sprintf("lines shorter than this after trimming whitespace are not counted (%d-%d, also -ml)", config.MinLineLengthLower, config.MinLineLengthUpper))
	f.IntVarP(&flags.MaxLines, "max", "m", config.DefaultMaxLines, "files with more counted lines than this fail the check")
	f.StringSliceVarP(&flags.Include, "include", "i", scan.DefaultInclude, "glob patterns of files to check, relative to --path")
	f.StringSliceVarP(&flags.Exclude, "exclude", "x", scan.DefaultExclude, "glob patterns of files to skip")
	f.StringVarP(&flags.Path, "path", "p", config.DefaultPath, "root directory to scan (~ is expanded)")
	f.BoolVarP(&flags.ShowAll, "show-all", "a", false, "list every scanned file, not only violations")
	f.BoolVar(&flags.SkipBlank, "skip-blank", false, "do not count whitespace-only lines")
	f.StringSliceVar(&flags.IgnorePrefix, "ignore-prefix", nil, "do not count lines starting with this prefix, e.g. //")
	f.StringVarP(&flags.Encoding, "encoding", "e", "utf-8", "text encoding used when a file has no byte order mark")
	f.StringVarP(&flags.Format, "format", "f", config.FormatText, "output format: text/json/ndjson")
	f.StringVar(&flags.Color, "color", config.ColorAuto, "color output: auto/always/never")
	f.IntVar(&flags.PathWidth, "path-width", config.DefaultPathWidth, "maximum display width of the Path column (0 = unlimited)")
	f.BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress progress messages")
	f.CountVarP(&flags.Verbose, "verbose", "v", "increase log verbosity (-v info, -vv debug, -vvv trace)")
	f.BoolVar(&flags.ShowVersion, "version", false, "print version information")
}

// resolveSettings layers explicitly set flags over defaults, the config file
// and the environment.
func resolveSettings(cmd *cobra.Command, flags *lintFlags, args []string) (config.Settings, error) {
	s, err := config.Resolve(flags.Config)
	if err != nil {
		return s, err
	}
	fs := cmd.Flags()
	if fs.Changed("max") {
		s.MaxLines = flags.MaxLines
	}
	if fs.Changed("min-line-length") {
		n := flags.MinLineLength
		s.MinLineLength = &n
	}
	if fs.Changed("include") {
		s.Include = flags.Include
	}
	if fs.Changed("exclude") {
		s.Exclude = flags.Exclude
	}
	if fs.Changed("path") {
		s.Path = flags.Path
	} else if len(args) == 1 {
		s.Path = args[0]
	}
	if fs.Changed("skip-blank") {
		s.SkipBlank = flags.SkipBlank
	}
	if fs.Changed("ignore-prefix") {
		s.IgnorePrefixes = flags.IgnorePrefix
	}
	if fs.Changed("encoding") {
		s.Encoding = flags.Encoding
	}
	s.ShowAll = flags.ShowAll
	s.Format = flags.Format
	s.Color = flags.Color
	s.PathWidth = flags.PathWidth
	s.Quiet = flags.Quiet
	s.Verbosity = flags.Verbose
	s.Path = scan.ExpandHome(s.Path)
	return s, s.Validate()
}

func runLint(ctx context.Context, stdout, stderr io.Writer, s config.Settings) error {
	logging.Setup(stderr, s.Verbosity, !report.ColorEnabled(stderr, s.Color))

	root, err := filepath.Abs(s.Path)
	if err != nil {
		return fail(stdout, s.Format, &app.ArgErr{Msg: fmt.Sprintf("resolve path %q: %v", s.Path, err)})
	}
	rep := report.New(stdout, stderr, report.Options{
		MinLineLength: s.MinLineLength,
		ShowAll:       s.ShowAll,
		Format:        s.Format,
		Color:         s.Color,
		PathWidth:     s.PathWidth,
		Quiet:         s.Quiet,
		Version:       Version,
	})

	var extra []linecount.Filter
	if s.SkipBlank {
		extra = append(extra, linecount.NonBlank)
	}
	if len(s.IgnorePrefixes) > 0 {
		extra = append(extra, linecount.NotPrefixed(s.IgnorePrefixes...))
	}
	counter := linecount.New(linecount.BuildFilters(s.MinLineLength, extra...), linecount.WithEncoding(s.Encoding))

	rep.Progress("Scanning %s", root)
	res, err := app.Run(ctx, app.Options{
		Root:     root,
		Include:  s.Include,
		Exclude:  s.Exclude,
		MaxLines: s.MaxLines,
		Counter:  counter,
	})
	if err != nil {
		return fail(stdout, s.Format, err)
	}
	rep.Progress("Counted %d files", len(res.Results))

	if err := rep.Render(res); err != nil {
		return &ExitError{Code: ExitIO, Msg: fmt.Sprintf("write report: %v", err)}
	}
	if code := res.ExitCode(); code != ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}

// fail maps err to its exit code. Machine formats get the error as events on
// stdout; text mode leaves the message for Execute to print.
func fail(stdout io.Writer, format string, err error) error {
	code := exitCodeFor(err)
	if format != config.FormatText {
		writeCLIError(stdout, format, err, code)
		return &ExitError{Code: code}
	}
	return &ExitError{Code: code, Msg: err.Error()}
}

func exitCodeFor(err error) int {
	var (
		ce *app.ConfigErr
		ae *app.ArgErr
	)
	switch {
	case errors.As(err, &ce):
		return ExitRootMissing
	case errors.As(err, &ae):
		return ExitArg
	default:
		return ExitIO
	}
}

// normalizeArgs accepts the two-letter "-ml" shorthand, which pflag cannot
// declare, as --min-line-length. "-ml N", "-ml=N" and "-mlN" are all rewritten.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, a := range args {
		if a == "--" {
			return append(out, args[i:]...)
		}
		switch {
		case a == "-ml":
			out = append(out, "--min-line-length")
		case strings.HasPrefix(a, "-ml="):
			out = append(out, "--min-line-length="+strings.TrimPrefix(a, "-ml="))
		case strings.HasPrefix(a, "-ml") && isDigits(a[3:]):
			out = append(out, "--min-line-length="+a[3:])
		default:
			out = append(out, a)
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
