package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"lnwarn/internal/scan"
	"lnwarn/internal/textutil"
)

const (
	DefaultMaxLines  = 50
	DefaultPath      = "."
	DefaultPathWidth = 60

	MinLineLengthLower = 1
	MinLineLengthUpper = 1000

	FormatText   = "text"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Lint is the "lint" section of a config file. Pointers tell "unset" apart
// from zero values.
type Lint struct {
	MaxLines       *int     `yaml:"max_lines"`
	MinLineLength  *int     `yaml:"min_line_length"`
	Include        []string `yaml:"include"`
	Exclude        []string `yaml:"exclude"`
	SkipBlank      *bool    `yaml:"skip_blank"`
	IgnorePrefixes []string `yaml:"ignore_prefixes"`
	Encoding       string   `yaml:"encoding"`
}

type Config struct {
	Lint Lint `yaml:"lint"`
}

// Settings is the resolved configuration of one invocation.
type Settings struct {
	Path           string
	MaxLines       int
	MinLineLength  *int
	Include        []string
	Exclude        []string
	ShowAll        bool
	SkipBlank      bool
	IgnorePrefixes []string
	Encoding       string
	Format         string
	Color          string
	PathWidth      int
	Quiet          bool
	Verbosity      int
}

func Defaults() Settings {
	return Settings{
		Path:      DefaultPath,
		MaxLines:  DefaultMaxLines,
		Include:   append([]string(nil), scan.DefaultInclude...),
		Exclude:   append([]string(nil), scan.DefaultExclude...),
		Encoding:  textutil.EncodingUTF8,
		Format:    FormatText,
		Color:     ColorAuto,
		PathWidth: DefaultPathWidth,
	}
}

// Apply overlays the values set in l onto s.
func (s *Settings) Apply(l Lint) {
	if l.MaxLines != nil {
		s.MaxLines = *l.MaxLines
	}
	if l.MinLineLength != nil {
		n := *l.MinLineLength
		s.MinLineLength = &n
	}
	if l.Include != nil {
		s.Include = append([]string(nil), l.Include...)
	}
	if l.Exclude != nil {
		s.Exclude = append([]string(nil), l.Exclude...)
	}
	if l.SkipBlank != nil {
		s.SkipBlank = *l.SkipBlank
	}
	if l.IgnorePrefixes != nil {
		s.IgnorePrefixes = append([]string(nil), l.IgnorePrefixes...)
	}
	if strings.TrimSpace(l.Encoding) != "" {
		s.Encoding = l.Encoding
	}
}

func (s Settings) Validate() error {
	if s.MinLineLength != nil && (*s.MinLineLength < MinLineLengthLower || *s.MinLineLength > MinLineLengthUpper) {
		return fmt.Errorf("min line length must be between %d and %d, got %d", MinLineLengthLower, MinLineLengthUpper, *s.MinLineLength)
	}
	if s.MaxLines < 0 {
		return fmt.Errorf("max lines must not be negative, got %d", s.MaxLines)
	}
	if len(s.Include) == 0 {
		return fmt.Errorf("at least one include pattern is required")
	}
	if err := scan.ValidatePatterns(s.Include); err != nil {
		return err
	}
	if err := scan.ValidatePatterns(s.Exclude); err != nil {
		return err
	}
	if strings.TrimSpace(s.Path) == "" {
		return fmt.Errorf("path must not be empty")
	}
	if _, err := textutil.NormalizeEncoding(s.Encoding); err != nil {
		return err
	}
	switch s.Format {
	case FormatText, FormatJSON, FormatNDJSON:
	default:
		return fmt.Errorf("unsupported output format: %s (supported: text, json, ndjson)", s.Format)
	}
	switch s.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unsupported color mode: %s (supported: auto, always, never)", s.Color)
	}
	return nil
}

func Load(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) == "" {
		return cfg, fmt.Errorf("config file path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	expanded, err := expandEnv(string(b))
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

var envExpr = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

func expandEnv(src string) (string, error) {
	var out strings.Builder
	last := 0
	for _, idx := range envExpr.FindAllStringSubmatchIndex(src, -1) {
		out.WriteString(src[last:idx[0]])
		name := src[idx[2]:idx[3]]
		hasDefault := idx[4] >= 0 && idx[5] >= 0
		defVal := ""
		if hasDefault && idx[6] >= 0 && idx[7] >= 0 {
			defVal = src[idx[6]:idx[7]]
		}
		if v, ok := os.LookupEnv(name); ok {
			out.WriteString(v)
		} else if hasDefault {
			out.WriteString(defVal)
		} else {
			return "", fmt.Errorf("config references unset environment variable: %s", name)
		}
		last = idx[1]
	}
	out.WriteString(src[last:])
	return out.String(), nil
}
