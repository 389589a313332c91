package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const EnvPrefix = "LNWARN_"

// Resolve builds settings from defaults, the optional config file and the
// LNWARN_* environment, in that order of precedence. Command-line flags are
// applied on top by the caller.
func Resolve(configPath string) (Settings, error) {
	s := Defaults()
	if strings.TrimSpace(configPath) != "" {
		cfg, err := Load(configPath)
		if err != nil {
			return Settings{}, err
		}
		s.Apply(cfg.Lint)
	}
	l, _, err := LoadFromEnv(EnvPrefix)
	if err != nil {
		return Settings{}, err
	}
	s.Apply(l)
	return s, nil
}

// LoadFromEnv reads lint settings from environment variables, for example
// LNWARN_MAX_LINES=80 or LNWARN_INCLUDE=**/*.go,**/*.ts.
func LoadFromEnv(prefix string) (Lint, bool, error) {
	l := Lint{}
	has := false

	setIntPtr := func(key string, dst **int) error {
		v, ok := os.LookupEnv(prefix + key)
		if !ok {
			return nil
		}
		has = true
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("environment variable %s%s is not a valid integer", prefix, key)
		}
		*dst = &n
		return nil
	}
	setBoolPtr := func(key string, dst **bool) error {
		v, ok := os.LookupEnv(prefix + key)
		if !ok {
			return nil
		}
		has = true
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("environment variable %s%s is not a valid boolean", prefix, key)
		}
		*dst = &b
		return nil
	}
	setString := func(key string, dst *string) {
		v, ok := os.LookupEnv(prefix + key)
		if !ok {
			return
		}
		has = true
		*dst = strings.TrimSpace(v)
	}
	setList := func(key string, dst *[]string) {
		v, ok := os.LookupEnv(prefix + key)
		if !ok {
			return
		}
		has = true
		*dst = splitCSV(v)
	}

	if err := setIntPtr("MAX_LINES", &l.MaxLines); err != nil {
		return Lint{}, false, err
	}
	if err := setIntPtr("MIN_LINE_LENGTH", &l.MinLineLength); err != nil {
		return Lint{}, false, err
	}
	if err := setBoolPtr("SKIP_BLANK", &l.SkipBlank); err != nil {
		return Lint{}, false, err
	}
	setList("INCLUDE", &l.Include)
	setList("EXCLUDE", &l.Exclude)
	setList("IGNORE_PREFIXES", &l.IgnorePrefixes)
	setString("ENCODING", &l.Encoding)

	return l, has, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func parseBool(v string) (bool, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	switch s {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool")
	}
}
