package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix marks environment variables read by Load. A double underscore
// separates nesting levels: RETAILCLEAN_OUTPUT__PLOT_DIR sets output.plot_dir.
const EnvPrefix = "RETAILCLEAN_"

// DefaultConfigFiles are probed in the working directory when no explicit
// file is given.
var DefaultConfigFiles = []string{"retailclean.yaml", "retailclean.yml"}

// flagKeys maps CLI flag names to config keys. Flags not listed here (such as
// --verbose) are not configuration and are ignored by Load.
var flagKeys = map[string]string{
	"job":             "job",
	"input":           "source.location",
	"output-dir":      "output.dir",
	"plot-dir":        "output.plot_dir",
	"xlsx":            "output.xlsx",
	"rejects":         "output.rejects",
	"no-charts":       "output.charts",
	"reference-time":  "runtime.reference_time",
	"storage-kind":    "storage.kind",
	"storage-dsn":     "storage.db.dsn",
	"metrics-backend": "metrics.backend",
	"max-retries":     "source.http.max_retries",
}

// Defaults returns the built-in configuration values as a flat key map.
func Defaults() map[string]any {
	return map[string]any{
		"job":                          "retail_customers",
		"source.location":              "retail_customers.csv",
		"source.http.timeout_seconds":  30,
		"source.http.max_retries":      0,
		"parser.comma":                 ",",
		"dates.location":               "UTC",
		"validation.min_age":           18.0,
		"validation.max_age":           100.0,
		"impute.fallback_age":          0.0,
		"impute.amount_spent":          0.0,
		"impute.total_purchases":       0.0,
		"segments.high_value_amount":   50000.0,
		"segments.active_days":         60,
		"segments.churn_days":          180,
		"segments.young_min_age":       18.0,
		"segments.young_max_age":       35.0,
		"segments.heavy_spend_amount":  40000.0,
		"output.dir":                   ".",
		"output.plot_dir":              "plots",
		"output.charts":                true,
		"storage.db.table":             "retail_customers_cleaned",
		"storage.db.segments_table":    "customer_segments",
		"storage.db.auto_create_table": true,
		"metrics.backend":              "none",
		"runtime.batch_size":           5000,
	}
}

// Load builds a Pipeline. Precedence, highest first: explicitly set flags,
// environment, config file, defaults. path may be empty, in which case the
// DefaultConfigFiles are probed. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Pipeline, string, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, "", fmt.Errorf("load defaults: %w", err)
	}

	used := findConfigFile(path)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("read config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, "", fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return nil, "", fmt.Errorf("load flags: %w", err)
		}
	}

	var p Pipeline
	if err := k.Unmarshal("", &p); err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	if !filepath.IsAbs(p.Output.PlotDir) {
		p.Output.PlotDir = filepath.Join(p.Output.Dir, p.Output.PlotDir)
	}
	return &p, used, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// envKey turns RETAILCLEAN_SOURCE__HTTP__MAX_RETRIES into
// source.http.max_retries.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func flagKey(flags *pflag.FlagSet) func(*pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		if !f.Changed {
			return "", nil
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		if f.Name == "no-charts" {
			off, _ := flags.GetBool("no-charts")
			return key, !off
		}
		return key, posflag.FlagVal(flags, f)
	}
}

// ReferenceTime resolves runtime.reference_time, or returns fallback when it
// is unset. Date-only values are midnight in loc.
func (p Pipeline) ReferenceTime(fallback time.Time) (time.Time, error) {
	s := strings.TrimSpace(p.Runtime.ReferenceTime)
	if s == "" {
		return fallback, nil
	}
	loc, err := p.Location()
	if err != nil {
		return time.Time{}, err
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("runtime.reference_time %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// Location resolves dates.location, defaulting to UTC.
func (p Pipeline) Location() (*time.Location, error) {
	name := strings.TrimSpace(p.Dates.Location)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("dates.location %q: %w", name, err)
	}
	return loc, nil
}

// Comma returns the delimiter rune, or 0 for the parser default.
func (p Pipeline) Comma() rune {
	r := []rune(p.Parser.Comma)
	if len(r) == 0 {
		return 0
	}
	return r[0]
}
