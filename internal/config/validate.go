// This file adds a lightweight linter for Pipeline values. It performs static
// checks over a loaded Pipeline and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"retailclean/internal/schema"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single lint finding. Path is a dotted path into the
// config (e.g. "storage.db.dsn", "categories[1].column").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// StorageKinds and MetricsBackends are the implementations this binary ships.
var (
	StorageKinds    = []string{"postgres", "sqlite", "mssql"}
	MetricsBackends = []string{"none", "pushgateway", "datadog"}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report koanf key names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidatePipeline lints p without mutating it. Callers decide whether
// warnings are fatal; HasErrors reports whether any error was found.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue
	issues = append(issues, structIssues(p)...)
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p)...)
	issues = append(issues, validateDates(p)...)
	issues = append(issues, validateCategories(p)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateMetrics(p.Metrics)...)
	issues = append(issues, validateRuntime(p)...)
	return issues
}

// HasErrors reports whether issues contains an error-severity finding.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// structIssues converts validator tag failures into issues.
func structIssues(p Pipeline) []Issue {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Severity: SeverityError, Path: "", Message: err.Error()}}
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Pipeline.source.location"; drop the root type.
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		msg := fmt.Sprintf("failed %q check", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed %q check (%s)", fe.Tag(), fe.Param())
		}
		if fe.Tag() == "required" {
			msg = "must not be empty"
		}
		issues = append(issues, Issue{Severity: SeverityError, Path: path, Message: msg})
	}
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue
	if s.HTTP.MaxRetries > 10 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.http.max_retries",
			Message:  fmt.Sprintf("max_retries=%d; long retry chains delay failure reporting", s.HTTP.MaxRetries),
		})
	}
	return issues
}

func validateParser(p Pipeline) []Issue {
	var issues []Issue
	if n := utf8.RuneCountInString(p.Parser.Comma); n > 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.comma",
			Message:  fmt.Sprintf("delimiter %q must be a single character", p.Parser.Comma),
		})
	}
	if c := p.Comma(); c == '"' || c == '\r' || c == '\n' || c == utf8.RuneError {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.comma",
			Message:  fmt.Sprintf("delimiter %q is not usable", p.Parser.Comma),
		})
	}
	return issues
}

func validateDates(p Pipeline) []Issue {
	var issues []Issue
	if _, err := p.Location(); err != nil {
		issues = append(issues, Issue{Severity: SeverityError, Path: "dates.location", Message: err.Error()})
	}
	for i, l := range p.Dates.Layouts {
		if strings.TrimSpace(l) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("dates.layouts[%d]", i),
				Message:  "layout must not be empty",
			})
		}
	}
	return issues
}

// validateCategories checks columns exist in the catalogue and that every
// mapping table is a fixed point.
func validateCategories(p Pipeline) []Issue {
	var issues []Issue
	for i, m := range p.CategoryMappings() {
		path := fmt.Sprintf("categories[%d]", i)
		if f, ok := schema.Customer.Lookup(m.Column); ok && f.Kind != schema.KindText {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".column",
				Message:  fmt.Sprintf("column %q is not a text column", m.Column),
			})
		} else if !ok && m.Column != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".column",
				Message:  fmt.Sprintf("column %q is not part of the customer table; mapping applies only if the input has it", m.Column),
			})
		}
		if bad := m.NonIdempotent(); len(bad) > 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".values",
				Message:  fmt.Sprintf("canonical values %v are remapped again; a second pass would change output", bad),
			})
		}
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	if strings.TrimSpace(s.Kind) == "" {
		return nil
	}
	if !contains(StorageKinds, s.Kind) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q (want one of %s)", s.Kind, strings.Join(StorageKinds, ", ")),
		})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage.db.table must not be empty",
		})
	}
	if s.DB.Table != "" && s.DB.Table == s.DB.SegmentsTable {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.segments_table",
			Message:  "segments_table must differ from table",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	switch m.Backend {
	case "pushgateway":
		if m.PushgatewayURL == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend requires pushgateway_url",
			})
		}
	case "datadog":
		if m.DatadogAddr == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "metrics.datadog_addr",
				Message:  "datadog_addr empty; the client falls back to DD_AGENT_HOST or 127.0.0.1:8125",
			})
		}
	}
	return issues
}

func validateRuntime(p Pipeline) []Issue {
	var issues []Issue
	if p.Runtime.BatchSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "runtime.batch_size",
			Message:  fmt.Sprintf("batch_size=%d; the whole table is loaded in one batch", p.Runtime.BatchSize),
		})
	}
	if _, err := p.ReferenceTime(time.Time{}); err != nil {
		issues = append(issues, Issue{Severity: SeverityError, Path: "runtime.reference_time", Message: err.Error()})
	}
	return issues
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
