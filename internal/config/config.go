// Package config defines the run configuration of the cleaning pipeline.
//
// A Pipeline is assembled by Load from built-in defaults, an optional YAML or
// JSON file, RETAILCLEAN_* environment variables and explicitly set CLI flags,
// in increasing order of precedence. ValidatePipeline lints the result.
//
// Example (trimmed):
//
//	job: retail_customers
//	source:
//	  location: data/retail_customers.csv
//	output:
//	  dir: out
//	  xlsx: true
//	storage:
//	  kind: sqlite
//	  db: { dsn: "file:out/retail.db", table: retail_customers_cleaned }
package config

import "retailclean/internal/transformer/builtin"

// Pipeline is the top-level configuration object.
type Pipeline struct {
	// Job labels metrics and log lines for this run.
	Job string `koanf:"job" json:"job" validate:"required"`

	Source     Source               `koanf:"source" json:"source"`
	Parser     Parser               `koanf:"parser" json:"parser"`
	Text       Text                 `koanf:"text" json:"text"`
	Dates      Dates                `koanf:"dates" json:"dates"`
	Validation Validation           `koanf:"validation" json:"validation"`
	Impute     Impute               `koanf:"impute" json:"impute"`
	Segments   builtin.SegmentRules `koanf:"segments" json:"segments"`

	// Categories are the value mappings of the category standardizer. When
	// empty, DefaultCategories is used.
	Categories []Category `koanf:"categories" json:"categories" validate:"dive"`

	Output  Output        `koanf:"output" json:"output"`
	Storage Storage       `koanf:"storage" json:"storage"`
	Metrics Metrics       `koanf:"metrics" json:"metrics"`
	Runtime RuntimeConfig `koanf:"runtime" json:"runtime"`
}

// Source identifies where the raw table comes from: a local path or an
// http(s) URL.
type Source struct {
	Location string     `koanf:"location" json:"location" validate:"required"`
	HTTP     HTTPSource `koanf:"http" json:"http"`
}

// HTTPSource tunes the HTTP client used for URL locations.
type HTTPSource struct {
	TimeoutSeconds     int  `koanf:"timeout_seconds" json:"timeout_seconds" validate:"gte=0"`
	MaxRetries         int  `koanf:"max_retries" json:"max_retries" validate:"gte=0"`
	InsecureSkipVerify bool `koanf:"insecure_skip_verify" json:"insecure_skip_verify"`
}

// Parser configures CSV reading.
type Parser struct {
	// Comma is the single-character field delimiter.
	Comma string `koanf:"comma" json:"comma"`

	// NullValues replaces the default missing-value tokens when set.
	NullValues []string `koanf:"null_values" json:"null_values"`
}

// Text configures the string normalizer.
type Text struct {
	// MissingPlaceholder, when set, is written into missing free-text cells
	// instead of leaving them missing.
	MissingPlaceholder string `koanf:"missing_placeholder" json:"missing_placeholder"`
}

// Dates configures date coercion.
type Dates struct {
	Layouts  []string `koanf:"layouts" json:"layouts"`
	Location string   `koanf:"location" json:"location"`
}

// Validation holds the row validator bounds.
type Validation struct {
	MinAge float64 `koanf:"min_age" json:"min_age" validate:"gte=0"`
	MaxAge float64 `koanf:"max_age" json:"max_age" validate:"gtefield=MinAge"`
}

// Impute holds the substitution values for missing numerics.
type Impute struct {
	FallbackAge    float64 `koanf:"fallback_age" json:"fallback_age"`
	AmountSpent    float64 `koanf:"amount_spent" json:"amount_spent"`
	TotalPurchases float64 `koanf:"total_purchases" json:"total_purchases"`
}

// Category maps the values of one column to canonical forms.
type Category struct {
	Column  string            `koanf:"column" json:"column" validate:"required"`
	Values  map[string]string `koanf:"values" json:"values"`
	Default string            `koanf:"default" json:"default"`
}

// Output configures the artifacts written by the reporter.
type Output struct {
	Dir     string `koanf:"dir" json:"dir" validate:"required"`
	PlotDir string `koanf:"plot_dir" json:"plot_dir" validate:"required"`
	XLSX    bool   `koanf:"xlsx" json:"xlsx"`
	Rejects bool   `koanf:"rejects" json:"rejects"`
	Charts  bool   `koanf:"charts" json:"charts"`
}

// Storage selects the optional warehouse sink. An empty Kind disables it.
type Storage struct {
	Kind string   `koanf:"kind" json:"kind"`
	DB   DBConfig `koanf:"db" json:"db"`
}

// DBConfig configures the DB sink.
type DBConfig struct {
	// DSN is the driver connection string.
	DSN string `koanf:"dsn" json:"dsn"`

	// Table receives the cleaned table; SegmentsTable the segment table.
	// SegmentsTable may be empty to skip it.
	Table         string `koanf:"table" json:"table"`
	SegmentsTable string `koanf:"segments_table" json:"segments_table"`

	// AutoCreateTable issues CREATE TABLE IF NOT EXISTS before loading.
	AutoCreateTable bool `koanf:"auto_create_table" json:"auto_create_table"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	Backend        string `koanf:"backend" json:"backend" validate:"omitempty,oneof=none pushgateway datadog"`
	PushgatewayURL string `koanf:"pushgateway_url" json:"pushgateway_url" validate:"omitempty,url"`
	DatadogAddr    string `koanf:"datadog_addr" json:"datadog_addr"`
}

// RuntimeConfig controls batching and the processing-time reference.
type RuntimeConfig struct {
	BatchSize int `koanf:"batch_size" json:"batch_size"`

	// ReferenceTime pins "now" (RFC 3339 or YYYY-MM-DD) for reproducible
	// reruns. Empty means the wall clock at run start.
	ReferenceTime string `koanf:"reference_time" json:"reference_time"`
}

// CategoryMappings converts the configured categories to standardizer
// mappings, falling back to DefaultCategories.
func (p Pipeline) CategoryMappings() []builtin.CategoryMapping {
	cats := p.Categories
	if len(cats) == 0 {
		cats = DefaultCategories()
	}
	out := make([]builtin.CategoryMapping, len(cats))
	for i, c := range cats {
		out[i] = builtin.CategoryMapping{Column: c.Column, Values: c.Values, Default: c.Default}
	}
	return out
}
