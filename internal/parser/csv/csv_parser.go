// Package csv loads a delimited customer table into records. Header names are
// canonicalized, missing-value tokens become the missing marker, and rows with
// the wrong width are skipped and counted rather than aborting the load.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"retailclean/internal/parser"
	"retailclean/pkg/records"
)

// ErrMissingColumns is returned when the header lacks a required column.
var ErrMissingColumns = errors.New("missing required columns")

// DefaultNullValues are the cell tokens read as missing, matched after
// trimming surrounding whitespace.
var DefaultNullValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Options configures the CSV parser behavior. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// NullValues overrides DefaultNullValues when non-nil.
	NullValues []string

	// Required lists canonical column names that must appear in the header.
	Required []string

	// HeaderMap maps source header names to canonical keys. Unmapped headers
	// are lower-cased with spaces replaced by underscores.
	HeaderMap map[string]string

	Logger *zap.Logger
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct {
	opt   Options
	nulls map[string]struct{}
}

var _ parser.Parser = (*Parser)(nil)

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser {
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	tokens := opt.NullValues
	if tokens == nil {
		tokens = DefaultNullValues
	}
	nulls := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		nulls[t] = struct{}{}
	}
	return &Parser{opt: opt, nulls: nulls}
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// skipLogLimit caps per-row skip logging on badly broken inputs.
const skipLogLimit = 400

// Parse reads the header and every body row of r. Each record carries its
// source line under records.LineKey.
func (p *Parser) Parse(r io.Reader) (records.Table, int, error) {
	log := p.opt.Logger

	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	// Width is enforced below so a bad row is skipped instead of fatal.
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err == io.EOF {
		return records.Table{}, 0, fmt.Errorf("read csv header: empty input")
	}
	if err != nil {
		return records.Table{}, 0, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(h, p.opt)
	if missing := missingColumns(headers, p.opt.Required); len(missing) > 0 {
		return records.Table{}, 0, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	tbl := records.Table{Columns: headers}
	var skipped int
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				if skipped < skipLogLimit {
					log.Warn("skipping unreadable row", zap.Int("line", pe.StartLine), zap.Error(err))
				}
				skipped++
				continue
			}
			return records.Table{}, skipped, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(row) != len(headers) {
			if skipped < skipLogLimit {
				log.Warn("skipping row with incorrect number of fields",
					zap.Int("line", line), zap.Int("expected", len(headers)), zap.Int("got", len(row)))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row)+1)
		for i, val := range row {
			rec[headers[i]] = p.cell(val)
		}
		rec[records.LineKey] = line
		tbl.Rows = append(tbl.Rows, rec)
	}

	log.Debug("csv parsed", zap.Int("rows", len(tbl.Rows)), zap.Int("skipped", skipped), zap.Strings("columns", headers))
	return tbl, skipped, nil
}

// cell returns nil for missing-value tokens and the raw string otherwise.
func (p *Parser) cell(s string) any {
	if _, ok := p.nulls[strings.TrimSpace(s)]; ok {
		return nil
	}
	return s
}

// normalizeHeaders produces canonical header keys using HeaderMap (when
// provided) and simple normalization (lowercase, spaces to underscores). It
// also strips a UTF-8 BOM from the first cell if present.
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := col
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		c = strings.TrimSpace(c)
		if opt.HeaderMap != nil {
			if m, ok := opt.HeaderMap[c]; ok {
				res[i] = m
				continue
			}
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}

func missingColumns(headers, required []string) []string {
	have := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		have[h] = struct{}{}
	}
	var out []string
	for _, r := range required {
		if _, ok := have[r]; !ok {
			out = append(out, r)
		}
	}
	return out
}
