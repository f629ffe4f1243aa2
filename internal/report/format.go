package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"retailclean/internal/schema"
	"retailclean/pkg/records"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// FormatCell renders one cell for a text artifact. Missing cells are empty,
// floats use the shortest exact decimal form, dates drop a zero time part and
// booleans are lower-case.
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(dateLayout)
		}
		return t.Format(dateTimeLayout)
	default:
		return fmt.Sprint(t)
	}
}

// OutputColumns returns the cleaned-table header: the input columns in their
// original order followed by any derived columns not already present.
func OutputColumns(tbl records.Table) []string {
	out := make([]string, 0, len(tbl.Columns)+len(schema.Customer.Derived()))
	seen := make(map[string]struct{}, cap(out))
	for _, c := range tbl.Columns {
		if c == records.LineKey {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, c := range schema.Customer.Derived() {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// writeCSV writes a header and one formatted line per row to path.
func writeCSV(path string, columns []string, rows []records.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	line := make([]string, len(columns))
	for _, r := range rows {
		for i, c := range columns {
			line[i] = FormatCell(r[c])
		}
		if err := w.Write(line); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
