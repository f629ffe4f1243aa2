package builtin

import (
	"math"
	"strconv"
	"strings"
	"time"

	"retailclean/pkg/records"
)

// DefaultDateLayouts are tried in order when Coerce.Layouts is empty.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// Coerce converts numeric columns to float64 and date columns to time.Time.
// Anything that does not parse becomes the missing marker.
type Coerce struct {
	Numeric  []string
	Dates    []string
	Layouts  []string       // date layouts, tried in order
	Location *time.Location // zone for layouts without one; UTC when nil
}

func (Coerce) Name() string { return "coerce" }

func (c Coerce) Apply(in []records.Record) []records.Record {
	layouts := c.Layouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, r := range in {
		for _, col := range c.Numeric {
			r[col] = toNumber(r[col])
		}
		for _, col := range c.Dates {
			r[col] = toDate(r[col], layouts, loc)
		}
	}
	return in
}

func toNumber(v any) any {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = p
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func toDate(v any, layouts []string, loc *time.Location) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range layouts {
			if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
				return ts
			}
		}
	}
	return nil
}
