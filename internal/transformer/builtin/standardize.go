package builtin

import (
	"sort"

	"retailclean/pkg/records"
)

// CategoryMapping rewrites the values of one column. Values not in the table
// pass through unchanged; Default, when set, replaces a missing cell.
type CategoryMapping struct {
	Column  string
	Values  map[string]string
	Default string
}

// Standardize applies category mappings in order.
type Standardize struct {
	Mappings []CategoryMapping
}

func (Standardize) Name() string { return "standardize" }

func (s Standardize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, m := range s.Mappings {
			v, ok := r[m.Column].(string)
			if !ok {
				if r.Missing(m.Column) && m.Default != "" {
					r[m.Column] = m.Default
				}
				continue
			}
			if canon, hit := m.Values[v]; hit {
				r[m.Column] = canon
			}
		}
	}
	return in
}

// NonIdempotent returns the canonical values of m that are themselves keys
// mapping somewhere else. Such a table changes its own output on a second
// pass.
func (m CategoryMapping) NonIdempotent() []string {
	seen := map[string]struct{}{}
	check := func(canon string) {
		if next, ok := m.Values[canon]; ok && next != canon {
			seen[canon] = struct{}{}
		}
	}
	for _, canon := range m.Values {
		check(canon)
	}
	if m.Default != "" {
		check(m.Default)
	}
	bad := make([]string, 0, len(seen))
	for k := range seen {
		bad = append(bad, k)
	}
	sort.Strings(bad)
	return bad
}
