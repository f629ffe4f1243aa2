package builtin

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"retailclean/pkg/records"
)

// Normalize trims free-text columns and title-cases the categorical ones.
// A cell that is missing or blank after trimming stays missing unless
// MissingPlaceholder is set, in which case the placeholder is cased and kept
// as ordinary text.
type Normalize struct {
	TitleFields        []string
	TrimFields         []string
	MissingPlaceholder string
}

func (Normalize) Name() string { return "normalize" }

func (n Normalize) Apply(in []records.Record) []records.Record {
	// Casers carry state and are not safe to share.
	title := cases.Title(language.Und)
	for _, r := range in {
		for _, col := range n.TitleFields {
			s, ok := n.text(r[col])
			if !ok {
				r[col] = nil
				continue
			}
			title.Reset()
			r[col] = title.String(s)
		}
		for _, col := range n.TrimFields {
			s, ok := n.text(r[col])
			if !ok {
				r[col] = nil
				continue
			}
			r[col] = s
		}
	}
	return in
}

// text returns the trimmed NFC form of v, substituting the placeholder for
// missing or blank cells when one is configured.
func (n Normalize) text(v any) (string, bool) {
	s := ""
	if v != nil {
		s = strings.TrimSpace(norm.NFC.String(asText(v)))
	}
	if s == "" {
		if n.MissingPlaceholder == "" {
			return "", false
		}
		s = strings.TrimSpace(n.MissingPlaceholder)
	}
	return s, true
}

func asText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return ""
	}
}
