package builtin

import (
	"sort"

	"go.uber.org/zap"

	"retailclean/internal/schema"
	"retailclean/pkg/records"
)

// Impute fills the numeric gaps left after validation: age with the median of
// the ages present, amount_spent and total_purchases with constants.
type Impute struct {
	FallbackAge    float64 // used when no row has an age
	AmountSpent    float64
	TotalPurchases float64
	Logger         *zap.Logger
}

func (Impute) Name() string { return "impute" }

func (m Impute) Apply(in []records.Record) []records.Record {
	log := m.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ages := make([]float64, 0, len(in))
	for _, r := range in {
		if a, ok := r.Float(schema.Age); ok {
			ages = append(ages, a)
		}
	}
	fill, ok := Median(ages)
	if !ok {
		fill = m.FallbackAge
		if len(in) > 0 {
			log.Warn("no ages present; using fallback", zap.Float64("fallback_age", fill))
		}
	}

	filled := 0
	for _, r := range in {
		if r.Missing(schema.Age) {
			r[schema.Age] = fill
			filled++
		}
		if r.Missing(schema.AmountSpent) {
			r[schema.AmountSpent] = m.AmountSpent
		}
		if r.Missing(schema.TotalPurchases) {
			r[schema.TotalPurchases] = m.TotalPurchases
		}
	}
	log.Debug("imputed", zap.Int("ages_filled", filled), zap.Float64("median_age", fill))
	return in
}

// Median returns the middle value of xs, averaging the two middle values for
// an even count. xs is not modified. ok is false for an empty slice.
func Median(xs []float64) (float64, bool) {
	n := len(xs)
	if n == 0 {
		return 0, false
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	if n%2 == 1 {
		return s[n/2], true
	}
	return (s[n/2-1] + s[n/2]) / 2, true
}
