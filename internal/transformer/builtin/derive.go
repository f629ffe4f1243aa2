package builtin

import (
	"math"
	"time"

	"retailclean/internal/schema"
	"retailclean/pkg/records"
)

const secondsPerDay = 24 * 60 * 60

// Derive computes tenure, recency and purchase value against a fixed Now.
type Derive struct {
	Now time.Time
}

func (Derive) Name() string { return "derive" }

func (d Derive) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		r[schema.CustomerTenureDays] = d.daysSince(r, schema.SignupDate)
		r[schema.DaysSinceLastPurchase] = d.daysSince(r, schema.LastPurchaseDate)

		n, okN := r.Float(schema.TotalPurchases)
		a, okA := r.Float(schema.AmountSpent)
		if okN && okA {
			r[schema.TotalPurchaseValue] = n * a
		} else {
			r[schema.TotalPurchaseValue] = nil
		}
	}
	return in
}

// daysSince returns whole days elapsed from the date in col to Now, floored,
// so a date in the future yields a negative count.
func (d Derive) daysSince(r records.Record, col string) any {
	t, ok := r.Time(col)
	if !ok {
		return nil
	}
	return DaysBetween(t, d.Now)
}

// DaysBetween returns floor((to - from) / 24h).
func DaysBetween(from, to time.Time) int {
	secs := to.Unix() - from.Unix()
	return int(math.Floor(float64(secs) / secondsPerDay))
}
