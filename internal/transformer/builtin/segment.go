package builtin

import (
	"retailclean/internal/schema"
	"retailclean/pkg/records"
)

// SegmentRules holds the thresholds for the segment flags.
type SegmentRules struct {
	HighValueAmount  float64 `koanf:"high_value_amount" yaml:"high_value_amount" validate:"gte=0"`
	ActiveDays       int     `koanf:"active_days" yaml:"active_days" validate:"gt=0"`
	ChurnDays        int     `koanf:"churn_days" yaml:"churn_days" validate:"gt=0"`
	YoungMinAge      float64 `koanf:"young_min_age" yaml:"young_min_age"`
	YoungMaxAge      float64 `koanf:"young_max_age" yaml:"young_max_age" validate:"gtefield=YoungMinAge"`
	HeavySpendAmount float64 `koanf:"heavy_spend_amount" yaml:"heavy_spend_amount" validate:"gte=0"`
}

func DefaultSegmentRules() SegmentRules {
	return SegmentRules{
		HighValueAmount:  50000,
		ActiveDays:       60,
		ChurnDays:        180,
		YoungMinAge:      18,
		YoungMaxAge:      35,
		HeavySpendAmount: 40000,
	}
}

// Segment sets the four boolean flags. A flag whose inputs are missing is
// false. The flags depend only on non-flag columns, so reapplying is a no-op.
type Segment struct {
	Rules SegmentRules
}

func (Segment) Name() string { return "segment" }

func (s Segment) Apply(in []records.Record) []records.Record {
	rl := s.Rules
	for _, r := range in {
		amount, hasAmount := r.Float(schema.AmountSpent)
		days, hasDays := r.Int(schema.DaysSinceLastPurchase)
		age, hasAge := r.Float(schema.Age)

		r[schema.HighValue] = hasAmount && amount > rl.HighValueAmount
		r[schema.Active] = hasDays && days < rl.ActiveDays
		r[schema.RiskOfChurn] = hasDays && days > rl.ChurnDays
		r[schema.YoungHeavySpender] = hasAge && hasAmount &&
			age >= rl.YoungMinAge && age <= rl.YoungMaxAge &&
			amount > rl.HeavySpendAmount
	}
	return in
}
