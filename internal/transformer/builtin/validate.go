package builtin

import (
	"time"

	"retailclean/internal/schema"
	"retailclean/pkg/records"
)

// Drop reasons reported through Validate.Reject.
const (
	ReasonAgeOutOfRange        = "age_out_of_range"
	ReasonAmountMissing        = "amount_spent_missing"
	ReasonAmountNegative       = "amount_spent_negative"
	ReasonLastPurchaseMissing  = "last_purchase_date_missing"
	ReasonLastPurchaseInFuture = "last_purchase_date_in_future"
)

// Validate drops rows that break the domain rules:
//
//	age missing or within [MinAge, MaxAge]
//	amount_spent present and >= 0
//	last_purchase_date present and not after Now
//
// Every dropped row is handed to Reject with the first rule it failed.
type Validate struct {
	Now    time.Time
	MinAge float64
	MaxAge float64
	Reject func(RejectedRow) // optional sink
}

type RejectedRow struct {
	Line   int
	Raw    records.Record
	Reason string
	Stage  string
}

func (Validate) Name() string { return "validate" }

// Apply filters in place; survivors keep their relative order.
func (v Validate) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, r := range in {
		reason := v.check(r)
		if reason == "" {
			out = append(out, r)
			continue
		}
		if v.Reject != nil {
			v.Reject(RejectedRow{Line: r.Line(), Raw: r, Reason: reason, Stage: "validate"})
		}
	}
	// Release references held past the new length.
	for i := len(out); i < len(in); i++ {
		in[i] = nil
	}
	return out
}

func (v Validate) check(r records.Record) string {
	if age, ok := r.Float(schema.Age); ok {
		if age < v.MinAge || age > v.MaxAge {
			return ReasonAgeOutOfRange
		}
	}
	amount, ok := r.Float(schema.AmountSpent)
	if !ok {
		return ReasonAmountMissing
	}
	if amount < 0 {
		return ReasonAmountNegative
	}
	last, ok := r.Time(schema.LastPurchaseDate)
	if !ok {
		return ReasonLastPurchaseMissing
	}
	if last.After(v.Now) {
		return ReasonLastPurchaseInFuture
	}
	return ""
}
