package builtin

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"retailclean/pkg/records"
)

func TestMedian(t *testing.T) {
	cases := []struct {
		in   []float64
		want float64
		ok   bool
	}{
		{nil, 0, false},
		{[]float64{40}, 40, true},
		{[]float64{50, 20, 34}, 34, true},
		{[]float64{30, 20, 40, 50}, 35, true},
	}
	for _, tc := range cases {
		got, ok := Median(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("Median(%v)=%v,%v; want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
	xs := []float64{3, 1, 2}
	Median(xs)
	if xs[0] != 3 {
		t.Fatalf("Median reordered its input")
	}
}

func TestImputeApply(t *testing.T) {
	in := []records.Record{
		{"age": 30.0, "amount_spent": 10.0, "total_purchases": 2.0},
		{"age": nil, "amount_spent": nil, "total_purchases": nil},
		{"age": 38.0, "amount_spent": 5.0},
	}
	out := Impute{}.Apply(in)

	if out[1]["age"] != 34.0 {
		t.Fatalf("age=%#v; want median 34", out[1]["age"])
	}
	if out[1]["amount_spent"] != 0.0 || out[1]["total_purchases"] != 0.0 {
		t.Fatalf("constants not applied: %#v", out[1])
	}
	if out[2]["total_purchases"] != 0.0 {
		t.Fatalf("absent column not filled: %#v", out[2])
	}
	for i, r := range out {
		for _, col := range []string{"age", "amount_spent", "total_purchases"} {
			if r.Missing(col) {
				t.Fatalf("row %d: %s still missing", i, col)
			}
		}
	}
}

func TestImputeApply_NoAgesUsesFallback(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := Impute{FallbackAge: 42, AmountSpent: 1, TotalPurchases: 2, Logger: zap.New(core)}

	out := m.Apply([]records.Record{{"age": nil}, {}})
	for _, r := range out {
		if r["age"] != 42.0 || r["amount_spent"] != 1.0 || r["total_purchases"] != 2.0 {
			t.Fatalf("fallbacks not applied: %#v", r)
		}
	}
	if logs.FilterMessage("no ages present; using fallback").Len() != 1 {
		t.Fatalf("expected one fallback warning, got %v", logs.All())
	}
}
