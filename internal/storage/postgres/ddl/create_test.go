package ddl

import (
	"context"
	"strings"
	"testing"

	"retailclean/internal/schema"
)

// TestQuoteIdent verifies Postgres identifier quoting and escaping.
func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "name", want: `"name"`},
		{name: "empty", in: "", want: `""`},
		{name: "with space", in: "user name", want: `"user name"`},
		{name: "with double quote", in: `weird"name`, want: `"weird""name"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := quoteIdent(tt.in); got != tt.want {
				t.Fatalf("quoteIdent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapType(t *testing.T) {
	t.Parallel()

	want := map[schema.Kind]string{
		schema.KindText:   "TEXT",
		schema.KindNumber: "DOUBLE PRECISION",
		schema.KindInt:    "BIGINT",
		schema.KindDate:   "DATE",
		schema.KindBool:   "BOOLEAN",
		schema.Kind("?"):  "TEXT",
	}
	for k, w := range want {
		if got := MapType(k); got != w {
			t.Fatalf("MapType(%q) = %q, want %q", k, got, w)
		}
	}
}

type execRecorder struct{ stmts []string }

func (e *execRecorder) CopyFrom(context.Context, []string, [][]any) (int64, error) { return 0, nil }
func (e *execRecorder) Exec(_ context.Context, sql string) error {
	e.stmts = append(e.stmts, sql)
	return nil
}
func (e *execRecorder) Close() {}

// TestEnsureTable_Segments renders the segment table exactly.
func TestEnsureTable_Segments(t *testing.T) {
	t.Parallel()

	rec := &execRecorder{}
	if err := EnsureTable(context.Background(), rec, "public.customer_segments", schema.Segments); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	want := "CREATE TABLE IF NOT EXISTS \"public\".\"customer_segments\" (\n" +
		"  \"customer_id\" TEXT NOT NULL,\n" +
		"  \"high_value\" BOOLEAN,\n" +
		"  \"active\" BOOLEAN,\n" +
		"  \"risk_of_churn\" BOOLEAN,\n" +
		"  \"young_heavy_spender\" BOOLEAN\n);"
	if len(rec.stmts) != 1 || rec.stmts[0] != want {
		t.Fatalf("statements:\n got: %q\nwant: %q", rec.stmts, want)
	}
}

func TestEnsureTable_Customer(t *testing.T) {
	t.Parallel()

	rec := &execRecorder{}
	if err := EnsureTable(context.Background(), rec, "retail_customers_cleaned", schema.Customer); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	sql := rec.stmts[0]
	for _, part := range []string{
		`"age" DOUBLE PRECISION`,
		`"signup_date" DATE`,
		`"customer_tenure_days" BIGINT`,
		`"young_heavy_spender" BOOLEAN`,
	} {
		if !strings.Contains(sql, part) {
			t.Fatalf("DDL %q missing %q", sql, part)
		}
	}
}

func TestEnsureTable_BlankTable(t *testing.T) {
	t.Parallel()

	if err := EnsureTable(context.Background(), &execRecorder{}, "", schema.Segments); err == nil {
		t.Fatal("expected error for blank table")
	}
}
