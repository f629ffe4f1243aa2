package ddl

import (
	"fmt"
	"strings"
	"testing"

	"retailclean/internal/schema"
)

// testDialect renders ANSI-style statements with a plain IF NOT EXISTS guard.
var testDialect = Dialect{
	Name:       "test ddl",
	QuoteIdent: func(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` },
	MapType: func(k schema.Kind) string {
		switch k {
		case schema.KindNumber:
			return "REAL"
		case schema.KindInt:
			return "BIGINT"
		case schema.KindDate:
			return "DATE"
		case schema.KindBool:
			return "BOOLEAN"
		default:
			return "TEXT"
		}
	},
	Wrap: func(fqn, body string) string {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", fqn, body)
	},
}

// TestBuildCreateTableSQL verifies rendered statements and the errors for
// invalid definitions using table-driven subtests.
func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		def         TableDef
		wantSQL     string
		errContains string
	}{
		{
			name:        "empty FQN returns error",
			def:         TableDef{Columns: []ColumnDef{{Name: "id", SQLType: "INT"}}},
			errContains: "test ddl: table FQN must not be empty",
		},
		{
			name:        "no columns returns error",
			def:         TableDef{FQN: "public.t"},
			errContains: "at least one column is required",
		},
		{
			name:        "column with empty name returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{SQLType: "INT"}}},
			errContains: "column with empty name",
		},
		{
			name:        "column with empty type returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id"}}},
			errContains: "missing SQLType",
		},
		{
			name: "nullable and not null columns",
			def: TableDef{
				FQN: "t",
				Columns: []ColumnDef{
					{Name: "id", SQLType: "TEXT"},
					{Name: "age", SQLType: "REAL", Nullable: true},
				},
			},
			wantSQL: "CREATE TABLE IF NOT EXISTS \"t\" (\n  \"id\" TEXT NOT NULL,\n  \"age\" REAL\n);",
		},
		{
			name: "schema qualified with default and sorted primary key",
			def: TableDef{
				FQN: "public.events",
				Columns: []ColumnDef{
					{Name: "z", SQLType: "INT", PrimaryKey: true, Nullable: true},
					{Name: "a", SQLType: "INT", PrimaryKey: true},
					{Name: "note", SQLType: "TEXT", Nullable: true, Default: "'n/a'"},
				},
			},
			wantSQL: "CREATE TABLE IF NOT EXISTS \"public\".\"events\" (\n" +
				"  \"z\" INT NOT NULL,\n" +
				"  \"a\" INT NOT NULL,\n" +
				"  \"note\" TEXT DEFAULT 'n/a',\n" +
				"  PRIMARY KEY (\"a\", \"z\")\n);",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := testDialect.BuildCreateTableSQL(tc.def)
			if tc.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tc.errContains) {
					t.Fatalf("err = %v; want containing %q", err, tc.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.wantSQL {
				t.Fatalf("SQL mismatch:\n got: %q\nwant: %q", got, tc.wantSQL)
			}
		})
	}
}

func TestQuoteFQN(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"t":          `"t"`,
		"public.t":   `"public"."t"`,
		"a..b":       `"a"."b"`,
		`we"ird.col`: `"we""ird"."col"`,
	}
	for in, want := range cases {
		if got := testDialect.QuoteFQN(in); got != want {
			t.Fatalf("QuoteFQN(%q) = %q; want %q", in, got, want)
		}
	}
}

// TestFromContract checks the segment contract becomes a table whose key
// column is NOT NULL and whose flags map through the dialect.
func TestFromContract(t *testing.T) {
	t.Parallel()

	def, err := testDialect.FromContract(schema.Segments, "customer_segments")
	if err != nil {
		t.Fatalf("FromContract: %v", err)
	}
	if def.FQN != "customer_segments" {
		t.Fatalf("FQN = %q", def.FQN)
	}
	want := []ColumnDef{
		{Name: schema.CustomerID, SQLType: "TEXT"},
		{Name: schema.HighValue, SQLType: "BOOLEAN", Nullable: true},
		{Name: schema.Active, SQLType: "BOOLEAN", Nullable: true},
		{Name: schema.RiskOfChurn, SQLType: "BOOLEAN", Nullable: true},
		{Name: schema.YoungHeavySpender, SQLType: "BOOLEAN", Nullable: true},
	}
	if len(def.Columns) != len(want) {
		t.Fatalf("columns = %d; want %d", len(def.Columns), len(want))
	}
	for i := range want {
		if def.Columns[i] != want[i] {
			t.Fatalf("column %d = %#v; want %#v", i, def.Columns[i], want[i])
		}
	}
	if got := strings.Join(def.ColumnNames(), ","); got != strings.Join(schema.Segments.Names(), ",") {
		t.Fatalf("ColumnNames = %s", got)
	}

	cust, err := testDialect.FromContract(schema.Customer, "retail_customers_cleaned")
	if err != nil {
		t.Fatalf("FromContract customer: %v", err)
	}
	kinds := map[string]string{}
	for _, c := range cust.Columns {
		kinds[c.Name] = c.SQLType
	}
	if kinds[schema.Age] != "REAL" || kinds[schema.SignupDate] != "DATE" || kinds[schema.CustomerTenureDays] != "BIGINT" {
		t.Fatalf("unexpected type mapping: %v", kinds)
	}
}

func TestFromContract_Errors(t *testing.T) {
	t.Parallel()

	if _, err := testDialect.FromContract(schema.Segments, " "); err == nil {
		t.Fatal("expected error for blank table")
	}
	if _, err := testDialect.FromContract(schema.Contract{Name: "empty"}, "t"); err == nil {
		t.Fatal("expected error for empty contract")
	}
}
