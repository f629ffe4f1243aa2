package csv_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	pcsv "retailclean/internal/parser/csv"
	"retailclean/internal/schema"
	"retailclean/pkg/records"
)

func TestParseSample(t *testing.T) {
	path := filepath.Join("..", "..", "..", "testdata", "retail_customers.csv")
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	p := pcsv.NewParser(pcsv.Options{Required: schema.Customer.Required()})
	tbl, skipped, err := p.Parse(f)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.NotEmpty(t, tbl.Rows)
	assert.Equal(t, schema.CustomerID, tbl.Columns[0])
	assert.Equal(t, "C001", tbl.Rows[0][schema.CustomerID])
	assert.Equal(t, 2, tbl.Rows[0].Line())
}

func TestParse_HeadersNullsAndLines(t *testing.T) {
	in := "\uFEFF Customer ID ,City,Age\n" +
		"C1, mumbai ,34\n" +
		"C2,NA,\n" +
		"\"C3\",\"multi\nline\",n/a\n" +
		"C4,Pune, None \n"

	tbl, skipped, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, []string{"customer_id", "city", "age"}, tbl.Columns)
	require.Len(t, tbl.Rows, 4)

	assert.Equal(t, records.Record{"customer_id": "C1", "city": " mumbai ", "age": "34", records.LineKey: 2}, tbl.Rows[0])
	assert.True(t, tbl.Rows[1].Missing("city"))
	assert.True(t, tbl.Rows[1].Missing("age"))
	assert.Equal(t, "multi\nline", tbl.Rows[2]["city"])
	assert.True(t, tbl.Rows[2].Missing("age"))
	assert.Equal(t, 6, tbl.Rows[3].Line(), "line numbers count embedded newlines")
	assert.True(t, tbl.Rows[3].Missing("age"))
}

func TestParse_SkipsBadWidth(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	in := "a,b\n1,2\n3\n4,5,6\n7,8\n"

	tbl, skipped, err := pcsv.NewParser(pcsv.Options{Logger: zap.New(core)}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "7", tbl.Rows[1]["a"])
	assert.Equal(t, 2, logs.FilterMessage("skipping row with incorrect number of fields").Len())
}

func TestParse_MissingRequiredColumns(t *testing.T) {
	_, _, err := pcsv.NewParser(pcsv.Options{Required: []string{"a", "b", "c"}}).
		Parse(strings.NewReader("a\n1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pcsv.ErrMissingColumns))
	assert.Contains(t, err.Error(), "b, c")
}

func TestParse_EmptyInput(t *testing.T) {
	_, _, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(""))
	require.Error(t, err)
}

func TestParse_CustomDelimiterAndNulls(t *testing.T) {
	p := pcsv.NewParser(pcsv.Options{
		Comma:      ';',
		NullValues: []string{"-"},
		HeaderMap:  map[string]string{"Kunde": "customer_id"},
	})
	tbl, _, err := p.Parse(strings.NewReader("Kunde;Stadt\nK1;-\nK2;NA\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"customer_id", "stadt"}, tbl.Columns)
	assert.True(t, tbl.Rows[0].Missing("stadt"))
	assert.Equal(t, "NA", tbl.Rows[1]["stadt"], "custom tokens replace the defaults")
}
