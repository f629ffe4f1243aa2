package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailclean/internal/schema"
	"retailclean/internal/storage"
	"retailclean/pkg/records"
)

func newFileRepo(t *testing.T, table string) *Repository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "retail.db")
	r, closeFn, err := NewRepository(context.Background(), Config{DSN: dsn, Table: table})
	require.NoError(t, err)
	t.Cleanup(closeFn)
	return r
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	_, _, err := NewRepository(context.Background(), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN must not be empty")
}

func TestInsertSQL(t *testing.T) {
	got := insertSQL("main.segs", []string{"customer_id", `odd"col`})
	assert.Equal(t, `INSERT INTO "main"."segs" ("customer_id", "odd""col") VALUES (?, ?)`, got)
}

func TestToSQLiteValue(t *testing.T) {
	assert.Equal(t, "2024-05-25", toSQLiteValue(time.Date(2024, 5, 25, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-25T10:30:00Z", toSQLiteValue(time.Date(2024, 5, 25, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, int64(1), toSQLiteValue(true))
	assert.Equal(t, int64(0), toSQLiteValue(false))
	assert.Nil(t, toSQLiteValue(nil))
	assert.Equal(t, 3.5, toSQLiteValue(3.5))
}

// TestCopyFrom_Transaction checks the statement shape and value conversion
// against a mocked driver.
func TestCopyFrom_Transaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := &Repository{db: db, cfg: Config{Table: "segs"}}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO "segs" ("customer_id", "high_value") VALUES (?, ?)`))
	prep.ExpectExec().WithArgs("C001", int64(1)).WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("C002", nil).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := r.CopyFrom(context.Background(), []string{"customer_id", "high_value"}, [][]any{
		{"C001", true},
		{"C002", nil},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := &Repository{db: db, cfg: Config{Table: "segs"}}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO")
	prep.ExpectExec().WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	n, err := r.CopyFrom(context.Background(), []string{"customer_id"}, [][]any{{"C001"}})
	require.ErrorIs(t, err, sql.ErrConnDone)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_RowWidthMismatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := &Repository{db: db, cfg: Config{Table: "segs"}}
	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO")
	mock.ExpectRollback()

	_, err = r.CopyFrom(context.Background(), []string{"a", "b"}, [][]any{{"only-one"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0 length 1 != columns length 2")
}

func TestCopyFrom_Empty(t *testing.T) {
	r := &Repository{}
	n, err := r.CopyFrom(context.Background(), []string{"a"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = r.CopyFrom(context.Background(), nil, [][]any{{1}})
	require.Error(t, err)
}

// TestSinkRoundTrip writes the segment table through storage.Sink with the
// real driver and reads it back.
func TestSinkRoundTrip(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "warehouse.db")

	rows := []records.Record{
		{schema.CustomerID: "C001", schema.HighValue: true, schema.Active: true, schema.RiskOfChurn: false, schema.YoungHeavySpender: true},
		{schema.CustomerID: "C003", schema.HighValue: false, schema.Active: nil, schema.RiskOfChurn: false, schema.YoungHeavySpender: false},
	}
	got, err := storage.Sink(context.Background(), storage.SinkOptions{Kind: "sqlite", DSN: dsn, AutoCreate: true, BatchSize: 1},
		storage.Dataset{Table: "customer_segments", Contract: schema.Segments, Rows: rows})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got["customer_segments"])

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	var id string
	var high int64
	var active sql.NullInt64
	require.NoError(t, db.QueryRow(`SELECT customer_id, high_value, active FROM customer_segments WHERE customer_id = 'C003'`).Scan(&id, &high, &active))
	assert.Equal(t, "C003", id)
	assert.Equal(t, int64(0), high)
	assert.False(t, active.Valid, "missing flag stored as NULL")

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM customer_segments`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestExec(t *testing.T) {
	r := newFileRepo(t, "t")
	require.NoError(t, r.Exec(context.Background(), " "))
	require.NoError(t, r.Exec(context.Background(), `CREATE TABLE t (a TEXT)`))
	err := r.Exec(context.Background(), `CREATE TABLE t (a TEXT)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: exec")
}
