package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"retailclean/internal/metrics"
	"retailclean/internal/schema"
	"retailclean/pkg/records"
)

// Dataset is one table bound for the warehouse.
type Dataset struct {
	Table    string
	Contract schema.Contract
	Rows     []records.Record
}

// SinkOptions configures Sink.
type SinkOptions struct {
	Kind       string
	DSN        string
	AutoCreate bool
	BatchSize  int
	Job        string
	Logger     *zap.Logger
}

// Sink writes every dataset with a non-empty Table to the backend selected by
// opts.Kind, creating the tables first when AutoCreate is set. It returns the
// rows inserted per table.
func Sink(ctx context.Context, opts SinkOptions, sets ...Dataset) (map[string]int64, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	out := make(map[string]int64, len(sets))
	for _, ds := range sets {
		if ds.Table == "" {
			continue
		}
		n, err := sinkOne(ctx, log, opts, ds)
		out[ds.Table] = n
		if err != nil {
			return out, fmt.Errorf("storage %s: table %s: %w", opts.Kind, ds.Table, err)
		}
		log.Info("table loaded", zap.String("kind", opts.Kind), zap.String("table", ds.Table), zap.Int64("rows", n))
	}
	return out, nil
}

func sinkOne(ctx context.Context, log *zap.Logger, opts SinkOptions, ds Dataset) (int64, error) {
	cols := ds.Contract.Names()
	repo, err := New(ctx, Config{Kind: opts.Kind, DSN: opts.DSN, Table: ds.Table, Columns: cols})
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	if opts.AutoCreate {
		if err := EnsureTable(ctx, opts.Kind, repo, ds.Table, ds.Contract); err != nil {
			return 0, fmt.Errorf("ensure table: %w", err)
		}
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = len(ds.Rows) + 1
	}

	g, gctx := errgroup.WithContext(ctx)
	in := make(chan []any, batchSize)
	g.Go(func() error {
		defer close(in)
		for _, rec := range ds.Rows {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case in <- RowValues(rec, cols):
			}
		}
		return nil
	})

	var total int64
	g.Go(func() error {
		n, err := LoadBatches(gctx, log.With(zap.String("table", ds.Table)), cols, in, batchSize, repo.CopyFrom)
		total = n
		return err
	})
	err = g.Wait()

	metrics.RecordRow(opts.Job, metrics.RowsInserted, total)
	metrics.RecordBatches(opts.Job, (total+int64(batchSize)-1)/int64(batchSize))
	return total, err
}

// RowValues aligns rec to columns. Missing cells become nil.
func RowValues(rec records.Record, columns []string) []any {
	row := make([]any, len(columns))
	for i, c := range columns {
		if !rec.Missing(c) {
			row[i] = rec[c]
		}
	}
	return row
}
