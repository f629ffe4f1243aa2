package storage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// CopyFn bulk-inserts rows aligned to columns and reports how many landed.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// batcher accumulates rows and hands full batches to a CopyFn.
type batcher struct {
	columns []string
	copy    CopyFn
	log     *zap.Logger

	pending [][]any
	total   int64
	flushes int64
	began   time.Time
}

func (b *batcher) flush(ctx context.Context) error {
	if len(b.pending) == 0 {
		return nil
	}
	t0 := time.Now()
	n, err := b.copy(ctx, b.columns, b.pending)
	b.total += n
	size := len(b.pending)
	b.pending = b.pending[:0]
	if err != nil {
		b.log.Error("copy failed", zap.Int("batch_rows", size), zap.Int64("total", b.total), zap.Error(err))
		return err
	}
	b.flushes++

	var rps float64
	if d := time.Since(t0); d > 0 {
		rps = float64(n) / d.Seconds()
	}
	b.log.Debug("batch flushed",
		zap.Int64("batch", b.flushes),
		zap.Int64("inserted", n),
		zap.Int64("total_inserted", b.total),
		zap.Float64("rps", rps),
		zap.Duration("elapsed", time.Since(b.began).Truncate(time.Millisecond)),
	)
	return nil
}

// LoadBatches drains in, calling copyFn once per batchSize rows and once more
// for the remainder when in closes. It returns the rows copyFn reported along
// with the first copy error or ctx.Err() on cancellation.
func LoadBatches(ctx context.Context, log *zap.Logger, columns []string, in <-chan []any, batchSize int, copyFn CopyFn) (int64, error) {
	switch {
	case batchSize <= 0:
		return 0, errors.New("batch size must be positive")
	case copyFn == nil:
		return 0, errors.New("nil copy function")
	}
	if log == nil {
		log = zap.NewNop()
	}

	b := &batcher{
		columns: columns,
		copy:    copyFn,
		log:     log,
		pending: make([][]any, 0, batchSize),
		began:   time.Now(),
	}
	for {
		select {
		case <-ctx.Done():
			return b.total, ctx.Err()
		case row, ok := <-in:
			if !ok {
				err := b.flush(ctx)
				if err == nil {
					log.Debug("loader drained", zap.Int64("batches", b.flushes), zap.Int64("total_inserted", b.total))
				}
				return b.total, err
			}
			b.pending = append(b.pending, row)
			if len(b.pending) < batchSize {
				continue
			}
			if err := b.flush(ctx); err != nil {
				return b.total, err
			}
		}
	}
}
