package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func feed(n int) <-chan []any {
	ch := make(chan []any, n)
	for i := 0; i < n; i++ {
		ch <- []any{"C" + string(rune('A'+i)), float64(i)}
	}
	close(ch)
	return ch
}

// countingCopy accepts every row and records batch sizes.
func countingCopy(sizes *[]int) CopyFn {
	return func(_ context.Context, _ []string, rows [][]any) (int64, error) {
		*sizes = append(*sizes, len(rows))
		return int64(len(rows)), nil
	}
}

func TestLoadBatchesSizes(t *testing.T) {
	tests := []struct {
		rows, batch int
		want        []int
	}{
		{rows: 7, batch: 3, want: []int{3, 3, 1}},
		{rows: 6, batch: 3, want: []int{3, 3}},
		{rows: 2, batch: 500, want: []int{2}},
		{rows: 0, batch: 4, want: nil},
	}
	for _, tt := range tests {
		var sizes []int
		total, err := LoadBatches(context.Background(), nil, []string{"customer_id", "amount"}, feed(tt.rows), tt.batch, countingCopy(&sizes))
		require.NoError(t, err)
		assert.EqualValues(t, tt.rows, total)
		assert.Equal(t, tt.want, sizes, "rows=%d batch=%d", tt.rows, tt.batch)
	}
}

func TestLoadBatchesStopsOnCopyError(t *testing.T) {
	boom := errors.New("constraint violation")
	calls := 0
	copyFn := func(_ context.Context, _ []string, rows [][]any) (int64, error) {
		calls++
		if calls == 2 {
			return 0, boom
		}
		return int64(len(rows)), nil
	}

	total, err := LoadBatches(context.Background(), nil, nil, feed(6), 2, copyFn)
	require.ErrorIs(t, err, boom)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, 2, calls)
}

func TestLoadBatchesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan []any)
	done := make(chan error, 1)
	go func() {
		_, err := LoadBatches(ctx, nil, nil, in, 2, func(context.Context, []string, [][]any) (int64, error) { return 0, nil })
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("loader ignored cancellation")
	}
}

func TestLoadBatchesArgs(t *testing.T) {
	noop := func(context.Context, []string, [][]any) (int64, error) { return 0, nil }
	_, err := LoadBatches(context.Background(), nil, nil, feed(0), 0, noop)
	assert.EqualError(t, err, "batch size must be positive")
	_, err = LoadBatches(context.Background(), nil, nil, feed(0), 1, nil)
	assert.EqualError(t, err, "nil copy function")
}

func TestLoadBatchesLogsEachFlush(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var sizes []int
	_, err := LoadBatches(context.Background(), zap.New(core), nil, feed(5), 2, countingCopy(&sizes))
	require.NoError(t, err)

	flushed := logs.FilterMessage("batch flushed").All()
	require.Len(t, flushed, 3)
	assert.Equal(t, int64(5), flushed[2].ContextMap()["total_inserted"])
	assert.Equal(t, 1, logs.FilterMessage("loader drained").Len())
}
