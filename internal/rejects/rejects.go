// Package rejects tallies rows dropped by the validator and, optionally,
// writes one CSV line per dropped row.
package rejects

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"retailclean/internal/schema"
	"retailclean/internal/transformer/builtin"
)

// DefaultFile is the rejects file name under the output directory.
const DefaultFile = "rejected_rows.csv"

// Header is the first row of a rejects file.
var Header = []string{"reason", "line_number", "customer_id", "stage"}

// Log counts rejected rows per reason. It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	reasons map[string]int
	total   int

	f *os.File
	w *csv.Writer
}

// Open creates a Log. An empty path keeps counts in memory only; otherwise
// the parent directories and file are created and the header is written.
func Open(path string) (*Log, error) {
	l := &Log{reasons: make(map[string]int)}
	if path == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	l.f = f
	l.w = csv.NewWriter(f)
	if err := l.w.Write(Header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return l, nil
}

// Add records one rejected row. Its signature matches builtin.Validate.Reject.
func (l *Log) Add(r builtin.RejectedRow) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reasons[r.Reason]++
	l.total++
	if l.w == nil {
		return
	}
	id := ""
	if r.Raw != nil {
		if s, ok := r.Raw.String(schema.CustomerID); ok {
			id = s
		}
	}
	_ = l.w.Write([]string{r.Reason, strconv.Itoa(r.Line), id, r.Stage})
}

// Total returns the number of rows added.
func (l *Log) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Counts returns a copy of the per-reason tally.
func (l *Log) Counts() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int, len(l.reasons))
	for k, v := range l.reasons {
		out[k] = v
	}
	return out
}

// Reasons returns the reasons seen, sorted.
func (l *Log) Reasons() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.reasons))
	for k := range l.reasons {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Path returns the backing file, or "" for an in-memory log.
func (l *Log) Path() string {
	if l.f == nil {
		return ""
	}
	return l.f.Name()
}

// Close flushes and closes the backing file. It is a no-op for in-memory logs
// and safe to call more than once.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	l.w.Flush()
	werr := l.w.Error()
	cerr := l.f.Close()
	l.w = nil
	l.f = nil
	if werr != nil {
		return fmt.Errorf("flush rejects: %w", werr)
	}
	return cerr
}
