// Package transformer defines the stage contract of the cleaning pipeline.
//
// A Transformer takes ownership of the row slice it is given and returns the
// slice it produced; the caller must not touch the input afterwards. Stages
// may mutate rows in place, filter by reslicing, or allocate a new slice.
package transformer

import (
	"time"

	"retailclean/pkg/records"
)

type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Namer is implemented by transformers that report a stable stage name for
// logs and metrics.
type Namer interface{ Name() string }

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}

// Observer is called after each step of ApplyObserved with the row counts
// entering and leaving the step.
type Observer func(step int, name string, in, out int, d time.Duration)

// ApplyObserved runs the chain like Apply and reports every step to obs.
func (c Chain) ApplyObserved(in []records.Record, obs Observer) []records.Record {
	out := in
	for i, t := range c {
		before := len(out)
		start := time.Now()
		out = t.Apply(out)
		if obs != nil {
			obs(i, NameOf(t), before, len(out), time.Since(start))
		}
	}
	return out
}

// NameOf returns t's stage name, or "unnamed" when t does not implement Namer.
func NameOf(t Transformer) string {
	if n, ok := t.(Namer); ok {
		return n.Name()
	}
	return "unnamed"
}
