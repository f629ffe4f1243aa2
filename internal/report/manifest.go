package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/xxh3"
)

// Manifest describes one run and the artifacts it produced.
type Manifest struct {
	RunID         string         `json:"run_id"`
	Job           string         `json:"job"`
	Source        string         `json:"source"`
	ReferenceTime time.Time      `json:"reference_time"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at"`
	Counts        Counts         `json:"counts"`
	DroppedBy     map[string]int `json:"dropped_by_reason,omitempty"`
	Stages        []StageTiming  `json:"stages"`
	Artifacts     []Artifact     `json:"artifacts"`
}

// Counts are the row tallies of a run.
type Counts struct {
	Initial  int              `json:"initial"`
	Skipped  int              `json:"skipped"`
	Dropped  int              `json:"dropped"`
	Written  int              `json:"written"`
	Inserted map[string]int64 `json:"inserted,omitempty"`
}

// StageTiming records one stage of the chain.
type StageTiming struct {
	Name       string  `json:"name"`
	RowsIn     int     `json:"rows_in"`
	RowsOut    int     `json:"rows_out"`
	DurationMS float64 `json:"duration_ms"`
}

// Artifact is a produced file with its size and xxh3 checksum.
type Artifact struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
	XXH3  string `json:"xxh3"`
}

// Checksum returns the hex xxh3-64 digest and size of the file at path.
func Checksum(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	h := xxh3.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", n, fmt.Errorf("hash %s: %w", path, err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), n, nil
}

// Describe checksums every path into artifacts named by base name.
func Describe(paths ...string) ([]Artifact, error) {
	out := make([]Artifact, 0, len(paths))
	for _, p := range paths {
		sum, n, err := Checksum(p)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", p, err)
		}
		out = append(out, Artifact{Name: filepath.Base(p), Path: p, Bytes: n, XXH3: sum})
	}
	return out, nil
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(path string, m Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	b, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read manifest %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return m, nil
}

// ErrArtifactChanged is returned (wrapped) when a file no longer matches its
// recorded checksum.
var ErrArtifactChanged = errors.New("artifact changed")

// VerifyArtifacts re-hashes every artifact in m and joins one error per file
// that is missing or changed.
func VerifyArtifacts(m Manifest) error {
	var errs []error
	for _, a := range m.Artifacts {
		sum, n, err := Checksum(a.Path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.Name, err))
			continue
		}
		if sum != a.XXH3 || n != a.Bytes {
			errs = append(errs, fmt.Errorf("%s: %w (xxh3 %s, want %s)", a.Name, ErrArtifactChanged, sum, a.XXH3))
		}
	}
	return errors.Join(errs...)
}
