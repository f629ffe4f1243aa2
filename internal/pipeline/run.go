// Package pipeline runs one cleaning pass end to end: load the raw customer
// table, apply the cleaning chain, write the report artifacts, optionally
// load the warehouse, and record the run manifest.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"retailclean/internal/config"
	"retailclean/internal/metrics"
	"retailclean/internal/rejects"
	"retailclean/internal/report"
	"retailclean/internal/schema"
	"retailclean/internal/storage"
	_ "retailclean/internal/storage/all"
	"retailclean/internal/transformer/builtin"
)

// Options configures Run.
type Options struct {
	Config *config.Pipeline

	// Now is the wall clock at run start; zero means time.Now(). The config's
	// runtime.reference_time, when set, takes precedence.
	Now time.Time

	Logger *zap.Logger
}

// Result summarizes a finished run.
type Result struct {
	RunID     string
	Reference time.Time

	Initial int // rows parsed from the source
	Skipped int // malformed physical rows the parser skipped
	Dropped int // rows removed by the validator
	Written int // rows in the cleaned table

	DroppedBy map[string]int
	Inserted  map[string]int64
	Stages    []report.StageTiming

	Outputs      report.Outputs
	RejectsPath  string
	ManifestPath string
}

// Run executes one cleaning pass. Any I/O failure aborts the run and is
// returned wrapped; rows failing validation are dropped and counted.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("pipeline: config is required")
	}
	if issues := config.ValidatePipeline(*cfg); config.HasErrors(issues) {
		return nil, fmt.Errorf("invalid config: %w", issuesError(issues))
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	started := time.Now()
	now := opts.Now
	if now.IsZero() {
		now = started
	}
	ref, err := cfg.ReferenceTime(now)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString(), Reference: ref}
	log = log.With(zap.String("job", cfg.Job), zap.String("run_id", res.RunID))

	backend, err := newMetricsBackend(cfg, res.RunID)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if backend != nil {
		metrics.SetBackend(backend)
		defer metrics.Reset()
	}

	// 1) Load.
	t0 := time.Now()
	tbl, skipped, err := load(ctx, cfg, log)
	metrics.RecordStep(cfg.Job, "load", err, time.Since(t0))
	if err != nil {
		return nil, err
	}
	res.Initial, res.Skipped = len(tbl.Rows), skipped
	metrics.RecordRow(cfg.Job, metrics.RowsLoaded, int64(res.Initial))
	metrics.RecordRow(cfg.Job, metrics.RowsSkipped, int64(skipped))
	log.Info("source loaded",
		zap.String("location", cfg.Source.Location),
		zap.Int("rows", res.Initial),
		zap.Int("skipped", skipped),
		zap.Duration("took", time.Since(t0)),
	)

	// 2) Clean.
	rejectPath := ""
	if cfg.Output.Rejects {
		rejectPath = filepath.Join(cfg.Output.Dir, rejects.DefaultFile)
	}
	rej, err := rejects.Open(rejectPath)
	if err != nil {
		return nil, fmt.Errorf("rejects: %w", err)
	}
	defer rej.Close()

	chain, err := BuildStages(cfg, ref, func(r builtin.RejectedRow) {
		rej.Add(r)
		log.Debug("row dropped", zap.Int("line", r.Line), zap.String("reason", r.Reason))
	}, log)
	if err != nil {
		return nil, err
	}
	tbl.Rows = chain.ApplyObserved(tbl.Rows, func(_ int, name string, in, out int, d time.Duration) {
		metrics.RecordStep(cfg.Job, name, nil, d)
		res.Stages = append(res.Stages, report.StageTiming{
			Name:       name,
			RowsIn:     in,
			RowsOut:    out,
			DurationMS: float64(d.Microseconds()) / 1000,
		})
		log.Debug("stage done", zap.String("stage", name), zap.Int("rows_in", in), zap.Int("rows_out", out), zap.Duration("took", d))
	})
	tbl.AppendColumns(schema.Customer.Derived()...)

	res.Dropped = rej.Total()
	res.DroppedBy = rej.Counts()
	res.Written = len(tbl.Rows)
	metrics.RecordRow(cfg.Job, metrics.RowsDropped, int64(res.Dropped))
	log.Info("rows cleaned",
		zap.Int("dropped", res.Dropped),
		zap.Any("dropped_by_reason", res.DroppedBy),
		zap.Int("remaining", res.Written),
	)

	// 3) Report.
	t0 = time.Now()
	res.Outputs, err = report.Render(ctx, report.Options{
		Dir:     cfg.Output.Dir,
		PlotDir: cfg.Output.PlotDir,
		XLSX:    cfg.Output.XLSX,
		Charts:  cfg.Output.Charts,
		Logger:  log.Named("report"),
	}, tbl)
	metrics.RecordStep(cfg.Job, "report", err, time.Since(t0))
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	metrics.RecordRow(cfg.Job, metrics.RowsWritten, int64(res.Written))

	if err := rej.Close(); err != nil {
		return nil, fmt.Errorf("rejects: %w", err)
	}
	res.RejectsPath = rej.Path()

	// 4) Warehouse.
	if cfg.Storage.Kind != "" {
		t0 = time.Now()
		res.Inserted, err = storage.Sink(ctx, storage.SinkOptions{
			Kind:       cfg.Storage.Kind,
			DSN:        cfg.Storage.DB.DSN,
			AutoCreate: cfg.Storage.DB.AutoCreateTable,
			BatchSize:  cfg.Runtime.BatchSize,
			Job:        cfg.Job,
			Logger:     log.Named("storage"),
		},
			storage.Dataset{Table: cfg.Storage.DB.Table, Contract: schema.Customer, Rows: tbl.Rows},
			storage.Dataset{Table: cfg.Storage.DB.SegmentsTable, Contract: schema.Segments, Rows: tbl.Rows},
		)
		metrics.RecordStep(cfg.Job, "sink", err, time.Since(t0))
		if err != nil {
			return nil, err
		}
	}

	// 5) Manifest.
	paths := res.Outputs.Paths()
	if res.RejectsPath != "" {
		paths = append(paths, res.RejectsPath)
	}
	arts, err := report.Describe(paths...)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	res.ManifestPath = filepath.Join(cfg.Output.Dir, report.ManifestFile)
	m := report.Manifest{
		RunID:         res.RunID,
		Job:           cfg.Job,
		Source:        cfg.Source.Location,
		ReferenceTime: ref,
		StartedAt:     started,
		FinishedAt:    time.Now(),
		Counts: report.Counts{
			Initial:  res.Initial,
			Skipped:  res.Skipped,
			Dropped:  res.Dropped,
			Written:  res.Written,
			Inserted: res.Inserted,
		},
		DroppedBy: res.DroppedBy,
		Stages:    res.Stages,
		Artifacts: arts,
	}
	if err := report.WriteManifest(res.ManifestPath, m); err != nil {
		return nil, err
	}

	if err := metrics.Flush(); err != nil {
		log.Warn("metrics flush failed", zap.Error(err))
	}
	log.Info("run complete",
		zap.String("manifest", res.ManifestPath),
		zap.Duration("took", time.Since(started)),
	)
	return res, nil
}

// issuesError joins the error-severity issues.
func issuesError(issues []config.Issue) error {
	var errs []error
	for _, iss := range issues {
		if iss.Severity == config.SeverityError {
			errs = append(errs, iss)
		}
	}
	return errors.Join(errs...)
}
