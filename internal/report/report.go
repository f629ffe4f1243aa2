// Package report writes the artifacts of a cleaning run: the cleaned table,
// the segment table, an optional workbook, summary charts and the run
// manifest.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"retailclean/internal/schema"
	"retailclean/pkg/records"
)

// Artifact file names.
const (
	CleanedFile  = "retail_customers_cleaned.csv"
	SegmentsFile = "customer_segments.csv"
	XLSXFile     = "retail_customers_cleaned.xlsx"
	ManifestFile = "run_manifest.json"
)

// Options controls which artifacts Render writes and where.
type Options struct {
	Dir     string
	PlotDir string
	XLSX    bool
	Charts  bool
	Logger  *zap.Logger
}

// Outputs lists the files Render produced.
type Outputs struct {
	Cleaned  string
	Segments string
	XLSX     string
	Charts   []string
}

// Paths returns every produced path in a stable order.
func (o Outputs) Paths() []string {
	out := []string{o.Cleaned, o.Segments}
	if o.XLSX != "" {
		out = append(out, o.XLSX)
	}
	return append(out, o.Charts...)
}

// Render writes the cleaned and segment tables, then the optional workbook
// and charts. Output directories are created when absent.
func Render(ctx context.Context, opts Options, tbl records.Table) (Outputs, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Outputs{}, fmt.Errorf("create output dir %s: %w", dir, err)
	}

	cols := OutputColumns(tbl)
	segCols := schema.Segments.Names()
	out := Outputs{
		Cleaned:  filepath.Join(dir, CleanedFile),
		Segments: filepath.Join(dir, SegmentsFile),
	}

	start := time.Now()
	if err := writeCSV(out.Cleaned, cols, tbl.Rows); err != nil {
		return Outputs{}, err
	}
	if err := writeCSV(out.Segments, segCols, tbl.Rows); err != nil {
		return Outputs{}, err
	}
	log.Info("tables written",
		zap.String("cleaned", out.Cleaned),
		zap.String("segments", out.Segments),
		zap.Int("rows", len(tbl.Rows)),
		zap.Duration("took", time.Since(start)),
	)

	if opts.XLSX {
		out.XLSX = filepath.Join(dir, XLSXFile)
		if err := writeXLSX(out.XLSX,
			sheetData{name: SheetCleaned, columns: cols, rows: tbl.Rows},
			sheetData{name: SheetSegments, columns: segCols, rows: tbl.Rows},
		); err != nil {
			return Outputs{}, err
		}
		log.Info("workbook written", zap.String("path", out.XLSX))
	}

	if opts.Charts {
		plotDir := opts.PlotDir
		if plotDir == "" {
			plotDir = filepath.Join(dir, "plots")
		}
		if err := os.MkdirAll(plotDir, 0o755); err != nil {
			return Outputs{}, fmt.Errorf("create plot dir %s: %w", plotDir, err)
		}
		start := time.Now()
		charts, err := RenderCharts(ctx, plotDir, tbl.Rows)
		if err != nil {
			return Outputs{}, err
		}
		out.Charts = charts
		log.Info("charts saved", zap.String("dir", plotDir), zap.Int("count", len(charts)), zap.Duration("took", time.Since(start)))
	}
	return out, nil
}

// TablesExist reports whether both table artifacts are present in dir.
func TablesExist(dir string) bool {
	for _, name := range []string{CleanedFile, SegmentsFile} {
		fi, err := os.Stat(filepath.Join(dir, name))
		if err != nil || fi.IsDir() {
			return false
		}
	}
	return true
}
