package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"retailclean/internal/config"
	"retailclean/internal/pipeline"
	"retailclean/internal/rejects"
	"retailclean/internal/report"
)

func newRunCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the cleaning pipeline",
		Long: `Run loads the configured source, cleans it and writes the artifacts.

Flags override the config file and RETAILCLEAN_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := g.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg, used, err := config.Load(g.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if used != "" {
				log.Info("config loaded", zap.String("path", used))
			}
			issues := config.ValidatePipeline(*cfg)
			if len(issues) > 0 {
				renderIssues(cmd.ErrOrStderr(), issues)
			}
			if config.HasErrors(issues) {
				return fmt.Errorf("configuration is invalid")
			}

			res, err := pipeline.Run(cmd.Context(), pipeline.Options{Config: cfg, Logger: log})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initial rows: %d\n", res.Initial)
			fmt.Fprintf(out, "Dropped rows: %d\n", res.Dropped)
			renderSummary(out, res)

			if !report.TablesExist(cfg.Output.Dir) {
				return fmt.Errorf("cleaned tables were not written to %s", cfg.Output.Dir)
			}
			fmt.Fprintf(out, "Data cleaning completed successfully: %d rows written to %s\n", res.Written, cfg.Output.Dir)
			return nil
		},
	}

	f := cmd.Flags()
	f.String("job", "", "job name used in logs and metrics")
	f.StringP("input", "i", "", "input CSV path or http(s) URL")
	f.StringP("output-dir", "o", "", "directory for the cleaned artifacts")
	f.String("plot-dir", "", "directory for charts (relative to output-dir)")
	f.Bool("xlsx", false, "also write an XLSX workbook")
	f.Bool("rejects", false, "write dropped rows to "+rejects.DefaultFile)
	f.Bool("no-charts", false, "skip chart rendering")
	f.String("reference-time", "", "processing-time reference (RFC 3339 or YYYY-MM-DD)")
	f.String("storage-kind", "", "warehouse backend (postgres|sqlite|mssql)")
	f.String("storage-dsn", "", "warehouse connection string")
	f.String("metrics-backend", "", "metrics backend (none|pushgateway|datadog)")
	f.Int("max-retries", 0, "HTTP retries for URL sources")
	return cmd
}

func renderSummary(w io.Writer, res *pipeline.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Stage", "Rows In", "Rows Out", "Duration"})
	for _, s := range res.Stages {
		d := time.Duration(s.DurationMS * float64(time.Millisecond))
		t.AppendRow(table.Row{s.Name, s.RowsIn, s.RowsOut, d.Round(time.Microsecond)})
	}
	tables := make([]string, 0, len(res.Inserted))
	for name := range res.Inserted {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	for _, name := range tables {
		t.AppendFooter(table.Row{"inserted", name, res.Inserted[name], ""})
	}
	t.Render()
	fmt.Fprintf(w, "Manifest: %s\n", res.ManifestPath)
}
