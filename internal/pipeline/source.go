package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"retailclean/internal/config"
	"retailclean/internal/datasource"
	"retailclean/internal/datasource/httpds"
	csvparser "retailclean/internal/parser/csv"
	"retailclean/internal/schema"
	"retailclean/pkg/records"
)

// openSource picks a local or HTTP source for the configured location.
func openSource(cfg *config.Pipeline, log *zap.Logger) datasource.Source {
	var client *httpds.Client
	if datasource.IsRemote(cfg.Source.Location) {
		client = httpds.NewClient(httpds.Config{
			Timeout:            time.Duration(cfg.Source.HTTP.TimeoutSeconds) * time.Second,
			MaxRetries:         cfg.Source.HTTP.MaxRetries,
			InsecureSkipVerify: cfg.Source.HTTP.InsecureSkipVerify,
			Logger:             log.Named("http"),
		})
	}
	return datasource.ForLocation(cfg.Source.Location, client)
}

// load reads and parses the whole input table. It returns the table and the
// number of physical rows the parser skipped.
func load(ctx context.Context, cfg *config.Pipeline, log *zap.Logger) (records.Table, int, error) {
	loc := cfg.Source.Location
	rc, err := openSource(cfg, log).Open(ctx)
	if err != nil {
		return records.Table{}, 0, fmt.Errorf("open source %s: %w", loc, err)
	}
	defer rc.Close()

	p := csvparser.NewParser(csvparser.Options{
		Comma:      cfg.Comma(),
		NullValues: cfg.Parser.NullValues,
		Required:   schema.Customer.Required(),
		Logger:     log.Named("csv"),
	})
	tbl, skipped, err := p.Parse(rc)
	if err != nil {
		return records.Table{}, skipped, fmt.Errorf("parse %s: %w", loc, err)
	}
	return tbl, skipped, nil
}
