package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"retailclean/internal/config"
	"retailclean/internal/schema"
	"retailclean/internal/transformer"
	"retailclean/internal/transformer/builtin"
)

// StageNames lists the chain built by BuildStages, in order.
var StageNames = []string{"coerce", "normalize", "standardize", "validate", "impute", "derive", "segment"}

// BuildStages assembles the cleaning chain from cfg. now is the run's single
// processing-time reference; reject receives every row the validator drops
// and may be nil.
func BuildStages(cfg *config.Pipeline, now time.Time, reject func(builtin.RejectedRow), log *zap.Logger) (transformer.Chain, error) {
	if log == nil {
		log = zap.NewNop()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("build stages: %w", err)
	}
	return transformer.Chain{
		builtin.Coerce{
			Numeric:  schema.NumericColumns,
			Dates:    schema.DateColumns,
			Layouts:  cfg.Dates.Layouts,
			Location: loc,
		},
		builtin.Normalize{
			TitleFields:        schema.TitleCaseColumns,
			TrimFields:         schema.TrimOnlyColumns,
			MissingPlaceholder: cfg.Text.MissingPlaceholder,
		},
		builtin.Standardize{Mappings: cfg.CategoryMappings()},
		builtin.Validate{
			Now:    now,
			MinAge: cfg.Validation.MinAge,
			MaxAge: cfg.Validation.MaxAge,
			Reject: reject,
		},
		builtin.Impute{
			FallbackAge:    cfg.Impute.FallbackAge,
			AmountSpent:    cfg.Impute.AmountSpent,
			TotalPurchases: cfg.Impute.TotalPurchases,
			Logger:         log.Named("impute"),
		},
		builtin.Derive{Now: now},
		builtin.Segment{Rules: cfg.Segments},
	}, nil
}
