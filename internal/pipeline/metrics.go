package pipeline

import (
	"fmt"

	"retailclean/internal/config"
	"retailclean/internal/metrics"
	"retailclean/internal/metrics/datadog"
	"retailclean/internal/metrics/prompush"
)

// newMetricsBackend returns the backend selected by cfg.Metrics.Backend, or
// nil for "none".
func newMetricsBackend(cfg *config.Pipeline, runID string) (metrics.Backend, error) {
	m := cfg.Metrics
	switch m.Backend {
	case "", "none":
		return nil, nil
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.Job, m.PushgatewayURL, runID)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr: m.DatadogAddr,
			Tags: []string{"run_id:" + runID},
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported metrics.backend=%s", m.Backend)
	}
}
