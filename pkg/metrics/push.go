package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultJobName is the Pushgateway job label used by batch runs
const DefaultJobName = "wppi"

// Push sends every metric of the registry to a Prometheus Pushgateway,
// replacing previous values for the job. runID is attached as a grouping key
// when non-empty.
func (r *Registry) Push(ctx context.Context, gatewayURL, job, runID string) error {
	if job == "" {
		job = DefaultJobName
	}

	pusher := push.New(gatewayURL, job).Gatherer(r.registry)
	if runID != "" {
		pusher = pusher.Grouping("run_id", runID)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
