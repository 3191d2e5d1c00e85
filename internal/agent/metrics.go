package agent

import (
	"context"
	"time"
)

// MetricsRecorder receives timing and outcome telemetry from the
// controller. The instrumentation package provides the production
// implementation.
type MetricsRecorder interface {
	RecordTurn(ctx context.Context, status string, duration time.Duration, cycles int)
	RecordReasoningCall(ctx context.Context, model, status string, duration time.Duration)
	RecordToolInvocation(ctx context.Context, tool, status string, duration time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) RecordTurn(context.Context, string, time.Duration, int)             {}
func (nopMetrics) RecordReasoningCall(context.Context, string, string, time.Duration) {}
func (nopMetrics) RecordToolInvocation(context.Context, string, string, time.Duration) {
}
