package calendar

import (
	"context"
	"time"

	"github.com/teemow/calagent/internal/logging"
)

// APIMetrics records Google Calendar API operation telemetry. The
// instrumentation package provides the production implementation.
type APIMetrics interface {
	RecordCalendarAPIOperation(ctx context.Context, operation, status string, duration time.Duration)
}

// instrumentedStore decorates a Store with per-operation metrics.
type instrumentedStore struct {
	store   Store
	metrics APIMetrics
}

// NewInstrumentedStore wraps store so that every API operation records its
// duration and outcome. When metrics is nil, store is returned unwrapped.
func NewInstrumentedStore(store Store, metrics APIMetrics) Store {
	if metrics == nil {
		return store
	}
	return &instrumentedStore{store: store, metrics: metrics}
}

func (s *instrumentedStore) ListUpcoming(ctx context.Context, maxResults int64) ([]Event, error) {
	start := time.Now()
	events, err := s.store.ListUpcoming(ctx, maxResults)
	s.record(ctx, "list", err, time.Since(start))
	return events, err
}

func (s *instrumentedStore) Insert(ctx context.Context, ev Event) (*Event, error) {
	start := time.Now()
	created, err := s.store.Insert(ctx, ev)
	s.record(ctx, "insert", err, time.Since(start))
	return created, err
}

func (s *instrumentedStore) Patch(ctx context.Context, eventID string, ev Event) (*Event, error) {
	start := time.Now()
	updated, err := s.store.Patch(ctx, eventID, ev)
	s.record(ctx, "patch", err, time.Since(start))
	return updated, err
}

func (s *instrumentedStore) record(ctx context.Context, operation string, err error, duration time.Duration) {
	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
	}
	s.metrics.RecordCalendarAPIOperation(context.WithoutCancel(ctx), operation, status, duration)
}
