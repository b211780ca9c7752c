package api

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Observer receives callbacks from a canvas session for logging and metrics.
//
// Implementations should be fast and non-blocking; callbacks run inline with
// the operation that triggered them.
type Observer interface {
	// OnStepAdded is called after a step has been appended at index.
	OnStepAdded(ctx context.Context, step Step, index int)

	// OnStepMoved is called after the step now at to was moved from from.
	OnStepMoved(ctx context.Context, step Step, from, to int)

	// OnStepDeleted is called after the step at index has been removed.
	OnStepDeleted(ctx context.Context, step Step, index int)

	// OnWorkflowSaved is called after count steps were written under key.
	OnWorkflowSaved(ctx context.Context, key string, count int)

	// OnWorkflowLoaded is called after the list was replaced by count steps
	// read from key. key is empty when the bytes were passed in directly.
	OnWorkflowLoaded(ctx context.Context, key string, count int)

	// OnOperationFailed is called when op returned err. The list is left
	// as it was before the operation.
	OnOperationFailed(ctx context.Context, op string, err error)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnStepAdded(ctx context.Context, step Step, index int)        {}
func (NoopObserver) OnStepMoved(ctx context.Context, step Step, from, to int)     {}
func (NoopObserver) OnStepDeleted(ctx context.Context, step Step, index int)      {}
func (NoopObserver) OnWorkflowSaved(ctx context.Context, key string, count int)   {}
func (NoopObserver) OnWorkflowLoaded(ctx context.Context, key string, count int)  {}
func (NoopObserver) OnOperationFailed(ctx context.Context, op string, err error) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnStepAdded(ctx context.Context, step Step, index int) {
	for _, o := range c.observers {
		o.OnStepAdded(ctx, step, index)
	}
}

func (c *CompositeObserver) OnStepMoved(ctx context.Context, step Step, from, to int) {
	for _, o := range c.observers {
		o.OnStepMoved(ctx, step, from, to)
	}
}

func (c *CompositeObserver) OnStepDeleted(ctx context.Context, step Step, index int) {
	for _, o := range c.observers {
		o.OnStepDeleted(ctx, step, index)
	}
}

func (c *CompositeObserver) OnWorkflowSaved(ctx context.Context, key string, count int) {
	for _, o := range c.observers {
		o.OnWorkflowSaved(ctx, key, count)
	}
}

func (c *CompositeObserver) OnWorkflowLoaded(ctx context.Context, key string, count int) {
	for _, o := range c.observers {
		o.OnWorkflowLoaded(ctx, key, count)
	}
}

func (c *CompositeObserver) OnOperationFailed(ctx context.Context, op string, err error) {
	for _, o := range c.observers {
		o.OnOperationFailed(ctx, op, err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs list mutations and
// persistence events using the provided slog.Logger. If logger is nil,
// slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnStepAdded(ctx context.Context, step Step, index int) {
	o.Logger.DebugContext(ctx, "step_added",
		slog.String("kind", string(step.Kind)),
		slog.Int("step_id", step.ID),
		slog.Int("index", index),
	)
}

func (o *LoggingObserver) OnStepMoved(ctx context.Context, step Step, from, to int) {
	o.Logger.DebugContext(ctx, "step_moved",
		slog.String("kind", string(step.Kind)),
		slog.Int("step_id", step.ID),
		slog.Int("from", from),
		slog.Int("to", to),
	)
}

func (o *LoggingObserver) OnStepDeleted(ctx context.Context, step Step, index int) {
	o.Logger.DebugContext(ctx, "step_deleted",
		slog.String("kind", string(step.Kind)),
		slog.Int("step_id", step.ID),
		slog.Int("index", index),
	)
}

func (o *LoggingObserver) OnWorkflowSaved(ctx context.Context, key string, count int) {
	o.Logger.InfoContext(ctx, "workflow_saved",
		slog.String("key", key),
		slog.Int("steps", count),
	)
}

func (o *LoggingObserver) OnWorkflowLoaded(ctx context.Context, key string, count int) {
	o.Logger.InfoContext(ctx, "workflow_loaded",
		slog.String("key", key),
		slog.Int("steps", count),
	)
}

func (o *LoggingObserver) OnOperationFailed(ctx context.Context, op string, err error) {
	o.Logger.WarnContext(ctx, "operation_failed",
		slog.String("op", op),
		slog.Any("error", err),
	)
}

// BasicMetrics collects simple counters. It implements Observer, and can be
// combined with LoggingObserver via NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	stepsAdded   atomic.Int64
	stepsMoved   atomic.Int64
	stepsDeleted atomic.Int64
	saves        atomic.Int64
	loads        atomic.Int64
	failures     atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	StepsAdded   int64
	StepsMoved   int64
	StepsDeleted int64
	Saves        int64
	Loads        int64
	Failures     int64

	// NetSteps is added minus deleted. It drifts from the list length once
	// a load replaces the list.
	NetSteps int64
}

func (m *BasicMetrics) OnStepAdded(ctx context.Context, step Step, index int) {
	m.stepsAdded.Add(1)
}

func (m *BasicMetrics) OnStepMoved(ctx context.Context, step Step, from, to int) {
	m.stepsMoved.Add(1)
}

func (m *BasicMetrics) OnStepDeleted(ctx context.Context, step Step, index int) {
	m.stepsDeleted.Add(1)
}

func (m *BasicMetrics) OnWorkflowSaved(ctx context.Context, key string, count int) {
	m.saves.Add(1)
}

func (m *BasicMetrics) OnWorkflowLoaded(ctx context.Context, key string, count int) {
	m.loads.Add(1)
}

func (m *BasicMetrics) OnOperationFailed(ctx context.Context, op string, err error) {
	m.failures.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	added := m.stepsAdded.Load()
	deleted := m.stepsDeleted.Load()

	return BasicMetricsSnapshot{
		StepsAdded:   added,
		StepsMoved:   m.stepsMoved.Load(),
		StepsDeleted: deleted,
		Saves:        m.saves.Load(),
		Loads:        m.loads.Load(),
		Failures:     m.failures.Load(),
		NetSteps:     added - deleted,
	}
}
