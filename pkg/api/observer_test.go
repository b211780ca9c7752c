package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
)

//
// Helpers
//

// testObserver is a simple Observer implementation used to verify fan-out behavior.
type testObserver struct {
	mu sync.Mutex

	added, moved, deleted, saved, loaded, failed int

	lastStep Step
	lastFrom int
	lastTo   int
	lastKey  string
	lastOp   string
	lastErr  error
}

func (o *testObserver) OnStepAdded(ctx context.Context, step Step, index int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.added++
	o.lastStep = step
	o.lastTo = index
}

func (o *testObserver) OnStepMoved(ctx context.Context, step Step, from, to int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.moved++
	o.lastStep = step
	o.lastFrom, o.lastTo = from, to
}

func (o *testObserver) OnStepDeleted(ctx context.Context, step Step, index int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleted++
	o.lastStep = step
	o.lastFrom = index
}

func (o *testObserver) OnWorkflowSaved(ctx context.Context, key string, count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.saved++
	o.lastKey = key
}

func (o *testObserver) OnWorkflowLoaded(ctx context.Context, key string, count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loaded++
	o.lastKey = key
}

func (o *testObserver) OnOperationFailed(ctx context.Context, op string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed++
	o.lastOp = op
	o.lastErr = err
}

// recordingHandler is a slog.Handler that records all log records in memory.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	cpy := slog.Record{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
	}
	r.Attrs(func(a slog.Attr) bool {
		cpy.AddAttrs(a)
		return true
	})
	h.records = append(h.records, cpy)
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(name string) slog.Handler { return h }

func attrsToMap(r slog.Record) map[string]any {
	m := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.Any()
		return true
	})
	return m
}

//
// NoopObserver
//

func TestNoopObserver_DoesNotPanic(t *testing.T) {
	ctx := context.Background()
	var o Observer = NoopObserver{}

	o.OnStepAdded(ctx, NewStep(KindGetData, 1), 0)
	o.OnStepMoved(ctx, NewStep(KindGetData, 1), 0, 1)
	o.OnStepDeleted(ctx, NewStep(KindGetData, 1), 0)
	o.OnWorkflowSaved(ctx, "k", 1)
	o.OnWorkflowLoaded(ctx, "k", 1)
	o.OnOperationFailed(ctx, "move", errors.New("boom"))
}

//
// CompositeObserver
//

func TestNewCompositeObserver_EmptyReturnsNoop(t *testing.T) {
	o := NewCompositeObserver()
	if _, ok := o.(NoopObserver); !ok {
		t.Fatalf("expected NewCompositeObserver() to return NoopObserver, got %T", o)
	}
}

func TestNewCompositeObserver_SingleReturnsThatObserver(t *testing.T) {
	single := &testObserver{}
	o := NewCompositeObserver(single, nil)

	if got, ok := o.(*testObserver); !ok || got != single {
		t.Fatalf("expected the single non-nil observer to be returned, got %T (%p)", o, o)
	}
}

func TestCompositeObserver_ForwardsAllEvents(t *testing.T) {
	ctx := context.Background()

	o1 := &testObserver{}
	o2 := &testObserver{}
	co, ok := NewCompositeObserver(o1, o2).(*CompositeObserver)
	if !ok {
		t.Fatalf("expected *CompositeObserver")
	}

	step := NewLoopStep(2, 3)
	err := errors.New("bad index")
	co.OnStepAdded(ctx, step, 0)
	co.OnStepMoved(ctx, step, 0, 1)
	co.OnStepDeleted(ctx, step, 1)
	co.OnWorkflowSaved(ctx, "wf", 1)
	co.OnWorkflowLoaded(ctx, "wf", 1)
	co.OnOperationFailed(ctx, "delete", err)

	for i, o := range []*testObserver{o1, o2} {
		if o.added != 1 || o.moved != 1 || o.deleted != 1 || o.saved != 1 || o.loaded != 1 || o.failed != 1 {
			t.Fatalf("observer %d did not receive all calls: %+v", i+1, o)
		}
		if !o.lastStep.Equal(step) {
			t.Fatalf("observer %d step mismatch: %v", i+1, o.lastStep)
		}
		if o.lastKey != "wf" || o.lastOp != "delete" || o.lastErr != err {
			t.Fatalf("observer %d key/op/err mismatch: %+v", i+1, o)
		}
	}
}

//
// LoggingObserver
//

func TestNewLoggingObserver_NilLoggerUsesDefault(t *testing.T) {
	o := NewLoggingObserver(nil)
	lo, ok := o.(*LoggingObserver)
	if !ok {
		t.Fatalf("expected *LoggingObserver, got %T", o)
	}
	if lo.Logger == nil {
		t.Fatalf("expected non-nil Logger when created with nil")
	}
}

func TestLoggingObserver_OnWorkflowSaved_EmitsInfoLog(t *testing.T) {
	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	o.OnWorkflowSaved(context.Background(), "workflowData", 4)

	if len(h.records) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(h.records))
	}
	rec := h.records[0]
	if rec.Level != slog.LevelInfo {
		t.Fatalf("expected level INFO, got %v", rec.Level)
	}
	if rec.Message != "workflow_saved" {
		t.Fatalf("unexpected message %q", rec.Message)
	}
	attrs := attrsToMap(rec)
	if attrs["key"] != "workflowData" {
		t.Fatalf("expected key attr, got %v", attrs["key"])
	}
	if attrs["steps"] != int64(4) {
		t.Fatalf("expected steps=4, got %v", attrs["steps"])
	}
}

func TestLoggingObserver_MutationsLogAtDebugFailuresAtWarn(t *testing.T) {
	ctx := context.Background()
	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	o.OnStepMoved(ctx, NewStep(KindGetData, 1), 0, 2)
	o.OnOperationFailed(ctx, "move", ErrIndexOutOfRange)

	if len(h.records) != 2 {
		t.Fatalf("expected 2 log records, got %d", len(h.records))
	}
	if h.records[0].Level != slog.LevelDebug || h.records[0].Message != "step_moved" {
		t.Fatalf("unexpected first record: %v %q", h.records[0].Level, h.records[0].Message)
	}
	moved := attrsToMap(h.records[0])
	if moved["from"] != int64(0) || moved["to"] != int64(2) || moved["kind"] != "get-data" {
		t.Fatalf("unexpected move attrs: %v", moved)
	}
	if h.records[1].Level != slog.LevelWarn {
		t.Fatalf("expected WARN for failure, got %v", h.records[1].Level)
	}
	if got := attrsToMap(h.records[1])["op"]; got != "move" {
		t.Fatalf("expected op=move, got %v", got)
	}
}

//
// BasicMetrics
//

func TestBasicMetrics_CountersAndSnapshot(t *testing.T) {
	ctx := context.Background()
	m := &BasicMetrics{}
	step := NewStep(KindGetData, 1)

	m.OnStepAdded(ctx, step, 0)
	m.OnStepAdded(ctx, step, 1)
	m.OnStepAdded(ctx, step, 2)
	m.OnStepMoved(ctx, step, 0, 2)
	m.OnStepDeleted(ctx, step, 1)
	m.OnWorkflowSaved(ctx, "k", 2)
	m.OnWorkflowLoaded(ctx, "k", 2)
	m.OnOperationFailed(ctx, "delete", ErrIndexOutOfRange)

	snap := m.Snapshot()
	want := BasicMetricsSnapshot{
		StepsAdded:   3,
		StepsMoved:   1,
		StepsDeleted: 1,
		Saves:        1,
		Loads:        1,
		Failures:     1,
		NetSteps:     2,
	}
	if snap != want {
		t.Fatalf("unexpected snapshot:\n got  %+v\n want %+v", snap, want)
	}
}
