package canvas

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/petrijr/canvas/internal/persistence"
	"github.com/petrijr/canvas/internal/workflow"
	"github.com/petrijr/canvas/pkg/api"
)

// DefaultKey is the byte store key a session saves to unless WithKey is used.
const DefaultKey = "workflowData"

// Session is the model behind one canvas: the ordered step list, the factory
// that builds steps for palette drops, and the byte store the list is saved
// to. A presentation layer holds one Session for as long as the canvas is
// open and calls it for every user gesture.
//
// Every method runs to completion before returning. A failed call leaves
// the list exactly as it was.
type Session struct {
	mu      sync.Mutex
	list    *workflow.Store
	factory *workflow.Factory
	bytes   ByteStore
	key     string
	obs     Observer
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	key   string
	obs   Observer
	codec Codec
	ids   IDSource
	steps []Step
}

// WithKey sets the byte store key used by Save and Load.
func WithKey(key string) SessionOption {
	return func(c *sessionConfig) {
		if key != "" {
			c.key = key
		}
	}
}

// WithObserver sets the Observer notified of every operation.
func WithObserver(obs Observer) SessionOption {
	return func(c *sessionConfig) { c.obs = obs }
}

// WithCodec sets the encoding used for Save, Load, Serialize and Deserialize.
func WithCodec(codec Codec) SessionOption {
	return func(c *sessionConfig) { c.codec = codec }
}

// WithIDSource sets how new steps are numbered. The default, LengthIDs,
// numbers a step as the list length plus one.
func WithIDSource(ids IDSource) SessionOption {
	return func(c *sessionConfig) { c.ids = ids }
}

// WithInitialSteps seeds the list. Steps that fail Validate are left out
// and reported to the observer as a failed "seed" operation.
func WithInitialSteps(steps ...Step) SessionOption {
	return func(c *sessionConfig) { c.steps = append(c.steps, steps...) }
}

// NewSession creates a session with an empty list. bytes may be nil, in
// which case an in-memory store is used.
func NewSession(bytes ByteStore, opts ...SessionOption) *Session {
	cfg := sessionConfig{key: DefaultKey}
	for _, opt := range opts {
		opt(&cfg)
	}
	if bytes == nil {
		bytes = persistence.NewInMemoryStore()
	}
	if cfg.obs == nil {
		cfg.obs = NoopObserver{}
	}

	seeds := make([]Step, 0, len(cfg.steps))
	for i, st := range cfg.steps {
		if err := st.Validate(); err != nil {
			cfg.obs.OnOperationFailed(context.Background(), "seed", fmt.Errorf("initial step %d: %w", i, err))
			continue
		}
		seeds = append(seeds, st)
	}

	list := workflow.NewStore(workflow.WithCodec(cfg.codec), workflow.WithSteps(seeds...))
	return &Session{
		list:    list,
		factory: workflow.NewFactory(list, workflow.WithIDSource(cfg.ids)),
		bytes:   bytes,
		key:     cfg.key,
		obs:     cfg.obs,
	}
}

// Drop handles a palette drop: it builds a step of kind, asking input for
// the payload if the kind needs one, and appends it to the list. Nothing is
// appended if ctx is done by the time the payload prompt returns.
func (s *Session) Drop(ctx context.Context, kind StepKind, input InputProvider) (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	step, err := s.factory.Create(kind, input)
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		err = s.list.Append(step)
	}
	if err != nil {
		s.obs.OnOperationFailed(ctx, "drop", err)
		return Step{}, err
	}
	s.obs.OnStepAdded(ctx, step, s.list.Len()-1)
	return step, nil
}

// Append adds an already built step to the end of the list.
func (s *Session) Append(ctx context.Context, step Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.list.Append(step); err != nil {
		s.obs.OnOperationFailed(ctx, "append", err)
		return err
	}
	s.obs.OnStepAdded(ctx, step, s.list.Len()-1)
	return nil
}

// Move moves the step at src so that it ends up at dst (remove, then
// insert). It fails with ErrIndexOutOfRange if either index is invalid.
func (s *Session) Move(ctx context.Context, src, dst int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.list.MoveItem(src, dst); err != nil {
		s.obs.OnOperationFailed(ctx, "move", err)
		return err
	}
	if src != dst {
		moved, _ := s.list.At(dst)
		s.obs.OnStepMoved(ctx, moved, src, dst)
	}
	return nil
}

// Delete removes the step at index. It fails with ErrIndexOutOfRange if the
// index is invalid.
func (s *Session) Delete(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.list.DeleteAt(index)
	if err != nil {
		s.obs.OnOperationFailed(ctx, "delete", err)
		return err
	}
	s.obs.OnStepDeleted(ctx, removed, index)
	return nil
}

// Serialize encodes the current list.
func (s *Session) Serialize() ([]byte, error) {
	return s.list.Serialize()
}

// Deserialize replaces the list with the steps encoded in data. The list is
// unchanged if data is malformed. On success the observer sees
// OnWorkflowLoaded with an empty key.
func (s *Session) Deserialize(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.list.Deserialize(data); err != nil {
		s.obs.OnOperationFailed(ctx, "deserialize", err)
		return err
	}
	s.obs.OnWorkflowLoaded(ctx, "", s.list.Len())
	return nil
}

// Save writes the encoded list to the byte store under the session key.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.list.Serialize()
	if err != nil {
		err = fmt.Errorf("encode workflow: %w", err)
		s.obs.OnOperationFailed(ctx, "save", err)
		return err
	}
	if err := s.bytes.Put(ctx, s.key, data); err != nil {
		err = fmt.Errorf("save workflow %q: %w", s.key, err)
		s.obs.OnOperationFailed(ctx, "save", err)
		return err
	}
	s.obs.OnWorkflowSaved(ctx, s.key, s.list.Len())
	return nil
}

// Load replaces the list with the one saved under the session key. It
// returns ErrNotFound when nothing was saved and ErrMalformedData when the
// stored bytes cannot be decoded; in both cases the list is unchanged.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.bytes.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			err = fmt.Errorf("load workflow %q: %w", s.key, err)
		}
		s.obs.OnOperationFailed(ctx, "load", err)
		return err
	}
	if err := s.list.Deserialize(data); err != nil {
		s.obs.OnOperationFailed(ctx, "load", err)
		return err
	}
	s.obs.OnWorkflowLoaded(ctx, s.key, s.list.Len())
	return nil
}

// Steps returns a snapshot of the list for rendering.
func (s *Session) Steps() []Step {
	return s.list.Steps()
}

// Len returns the number of steps.
func (s *Session) Len() int {
	return s.list.Len()
}

// Render returns the display label of every step, in order.
func (s *Session) Render() []string {
	steps := s.list.Steps()
	labels := make([]string, len(steps))
	for i, st := range steps {
		labels[i] = st.Label()
	}
	return labels
}

// Key returns the byte store key used by Save and Load.
func (s *Session) Key() string {
	return s.key
}

// Codec returns the encoding used by the session.
func (s *Session) Codec() Codec {
	return s.list.Codec()
}
