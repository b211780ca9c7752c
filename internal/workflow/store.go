package workflow

import (
	"sync"

	"github.com/petrijr/canvas/pkg/api"
)

// Store owns the ordered list of steps for one editing session.
//
// Positions are the only addressing scheme: MoveItem and DeleteAt take
// zero-based indices into the current list, never step IDs. Every method
// either fully applies or leaves the list untouched.
type Store struct {
	mu    sync.RWMutex
	steps []api.Step
	codec Codec
}

// Option configures a Store.
type Option func(*Store)

// WithCodec sets the encoding used by Serialize and Deserialize.
// The default is JSONCodec.
func WithCodec(c Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithSteps seeds the store with an initial list. Steps that fail
// Validate are skipped, so a seeded store always serializes to bytes that
// Deserialize accepts.
func WithSteps(steps ...api.Step) Option {
	return func(s *Store) {
		for _, st := range steps {
			if st.Validate() != nil {
				continue
			}
			s.steps = append(s.steps, st.Clone())
		}
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{codec: JSONCodec{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append places step at the end of the list. It fails with an error
// wrapping api.ErrInvalidStep if the step's payload does not match its kind.
func (s *Store) Append(step api.Step) error {
	if err := step.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.steps = append(s.steps, step.Clone())
	return nil
}

// MoveItem removes the step at src and re-inserts it so that it ends up at
// dst. dst is interpreted against the list with the source already removed,
// so [A B C D] with MoveItem(0, 2) becomes [B C A D].
func (s *Store) MoveItem(src, dst int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.steps)
	if src < 0 || src >= n {
		return &api.IndexError{Op: "move", Index: src, Len: n}
	}
	if dst < 0 || dst >= n {
		return &api.IndexError{Op: "move", Index: dst, Len: n}
	}
	if src == dst {
		return nil
	}

	moved := s.steps[src]
	if src < dst {
		copy(s.steps[src:dst], s.steps[src+1:dst+1])
	} else {
		copy(s.steps[dst+1:src+1], s.steps[dst:src])
	}
	s.steps[dst] = moved
	return nil
}

// DeleteAt removes the step at index and returns it. Later steps shift left
// by one; IDs are not renumbered.
func (s *Store) DeleteAt(index int) (api.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.steps)
	if index < 0 || index >= n {
		return api.Step{}, &api.IndexError{Op: "delete", Index: index, Len: n}
	}

	removed := s.steps[index]
	copy(s.steps[index:], s.steps[index+1:])
	s.steps[n-1] = api.Step{}
	s.steps = s.steps[:n-1]
	return removed, nil
}

// Serialize encodes the full list with the store's codec.
func (s *Store) Serialize() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.codec.Encode(s.steps)
}

// Deserialize replaces the whole list with the steps decoded from data.
// On any decoding or validation failure it returns an error wrapping
// api.ErrMalformedData and the current list is kept.
func (s *Store) Deserialize(data []byte) error {
	steps, err := s.codec.Decode(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.steps = steps
	return nil
}

// Len returns the number of steps.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.steps)
}

// At returns the step at index.
func (s *Store) At(index int) (api.Step, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.steps) {
		return api.Step{}, &api.IndexError{Op: "at", Index: index, Len: len(s.steps)}
	}
	return s.steps[index].Clone(), nil
}

// Steps returns a snapshot of the list in order. Changing the returned
// slice does not affect the store.
func (s *Store) Steps() []api.Step {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.Step, len(s.steps))
	for i, st := range s.steps {
		out[i] = st.Clone()
	}
	return out
}

// MaxID returns the largest step ID in the list, or 0 when it is empty.
func (s *Store) MaxID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	highest := 0
	for _, st := range s.steps {
		if st.ID > highest {
			highest = st.ID
		}
	}
	return highest
}

// Codec returns the codec used by Serialize and Deserialize.
func (s *Store) Codec() Codec {
	return s.codec
}
