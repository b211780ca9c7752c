package workflow

import (
	"fmt"
	"sort"

	"github.com/petrijr/canvas/pkg/api"
)

// Codec converts a step list to and from bytes.
//
// Encode must be deterministic: the same list always yields the same bytes.
// Decode must reject anything that is not a well-formed step sequence with
// an error wrapping api.ErrMalformedData.
type Codec interface {
	Name() string
	Encode(steps []api.Step) ([]byte, error)
	Decode(data []byte) ([]api.Step, error)
}

var codecs = map[string]Codec{
	JSONCodec{}.Name(): JSONCodec{},
	YAMLCodec{}.Name(): YAMLCodec{},
}

// CodecByName returns the codec registered under name ("json" or "yaml").
func CodecByName(name string) (Codec, error) {
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("unknown codec %q (known: %v)", name, CodecNames())
	}
	return c, nil
}

// CodecNames lists the registered codec names in sorted order.
func CodecNames() []string {
	names := make([]string, 0, len(codecs))
	for n := range codecs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// record is the persisted shape of a step. Payload fields are only written
// for kinds that define them.
type record struct {
	Kind       api.StepKind `json:"kind" yaml:"kind"`
	ID         int          `json:"id" yaml:"id"`
	Condition  *string      `json:"condition,omitempty" yaml:"condition,omitempty"`
	Iterations *int         `json:"iterations,omitempty" yaml:"iterations,omitempty"`
}

// inboundRecord mirrors record with every field optional so that missing
// fields can be told apart from zero values.
type inboundRecord struct {
	Kind       *string `json:"kind" yaml:"kind"`
	ID         *int    `json:"id" yaml:"id"`
	Condition  *string `json:"condition" yaml:"condition"`
	Iterations *int    `json:"iterations" yaml:"iterations"`
}

func toRecords(steps []api.Step) []record {
	out := make([]record, len(steps))
	for i, s := range steps {
		out[i] = record{
			Kind:       s.Kind,
			ID:         s.ID,
			Condition:  s.Condition,
			Iterations: s.Iterations,
		}
	}
	return out
}

func (r inboundRecord) toStep(index int) (api.Step, error) {
	if r.Kind == nil {
		return api.Step{}, malformed(index, "missing kind")
	}
	if r.ID == nil {
		return api.Step{}, malformed(index, "missing id")
	}

	s := api.Step{
		Kind:       api.StepKind(*r.Kind),
		ID:         *r.ID,
		Condition:  r.Condition,
		Iterations: r.Iterations,
	}
	if err := s.Validate(); err != nil {
		return api.Step{}, fmt.Errorf("%w: record %d: %w", api.ErrMalformedData, index, err)
	}
	return s, nil
}

func malformed(index int, reason string) error {
	if index < 0 {
		return fmt.Errorf("%w: %s", api.ErrMalformedData, reason)
	}
	return fmt.Errorf("%w: record %d: %s", api.ErrMalformedData, index, reason)
}
