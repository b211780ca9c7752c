package workflow

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/petrijr/canvas/pkg/api"
)

// YAMLCodec stores a list as a YAML sequence using the same record shape as
// JSONCodec. It is meant for exports people edit by hand.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Encode(steps []api.Step) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toRecords(steps)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) Decode(data []byte) ([]api.Step, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var recs []inboundRecord
	if err := dec.Decode(&recs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, malformed(-1, "empty input")
		}
		return nil, malformed(-1, err.Error())
	}
	if recs == nil {
		return nil, malformed(-1, "expected a YAML sequence of steps")
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, malformed(-1, "unexpected data after first document")
	}

	steps := make([]api.Step, 0, len(recs))
	for i, rec := range recs {
		s, err := rec.toStep(i)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}
