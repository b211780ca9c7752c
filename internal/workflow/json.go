package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/petrijr/canvas/pkg/api"
)

// JSONCodec stores a list as a JSON array of step objects:
//
//	[{"kind":"get-data","id":1},{"kind":"for-loop","id":2,"iterations":3}]
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Encode(steps []api.Step) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(toRecords(steps)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (JSONCodec) Decode(data []byte) ([]api.Step, error) {
	var raw []json.RawMessage
	if err := decodeStrictJSON(data, &raw); err != nil {
		return nil, malformed(-1, err.Error())
	}
	if raw == nil {
		return nil, malformed(-1, "expected a JSON array of steps")
	}

	steps := make([]api.Step, 0, len(raw))
	for i, msg := range raw {
		var rec inboundRecord
		if err := decodeStrictJSON(msg, &rec); err != nil {
			return nil, malformed(i, err.Error())
		}
		s, err := rec.toStep(i)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// decodeStrictJSON decodes exactly one JSON value into v, rejecting unknown
// object fields and trailing data.
func decodeStrictJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty input")
		}
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after top-level value")
	}
	return nil
}
