package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/canvas/pkg/api"
)

func allKindsList() []api.Step {
	return []api.Step{
		api.NewStep(api.KindGetData, 1),
		api.NewStep(api.KindCreateUpdateData, 2),
		api.NewStep(api.KindPerformCalculation, 3),
		api.NewConditionStep(api.KindIfCondition, 4, "x > 5"),
		api.NewConditionStep(api.KindElseIfCondition, 5, "x < 0 && y == \"<b>\""),
		api.NewConditionStep(api.KindElseCondition, 6, api.DefaultCondition),
		api.NewLoopStep(7, 3),
		api.NewConditionStep(api.KindWhileLoop, 8, "true"),
	}
}

func requireSameSteps(t *testing.T, want, got []api.Step) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "step %d: want %+v got %+v", i, want[i], got[i])
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	lists := map[string][]api.Step{
		"empty":     {},
		"all kinds": allKindsList(),
		"duplicate ids": {
			api.NewStep(api.KindGetData, 2),
			api.NewLoopStep(2, 5),
			api.NewConditionStep(api.KindIfCondition, 2, ""),
		},
	}

	for _, c := range []Codec{JSONCodec{}, YAMLCodec{}} {
		for name, list := range lists {
			t.Run(c.Name()+"/"+name, func(t *testing.T) {
				data, err := c.Encode(list)
				require.NoError(t, err)

				got, err := c.Decode(data)
				require.NoError(t, err)
				requireSameSteps(t, list, got)

				again, err := c.Encode(got)
				require.NoError(t, err)
				assert.Equal(t, data, again, "encoding must be deterministic")
			})
		}
	}
}

func TestJSONCodec_WireFormat(t *testing.T) {
	data, err := JSONCodec{}.Encode([]api.Step{
		api.NewStep(api.KindGetData, 1),
		api.NewLoopStep(2, 3),
		api.NewConditionStep(api.KindWhileLoop, 3, "x < 10"),
	})
	require.NoError(t, err)
	assert.Equal(t,
		`[{"kind":"get-data","id":1},{"kind":"for-loop","id":2,"iterations":3},{"kind":"while-loop","id":3,"condition":"x < 10"}]`,
		string(data))

	empty, err := JSONCodec{}.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestJSONCodec_RejectsMalformed(t *testing.T) {
	inputs := map[string]string{
		"empty":                ``,
		"not json":             `not json`,
		"null":                 `null`,
		"object":               `{"kind":"get-data","id":1}`,
		"missing kind":         `[{"id":1}]`,
		"missing id":           `[{"kind":"get-data"}]`,
		"null record":          `[null]`,
		"unknown kind":         `[{"kind":"switch","id":1}]`,
		"string id":            `[{"kind":"get-data","id":"1"}]`,
		"fractional id":        `[{"kind":"get-data","id":1.5}]`,
		"string iterations":    `[{"kind":"for-loop","id":1,"iterations":"3"}]`,
		"fractional iter":      `[{"kind":"for-loop","id":1,"iterations":2.5}]`,
		"zero iterations":      `[{"kind":"for-loop","id":1,"iterations":0}]`,
		"missing iterations":   `[{"kind":"for-loop","id":1}]`,
		"numeric condition":    `[{"kind":"if-condition","id":1,"condition":5}]`,
		"missing condition":    `[{"kind":"while-loop","id":1}]`,
		"payload on get-data":  `[{"kind":"get-data","id":1,"condition":"x"}]`,
		"iterations on if":     `[{"kind":"if-condition","id":1,"condition":"x","iterations":2}]`,
		"unknown field":        `[{"kind":"get-data","id":1,"extra":true}]`,
		"legacy type field":    `[{"type":"get-data","id":1}]`,
		"trailing data":        `[] []`,
		"second record broken": `[{"kind":"get-data","id":1},{"kind":"for-loop","id":2,"iterations":"x"}]`,
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := JSONCodec{}.Decode([]byte(in))
			require.ErrorIs(t, err, api.ErrMalformedData)
		})
	}
}

func TestJSONCodec_ErrorNamesRecord(t *testing.T) {
	_, err := JSONCodec{}.Decode([]byte(`[{"kind":"get-data","id":1},{"id":2}]`))
	require.ErrorIs(t, err, api.ErrMalformedData)
	assert.Contains(t, err.Error(), "record 1")
}

func TestYAMLCodec_RejectsMalformed(t *testing.T) {
	inputs := map[string]string{
		"empty":             "",
		"null":              "~\n",
		"mapping":           "kind: get-data\nid: 1\n",
		"missing kind":      "- id: 1\n",
		"string iterations": "- kind: for-loop\n  id: 1\n  iterations: \"3\"\n",
		"unknown field":     "- kind: get-data\n  id: 1\n  extra: x\n",
		"two documents":     "[]\n---\n[]\n",
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := YAMLCodec{}.Decode([]byte(in))
			require.ErrorIs(t, err, api.ErrMalformedData)
		})
	}
}

func TestCodecByName(t *testing.T) {
	c, err := CodecByName("yaml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Name())

	_, err = CodecByName("xml")
	require.Error(t, err)
	assert.Equal(t, []string{"json", "yaml"}, CodecNames())
}
