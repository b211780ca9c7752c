package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/canvas/pkg/api"
)

func TestFactory_PayloadFreeKindsNeverPrompt(t *testing.T) {
	f := NewFactory(NewStore())

	for _, k := range []api.StepKind{api.KindGetData, api.KindCreateUpdateData, api.KindPerformCalculation} {
		in := api.NewCannedInput("ignored")
		step, err := f.Create(k, in)
		require.NoError(t, err)
		assert.Equal(t, k, step.Kind)
		assert.Nil(t, step.Condition)
		assert.Nil(t, step.Iterations)
		assert.Empty(t, in.Asked, "kind %s should not prompt", k)
	}
}

func TestFactory_ConditionKinds(t *testing.T) {
	f := NewFactory(NewStore())

	for _, k := range []api.StepKind{api.KindIfCondition, api.KindElseIfCondition, api.KindElseCondition} {
		in := api.NewCannedInput("x > 5")
		step, err := f.Create(k, in)
		require.NoError(t, err)
		require.NotNil(t, step.Condition)
		assert.Equal(t, "x > 5", *step.Condition)
		assert.Equal(t, []string{api.PromptCondition}, in.Asked)
	}
}

func TestFactory_IfConditionCancelledUsesPlaceholder(t *testing.T) {
	f := NewFactory(NewStore())

	step, err := f.Create(api.KindIfCondition, api.CancelInput{})
	require.NoError(t, err)
	require.NotNil(t, step.Condition)
	assert.Equal(t, "No condition", *step.Condition)

	step, err = f.Create(api.KindElseCondition, api.NewCannedInput(""))
	require.NoError(t, err)
	assert.Equal(t, api.DefaultCondition, *step.Condition)
}

func TestFactory_WhileLoopDefaults(t *testing.T) {
	f := NewFactory(NewStore())

	in := api.NewCannedInput("x < 10")
	step, err := f.Create(api.KindWhileLoop, in)
	require.NoError(t, err)
	assert.Equal(t, "x < 10", *step.Condition)
	assert.Equal(t, []string{api.PromptWhileCondition}, in.Asked)

	step, err = f.Create(api.KindWhileLoop, nil)
	require.NoError(t, err)
	assert.Equal(t, "true", *step.Condition)
}

func TestFactory_ForLoopIterations(t *testing.T) {
	cases := []struct {
		answer string
		ok     bool
		want   int
	}{
		{"3", true, 3},
		{"abc", true, 1},
		{"", true, 1},
		{"", false, 1},
		{"  12 times", true, 12},
		{"7.9", true, 7},
		{"+4", true, 4},
		{"0", true, 1},
		{"-2", true, 1},
		{"99999999999999999999999", true, 1},
	}

	for _, tc := range cases {
		in := api.PromptFunc(func(msg string) (string, bool) {
			assert.Equal(t, api.PromptIterations, msg)
			return tc.answer, tc.ok
		})
		step, err := NewFactory(NewStore()).Create(api.KindForLoop, in)
		require.NoError(t, err)
		require.NotNil(t, step.Iterations, "answer %q", tc.answer)
		assert.Equal(t, tc.want, *step.Iterations, "answer %q", tc.answer)
		assert.NoError(t, step.Validate())
	}
}

func TestFactory_UnknownKind(t *testing.T) {
	_, err := NewFactory(NewStore()).Create("switch", nil)
	require.ErrorIs(t, err, api.ErrUnknownKind)
}

func TestFactory_LengthIDsRepeatAfterDelete(t *testing.T) {
	s := NewStore()
	f := NewFactory(s)

	for i := 0; i < 3; i++ {
		step, err := f.Create(api.KindGetData, nil)
		require.NoError(t, err)
		assert.Equal(t, i+1, step.ID)
		require.NoError(t, s.Append(step))
	}

	_, err := s.DeleteAt(0)
	require.NoError(t, err)

	step, err := f.Create(api.KindGetData, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, step.ID, "length-derived id collides with the last step")
	require.NoError(t, s.Append(step))

	data, err := s.Serialize()
	require.NoError(t, err)
	other := NewStore()
	require.NoError(t, other.Deserialize(data))
	assert.Equal(t, []int{2, 3, 3}, ids(other.Steps()))
}

func TestFactory_CounterIDsStayUnique(t *testing.T) {
	s := NewStore(WithSteps(api.NewStep(api.KindGetData, 10)))
	f := NewFactory(s, WithIDSource(&CounterIDs{}))

	a, err := f.Create(api.KindGetData, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, a.ID)
	require.NoError(t, s.Append(a))

	_, err = s.DeleteAt(1)
	require.NoError(t, err)

	b, err := f.Create(api.KindGetData, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, b.ID)
}

func TestFactory_DoesNotAppend(t *testing.T) {
	s := NewStore()
	_, err := NewFactory(s).Create(api.KindPerformCalculation, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}
