package workflow

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/petrijr/canvas/pkg/api"
)

// Factory builds fully populated steps for palette drops.
//
// Create reads the list only to number the step; it never appends. The
// caller appends the result, and must do so before the next Create if IDs
// are derived from the list length.
type Factory struct {
	list ListView
	ids  IDSource
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithIDSource sets how step IDs are assigned. The default is LengthIDs.
func WithIDSource(src IDSource) FactoryOption {
	return func(f *Factory) {
		if src != nil {
			f.ids = src
		}
	}
}

// NewFactory returns a Factory numbering steps against list.
func NewFactory(list ListView, opts ...FactoryOption) *Factory {
	f := &Factory{list: list, ids: LengthIDs{}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds a step of the given kind. Kinds with a payload prompt input
// exactly once; cancelled, empty or unparsable answers fall back to the
// kind's default. The only error is api.ErrUnknownKind.
func (f *Factory) Create(kind api.StepKind, input api.InputProvider) (api.Step, error) {
	if !kind.Valid() {
		return api.Step{}, fmt.Errorf("%w: %q", api.ErrUnknownKind, kind)
	}
	if input == nil {
		input = api.CancelInput{}
	}

	id := f.ids.NextID(f.list)

	switch kind {
	case api.KindIfCondition, api.KindElseIfCondition, api.KindElseCondition:
		return api.NewConditionStep(kind, id, answerOr(input, api.PromptCondition, api.DefaultCondition)), nil
	case api.KindWhileLoop:
		return api.NewConditionStep(kind, id, answerOr(input, api.PromptWhileCondition, api.DefaultWhileCondition)), nil
	case api.KindForLoop:
		answer, _ := input.Prompt(api.PromptIterations)
		return api.NewLoopStep(id, parseIterations(answer)), nil
	default:
		return api.NewStep(kind, id), nil
	}
}

func answerOr(input api.InputProvider, prompt, fallback string) string {
	answer, ok := input.Prompt(prompt)
	if !ok || answer == "" {
		return fallback
	}
	return answer
}

// parseIterations reads the leading integer of s, ignoring leading
// whitespace and anything after the digits ("12 times" is 12). Missing,
// non-positive or out-of-range values give api.DefaultIterations.
func parseIterations(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return api.DefaultIterations
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return api.DefaultIterations
	}
	return n
}
