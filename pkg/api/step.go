package api

import (
	"fmt"
	"strconv"
)

// StepKind tags a workflow step. Each kind corresponds to one palette entry.
type StepKind string

const (
	KindGetData            StepKind = "get-data"
	KindCreateUpdateData   StepKind = "create-update-data"
	KindPerformCalculation StepKind = "perform-calculation"
	KindIfCondition        StepKind = "if-condition"
	KindElseIfCondition    StepKind = "else-if-condition"
	KindElseCondition      StepKind = "else-condition"
	KindForLoop            StepKind = "for-loop"
	KindWhileLoop          StepKind = "while-loop"
)

// Payload defaults applied when the input provider gives no usable answer.
const (
	DefaultCondition      = "No condition"
	DefaultWhileCondition = "true"
	DefaultIterations     = 1
)

var allKinds = []StepKind{
	KindGetData,
	KindCreateUpdateData,
	KindPerformCalculation,
	KindIfCondition,
	KindElseIfCondition,
	KindElseCondition,
	KindForLoop,
	KindWhileLoop,
}

// Kinds returns every known step kind in palette order.
func Kinds() []StepKind {
	out := make([]StepKind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind converts a palette tag into a StepKind.
func ParseKind(s string) (StepKind, error) {
	k := StepKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds.
func (k StepKind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// HasCondition reports whether steps of this kind carry a condition payload.
func (k StepKind) HasCondition() bool {
	switch k {
	case KindIfCondition, KindElseIfCondition, KindElseCondition, KindWhileLoop:
		return true
	}
	return false
}

// HasIterations reports whether steps of this kind carry an iteration count.
func (k StepKind) HasIterations() bool {
	return k == KindForLoop
}

// Step is a single entry of a workflow list.
//
// Condition and Iterations are pointers so that an absent payload stays
// distinguishable from an empty one across persistence round-trips.
// Steps are values; they are never edited once created.
type Step struct {
	Kind       StepKind
	ID         int
	Condition  *string
	Iterations *int
}

// NewStep returns a payload-free step.
func NewStep(kind StepKind, id int) Step {
	return Step{Kind: kind, ID: id}
}

// NewConditionStep returns a step carrying a condition payload.
func NewConditionStep(kind StepKind, id int, condition string) Step {
	return Step{Kind: kind, ID: id, Condition: &condition}
}

// NewLoopStep returns a for-loop step with the given iteration count.
func NewLoopStep(id int, iterations int) Step {
	return Step{Kind: KindForLoop, ID: id, Iterations: &iterations}
}

// Clone returns a copy of s that shares no payload storage with it.
func (s Step) Clone() Step {
	out := Step{Kind: s.Kind, ID: s.ID}
	if s.Condition != nil {
		c := *s.Condition
		out.Condition = &c
	}
	if s.Iterations != nil {
		n := *s.Iterations
		out.Iterations = &n
	}
	return out
}

// Validate checks that the payload matches what the kind defines.
func (s Step) Validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidStep, s.Kind)
	}

	switch {
	case s.Kind.HasCondition() && s.Condition == nil:
		return fmt.Errorf("%w: %s requires a condition", ErrInvalidStep, s.Kind)
	case !s.Kind.HasCondition() && s.Condition != nil:
		return fmt.Errorf("%w: %s does not take a condition", ErrInvalidStep, s.Kind)
	case s.Kind.HasIterations() && s.Iterations == nil:
		return fmt.Errorf("%w: %s requires iterations", ErrInvalidStep, s.Kind)
	case !s.Kind.HasIterations() && s.Iterations != nil:
		return fmt.Errorf("%w: %s does not take iterations", ErrInvalidStep, s.Kind)
	case s.Iterations != nil && *s.Iterations < 1:
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidStep, *s.Iterations)
	}

	return nil
}

// Equal compares two steps field by field, including payload presence.
func (s Step) Equal(other Step) bool {
	if s.Kind != other.Kind || s.ID != other.ID {
		return false
	}
	if (s.Condition == nil) != (other.Condition == nil) {
		return false
	}
	if s.Condition != nil && *s.Condition != *other.Condition {
		return false
	}
	if (s.Iterations == nil) != (other.Iterations == nil) {
		return false
	}
	return s.Iterations == nil || *s.Iterations == *other.Iterations
}

// Label is the text a renderer shows for the step on the canvas.
func (s Step) Label() string {
	cond := ""
	if s.Condition != nil {
		cond = *s.Condition
	}

	switch s.Kind {
	case KindGetData:
		return "Get Data"
	case KindCreateUpdateData:
		return "Create or Update Data"
	case KindPerformCalculation:
		return "Perform a Calculation"
	case KindIfCondition:
		return "If: " + cond
	case KindElseIfCondition:
		return "Else If: " + cond
	case KindElseCondition:
		return "Else: " + cond
	case KindForLoop:
		n := "?"
		if s.Iterations != nil {
			n = strconv.Itoa(*s.Iterations)
		}
		return "For Loop: " + n + " iterations"
	case KindWhileLoop:
		return "While Loop: " + cond
	default:
		return string(s.Kind)
	}
}

// String implements fmt.Stringer.
func (s Step) String() string {
	return fmt.Sprintf("#%d %s", s.ID, s.Label())
}

// PaletteLabel is the caption of a kind in the component palette.
func PaletteLabel(k StepKind) string {
	switch k {
	case KindGetData:
		return "Get Data"
	case KindCreateUpdateData:
		return "Create or Update Data"
	case KindPerformCalculation:
		return "Perform a Calculation"
	case KindIfCondition:
		return "If Statement"
	case KindElseIfCondition:
		return "Else If Statement"
	case KindElseCondition:
		return "Else Statement"
	case KindForLoop:
		return "For Loop"
	case KindWhileLoop:
		return "While Loop"
	default:
		return string(k)
	}
}
