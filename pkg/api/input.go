package api

// Prompt texts shown to the user when a step needs a payload.
const (
	PromptCondition      = "Enter the condition (e.g., x > 5):"
	PromptIterations     = "Enter the number of iterations for the loop:"
	PromptWhileCondition = "Enter the while loop condition (e.g., x < 10):"
)

// InputProvider supplies answers for step parameters.
//
// Prompt blocks until an answer is available. ok is false when the user
// cancelled; an empty answer with ok == true is also possible.
type InputProvider interface {
	Prompt(message string) (answer string, ok bool)
}

// PromptFunc adapts a function to InputProvider.
type PromptFunc func(message string) (string, bool)

func (f PromptFunc) Prompt(message string) (string, bool) {
	return f(message)
}

// CancelInput is an InputProvider that always cancels.
type CancelInput struct{}

func (CancelInput) Prompt(string) (string, bool) { return "", false }

// CannedInput answers prompts from a fixed list, in order. Once the list is
// exhausted every further prompt is treated as cancelled.
//
// Asked records the prompt messages that were received.
type CannedInput struct {
	Answers []string
	Asked   []string
}

// NewCannedInput returns a CannedInput that replies with answers in order.
func NewCannedInput(answers ...string) *CannedInput {
	return &CannedInput{Answers: answers}
}

func (c *CannedInput) Prompt(message string) (string, bool) {
	c.Asked = append(c.Asked, message)
	if len(c.Answers) == 0 {
		return "", false
	}
	answer := c.Answers[0]
	c.Answers = c.Answers[1:]
	return answer, true
}
