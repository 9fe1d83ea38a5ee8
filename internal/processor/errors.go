package processor

import "fmt"

// Kind classifies terminal processing failures.
type Kind int

const (
	// KindInput means the content was not text at all; no repair was
	// attempted.
	KindInput Kind = iota

	// KindValidation means the text parsed but its value did not match
	// the expected shape. Terminal immediately.
	KindValidation

	// KindExhausted means every strategy was tried and the text never
	// parsed.
	KindExhausted
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindValidation:
		return "validation"
	case KindExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ProcessError is the terminal failure report. It carries everything
// needed to reproduce and debug the failure without re-running: the
// untouched original text, the most-repaired text that still failed, and
// the ordered strategy names that were applied along the way.
type ProcessError struct {
	Kind     Kind
	Resource string
	Original string
	Final    string
	Steps    []string
	Err      error
}

func (e *ProcessError) Error() string {
	switch e.Kind {
	case KindInput:
		return fmt.Sprintf("%s: invalid input: %v", e.Resource, e.Err)
	case KindValidation:
		return fmt.Sprintf("%s: %v (after steps: %s)", e.Resource, e.Err, e.stepList())
	default:
		return fmt.Sprintf("%s: no strategy produced parseable output (tried: %s): %v",
			e.Resource, e.stepList(), e.Err)
	}
}

func (e *ProcessError) Unwrap() error { return e.Err }

func (e *ProcessError) stepList() string {
	if len(e.Steps) == 0 {
		return "none"
	}
	out := e.Steps[0]
	for _, s := range e.Steps[1:] {
		out += ", " + s
	}
	return out
}
