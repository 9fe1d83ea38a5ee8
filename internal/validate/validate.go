// Package validate defines the narrow shape-checking capability the
// processor consumes. The processor never sees a schema system, only the
// two-case Result: a value either matches the expected shape or it comes
// back with a list of human-readable violations.
package validate

import "fmt"

// Result is the outcome of one validation call.
type Result struct {
	// OK reports whether the value matched the expected shape.
	OK bool

	// Data is the (possibly normalized) value on success.
	Data any

	// Issues lists shape violations on failure, one per line item.
	Issues []string
}

// Valid wraps data in a passing Result.
func Valid(data any) Result {
	return Result{OK: true, Data: data}
}

// Invalid builds a failing Result from violation messages.
func Invalid(issues ...string) Result {
	return Result{Issues: issues}
}

// Validator checks a parsed value against an expected shape.
type Validator interface {
	Validate(value any) Result
}

// Func adapts a plain function to the Validator interface.
type Func func(value any) Result

func (f Func) Validate(value any) Result { return f(value) }

// Render flattens a failing Result's issues into one diagnostic string.
func Render(r Result) string {
	if r.OK {
		return ""
	}
	if len(r.Issues) == 0 {
		return "value does not match expected shape"
	}
	out := r.Issues[0]
	for _, issue := range r.Issues[1:] {
		out = fmt.Sprintf("%s; %s", out, issue)
	}
	return out
}
