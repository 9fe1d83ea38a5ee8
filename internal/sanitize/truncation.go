package sanitize

import (
	"fmt"
	"strings"
)

// Truncation completes documents cut off mid-stream, the signature failure
// of a model hitting its output token limit. If the text already ends with
// a closing delimiter (and not inside an unterminated string) nothing is
// done; otherwise an unterminated string is closed first and then every
// still-open brace and bracket is closed in reverse order of opening.
type Truncation struct{}

func (Truncation) Name() string { return "truncation" }

func (Truncation) Apply(content string, _ Config) Outcome {
	trimmed := strings.TrimRight(content, " \t\r\n")
	if trimmed == "" {
		return unchanged(content)
	}
	scan := scanText(content)
	if last := trimmed[len(trimmed)-1]; (last == '}' || last == ']') && !scan.unterminated {
		// A structurally closed tail means any remaining imbalance is a
		// delimiter problem, not a truncation, and is not ours to guess
		// at. A closer that is string content of a cut-off string does
		// not count as a closed tail.
		return unchanged(content)
	}
	var tail strings.Builder
	var repairs []string

	if scan.unterminated {
		tail.WriteByte('"')
		repairs = append(repairs, "closed unterminated string")
	}

	// Replay openers and closers outside string content to find what is
	// still open, then close innermost first.
	var stack []byte
	for i := 0; i < len(content); i++ {
		if scan.insideString(i) {
			continue
		}
		switch c := content[i]; c {
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			// Mismatches are left for delimiter repair; only pop exact
			// matches so the remainder reflects genuine truncation.
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		tail.WriteByte(stack[i])
		repairs = append(repairs, fmt.Sprintf("closed unterminated structure with %q", stack[i]))
	}

	if tail.Len() == 0 {
		return unchanged(content)
	}
	return Outcome{
		Content:     trimmed + tail.String(),
		Changed:     true,
		Description: fmt.Sprintf("completed truncated document with %q", tail.String()),
		Repairs:     repairs,
	}
}
