package sanitize

import "strings"

// CodeFence strips the markdown wrapping and surrounding prose that models
// habitually put around JSON: ``` / ```json fences, a chatty preamble
// before the first brace, and trailing commentary after the last closer.
// It runs first so the structural strategies see only the JSON candidate.
type CodeFence struct{}

func (CodeFence) Name() string { return "codefence" }

func (CodeFence) Apply(content string, _ Config) Outcome {
	s := strings.TrimSpace(content)
	if s == "" {
		return unchanged(content)
	}
	var repairs []string

	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line (``` or ```json), then the last
		// closing fence if one exists.
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = s[3:]
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
		repairs = append(repairs, "stripped markdown code fence")
	}

	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		if start := strings.IndexAny(s, "{["); start >= 0 {
			s = s[start:]
			repairs = append(repairs, "trimmed leading prose")
		}
	}

	// Trailing prose is only trimmed when a structural closer exists.
	// Closers inside string content are not trim anchors, and truncated
	// JSON with no closer at all must pass through untouched.
	last := lastStructuralCloser(s)
	if last >= 0 && last+1 < len(s) && strings.TrimSpace(s[last+1:]) != "" {
		s = s[:last+1]
		repairs = append(repairs, "trimmed trailing prose")
	}
	s = strings.TrimSpace(s)

	// Whitespace-only trims are not repairs: parsers accept surrounding
	// whitespace, so reporting a change would just be noise.
	if len(repairs) == 0 || s == content || s == "" {
		return unchanged(content)
	}
	return Outcome{
		Content:     s,
		Changed:     true,
		Description: "stripped non-JSON wrapping",
		Repairs:     repairs,
	}
}

// lastStructuralCloser returns the offset of the last '}' or ']' that is
// not string content, or -1 when none exists.
func lastStructuralCloser(s string) int {
	scan := scanText(s)
	for i := len(s) - 1; i >= 0; i-- {
		if (s[i] == '}' || s[i] == ']') && !scan.insideString(i) {
			return i
		}
	}
	return -1
}
