package sanitize

import "fmt"

// DelimiterMismatch repairs closers that do not match the innermost open
// structure. The scan walks left to right with a stack of expected
// closers, skipping string content, and records corrections instead of
// mutating mid-scan so offsets stay stable; all edits are applied in one
// back-to-front pass afterwards.
//
// Correction rules, applied per mismatched closer:
//
//   - '}' where ']' is expected: the array closer is missing. Insert ']'
//     in front and let the '}' match the structure below.
//   - ']' where '}' is expected, with a '"' following (past whitespace and
//     commas) and an enclosing array still open: a genuinely missing
//     object closer before a real array closer. Insert '}' in front and
//     retain the ']'.
//   - ']' where '}' is expected otherwise: the model emitted the wrong
//     character. Replace it with '}'.
//   - any closer with nothing open is stray and gets deleted.
type DelimiterMismatch struct{}

func (DelimiterMismatch) Name() string { return "delimiter_mismatch" }

func (DelimiterMismatch) Apply(content string, _ Config) Outcome {
	scan := scanText(content)
	var stack []byte // expected closers, innermost last
	var edits []edit
	var repairs []string

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
			stack = resolveCloser(scan, stack, i, &edits, &repairs)
		}
	}

	if len(edits) == 0 {
		return unchanged(content)
	}
	return Outcome{
		Content:     applyEdits(content, edits),
		Changed:     true,
		Description: fmt.Sprintf("corrected %d mismatched delimiter(s)", len(repairs)),
		Repairs:     repairs,
	}
}

// resolveCloser reconciles the closer at offset i against the expectation
// stack, recording whatever corrections that takes, and returns the
// reduced stack.
func resolveCloser(scan *textScan, stack []byte, i int, edits *[]edit, repairs *[]string) []byte {
	c := scan.src[i]
	for {
		if len(stack) == 0 {
			*edits = append(*edits, edit{offset: i, del: 1})
			*repairs = append(*repairs, fmt.Sprintf("removed stray %q at offset %d", c, i))
			return stack
		}
		expected := stack[len(stack)-1]
		if expected == c {
			return stack[:len(stack)-1]
		}

		if c == '}' {
			// ']' expected: close the open array here, then retry the '}'
			// against the enclosing structure.
			*edits = append(*edits, edit{offset: i, insert: "]"})
			*repairs = append(*repairs, fmt.Sprintf("inserted missing ']' at offset %d", i))
			stack = stack[:len(stack)-1]
			continue
		}

		// ']' where '}' is expected. The insert form needs an enclosing
		// array open below the current object, otherwise the retained ']'
		// would have nothing to close.
		if next := nextAfterSeparators(scan, i+1); next == '"' && hasOpen(stack[:len(stack)-1], ']') {
			*edits = append(*edits, edit{offset: i, insert: "}"})
			*repairs = append(*repairs, fmt.Sprintf("inserted missing '}' at offset %d", i))
			stack = stack[:len(stack)-1]
			continue
		}
		*edits = append(*edits, edit{offset: i, del: 1, insert: "}"})
		*repairs = append(*repairs, fmt.Sprintf("replaced ']' with '}' at offset %d", i))
		return stack[:len(stack)-1]
	}
}

// hasOpen reports whether closer appears anywhere in the expectation stack.
func hasOpen(stack []byte, closer byte) bool {
	for _, c := range stack {
		if c == closer {
			return true
		}
	}
	return false
}

// nextAfterSeparators returns the first byte at or after i that is neither
// whitespace nor a comma (skipping string content), or 0 at end of text.
func nextAfterSeparators(scan *textScan, i int) byte {
	for ; i < len(scan.src); i++ {
		if scan.insideString(i) {
			continue
		}
		c := scan.src[i]
		if isJSONWhitespace(c) || c == ',' {
			continue
		}
		return c
	}
	return 0
}
