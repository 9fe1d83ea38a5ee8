package sanitize

import "fmt"

// UnquotedKeys restores quotes around object keys that lost one or both of
// them: `{type": 1}` and `{type: 1}` both become `{"type": 1}`. Candidates
// are identifier runs directly after a '{' or ',' outside any string.
type UnquotedKeys struct{}

func (UnquotedKeys) Name() string { return "unquoted_keys" }

func (UnquotedKeys) Apply(content string, _ Config) Outcome {
	working := content
	var repairs []string

	// A key missing its opening quote skews the string scan for the rest
	// of the text, hiding later broken keys, so repair until stable.
	for {
		next, notes := repairKeysOnce(working)
		if next == working {
			break
		}
		working = next
		repairs = append(repairs, notes...)
	}

	if working == content {
		return unchanged(content)
	}
	return Outcome{
		Content:     working,
		Changed:     true,
		Description: fmt.Sprintf("repaired %d unquoted key(s)", len(repairs)),
		Repairs:     repairs,
	}
}

func repairKeysOnce(content string) (string, []string) {
	scan := scanText(content)
	var edits []edit
	var repairs []string

	for i := 0; i < len(content); i++ {
		c := content[i]
		if (c != '{' && c != ',') || scan.insideString(i) {
			continue
		}
		start := scan.skipWS(i + 1)
		if start >= len(content) || !isIdentByte(content[start]) {
			continue
		}
		end := start
		for end < len(content) && (isIdentByte(content[end]) || content[end] == ' ') {
			end++
		}
		// Drop trailing spaces from the identifier run.
		trimmed := end
		for trimmed > start && content[trimmed-1] == ' ' {
			trimmed--
		}

		switch {
		case end+1 < len(content) && content[end] == '"' && content[end+1] == ':':
			// Missing opening quote: `type":` -> `"type":`.
			edits = append(edits, edit{offset: start, insert: `"`})
			repairs = append(repairs, fmt.Sprintf("added opening quote for key %q", content[start:trimmed]))
		case end < len(content) && content[end] == ':':
			// Fully unquoted key: `type:` -> `"type":`.
			edits = append(edits, edit{offset: start, insert: `"`})
			edits = append(edits, edit{offset: trimmed, insert: `"`})
			repairs = append(repairs, fmt.Sprintf("quoted bare key %q", content[start:trimmed]))
		}
	}

	return applyEdits(content, edits), repairs
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
