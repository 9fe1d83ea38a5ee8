package sanitize

import "fmt"

// UnescapedQuotes escapes quote characters embedded raw inside string
// values, the classic case being HTML attribute delimiters the model
// pasted into a JSON string:
//
//	{"html": "<a href="x">y</a>"}
//
// The shared string scan is useless here, since the stray quotes are
// exactly what breaks it, so this strategy runs its own forward state
// machine. A quote inside a string only counts as the real closer when
// the next structural byte after it is ',', '}', ']' or ':' (or end of
// text); anything else marks an embedded quote that gets a backslash.
// Escaping is restricted to strings opened in value position (after a
// ':'), where the surrounding colon construct makes the inference safe.
type UnescapedQuotes struct{}

func (UnescapedQuotes) Name() string { return "unescaped_quotes" }

func (UnescapedQuotes) Apply(content string, _ Config) Outcome {
	var edits []edit
	var repairs []string

	in := false         // inside a string literal
	value := false      // current string opened in value position
	esc := false        // previous byte was a backslash
	var lastStruct byte // last structural byte seen outside strings

	for i := 0; i < len(content); i++ {
		c := content[i]
		if !in {
			if c == '"' {
				in = true
				value = lastStruct == ':'
				continue
			}
			if !isJSONWhitespace(c) {
				lastStruct = c
			}
			continue
		}
		if esc {
			esc = false
			// Adjacency repair: an escaped quote immediately followed by
			// an unescaped one that cannot be the closer.
			if c == '"' && i+1 < len(content) && content[i+1] == '"' && !closesString(content, i+2) {
				edits = append(edits, edit{offset: i + 1, insert: `\`})
				repairs = append(repairs, fmt.Sprintf("escaped quote at offset %d (after escaped quote)", i+1))
				i++ // consume the repaired quote as content
			}
			continue
		}
		if c == '\\' {
			esc = true
			continue
		}
		if c != '"' {
			continue
		}
		if closesString(content, i+1) {
			in = false
			continue
		}
		if value {
			edits = append(edits, edit{offset: i, insert: `\`})
			repairs = append(repairs, fmt.Sprintf("escaped embedded quote at offset %d", i))
			continue
		}
		// Key strings: leave the ambiguity alone and close conservatively.
		in = false
	}

	if len(edits) == 0 {
		return unchanged(content)
	}
	return Outcome{
		Content:     applyEdits(content, edits),
		Changed:     true,
		Description: fmt.Sprintf("escaped %d embedded quote(s)", len(edits)),
		Repairs:     repairs,
	}
}

// closesString reports whether a quote ending just before i is a plausible
// string terminator: the next structural byte is a separator, a closer, a
// colon, or end of text.
func closesString(s string, i int) bool {
	for ; i < len(s); i++ {
		if isJSONWhitespace(s[i]) {
			continue
		}
		switch s[i] {
		case ',', '}', ']', ':':
			return true
		}
		return false
	}
	return true
}
