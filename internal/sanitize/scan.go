package sanitize

import "sort"

// textScan is a single-pass index of string-literal regions in a candidate
// JSON document. Strategies use it to tell string content apart from
// structural characters without ever invoking a JSON parser (the input is
// malformed by assumption). The scan tracks unescaped double quotes with
// full multi-backslash handling: a quote preceded by an odd number of
// backslashes is escaped content, not a delimiter.
type textScan struct {
	src string

	// content[i] is true when byte i is string *content*, strictly between
	// an opening quote and its closing quote. The quotes themselves are
	// structural and marked false.
	content []bool

	// opens and closes hold the byte offsets of opening and closing quote
	// delimiters, in ascending order.
	opens  []int
	closes []int

	// unterminated is true when the text ends mid-string (odd quote parity).
	unterminated bool
}

// scanText indexes s in one pass.
func scanText(s string) *textScan {
	t := &textScan{
		src:     s,
		content: make([]bool, len(s)),
	}

	in := false
	esc := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !in {
			if c == '"' {
				in = true
				t.opens = append(t.opens, i)
			}
			continue
		}
		if esc {
			esc = false
			t.content[i] = true
			continue
		}
		switch c {
		case '\\':
			esc = true
			t.content[i] = true
		case '"':
			in = false
			t.closes = append(t.closes, i)
		default:
			t.content[i] = true
		}
	}
	t.unterminated = in
	return t
}

// insideString reports whether byte i is string content. Out-of-range
// offsets are structural.
func (t *textScan) insideString(i int) bool {
	if i < 0 || i >= len(t.content) {
		return false
	}
	return t.content[i]
}

// isOpenQuote reports whether byte i is an opening string delimiter.
func (t *textScan) isOpenQuote(i int) bool {
	n := sort.SearchInts(t.opens, i)
	return n < len(t.opens) && t.opens[n] == i
}

// isCloseQuote reports whether byte i is a closing string delimiter.
func (t *textScan) isCloseQuote(i int) bool {
	n := sort.SearchInts(t.closes, i)
	return n < len(t.closes) && t.closes[n] == i
}

// inArrayContext scans backwards from offset i, skipping string regions,
// and reports whether the position sits inside a JSON array rather than an
// object: an unmatched '[' is found before any unmatched '{'.
func (t *textScan) inArrayContext(i int) bool {
	if i > len(t.src) {
		i = len(t.src)
	}
	brackets := 0 // closed ']' seen while walking back
	braces := 0   // closed '}' seen while walking back
	for j := i - 1; j >= 0; j-- {
		if t.content[j] {
			continue
		}
		switch t.src[j] {
		case ']':
			brackets++
		case '}':
			braces++
		case '[':
			if brackets == 0 {
				return true
			}
			brackets--
		case '{':
			if braces == 0 {
				return false
			}
			braces--
		}
	}
	return false
}

// nextStructural returns the offset of the first byte at or after i that is
// neither whitespace nor string content, or -1 at end of text.
func (t *textScan) nextStructural(i int) int {
	for j := i; j < len(t.src); j++ {
		if t.content[j] {
			continue
		}
		switch t.src[j] {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return j
	}
	return -1
}

// closeFor returns the offset of the closing quote matching the opening
// quote at open, or -1 when the string runs to end of text.
func (t *textScan) closeFor(open int) int {
	n := sort.SearchInts(t.closes, open)
	if n < len(t.closes) {
		return t.closes[n]
	}
	return -1
}

// skipWS returns the first offset at or after i holding a non-whitespace
// byte, or len(src).
func (t *textScan) skipWS(i int) int {
	for i < len(t.src) && isJSONWhitespace(t.src[i]) {
		i++
	}
	return i
}

// edit is a deferred correction against the original text. Collecting edits
// during a scan and applying them afterwards keeps scan offsets stable.
type edit struct {
	offset int
	del    int    // bytes removed at offset
	insert string // text inserted at offset, before any surviving byte
}

// applyEdits applies edits in descending offset order so that earlier
// offsets remain valid throughout. Edits sharing an offset land in the
// order they were recorded.
func applyEdits(s string, edits []edit) string {
	if len(edits) == 0 {
		return s
	}
	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ea, eb := edits[order[a]], edits[order[b]]
		if ea.offset != eb.offset {
			return ea.offset > eb.offset
		}
		return order[a] > order[b]
	})

	out := s
	for _, idx := range order {
		e := edits[idx]
		end := e.offset + e.del
		if end > len(out) {
			end = len(out)
		}
		out = out[:e.offset] + e.insert + out[end:]
	}
	return out
}

// isJSONWhitespace reports whether c is one of the four JSON whitespace bytes.
func isJSONWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
