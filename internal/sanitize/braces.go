package sanitize

import "fmt"

// MissingBraces handles a narrow but recurring malformation: inside an
// array of objects, an element lost its opening brace and left a short
// stray token where '{' should be, as in
//
//	{"items": [{"id":1}, xy"id":2}]}
//
// The trigger is strict (prior structural token '},', then a one-to-three
// letter run that is not a JSON keyword, then a quoted string) and fires
// only in confirmed array context. When the quoted string is a property
// name (a colon follows it), the stray token becomes '{'. When it is a
// bare value, a synthetic "name" key is added so the value survives. This
// is a best-effort heuristic that raises the repair rate; it is not a
// correctness guarantee, and its trigger set should only grow when a new
// concrete failing sample demands it.
type MissingBraces struct{}

func (MissingBraces) Name() string { return "missing_braces" }

func (MissingBraces) Apply(content string, cfg Config) Outcome {
	cfg = cfg.normalize()
	scan := scanText(content)
	var edits []edit
	var repairs []string

	for i := 0; i < len(content); i++ {
		if content[i] != '}' || scan.insideString(i) {
			continue
		}
		comma := scan.skipWS(i + 1)
		if comma >= len(content) || content[comma] != ',' {
			continue
		}
		tok := scan.skipWS(comma + 1)
		if tok >= len(content) || tok-i > cfg.ContextWindow || !isLetterByte(content[tok]) {
			continue
		}
		end := tok
		for end < len(content) && isLetterByte(content[end]) {
			end++
		}
		if end-tok > 3 || isJSONKeyword(content[tok:end]) {
			continue
		}
		quote := scan.skipWS(end)
		if quote >= len(content) || content[quote] != '"' || !scan.isOpenQuote(quote) {
			continue
		}
		if !scan.inArrayContext(tok) {
			continue
		}

		close := scan.closeFor(quote)
		isKey := false
		if close >= 0 {
			if next := scan.nextStructural(close + 1); next >= 0 && content[next] == ':' {
				isKey = true
			}
		}
		switch {
		case isKey:
			edits = append(edits, edit{offset: tok, del: end - tok, insert: "{"})
			repairs = append(repairs, fmt.Sprintf("replaced stray token %q with '{' at offset %d", content[tok:end], tok))
		case close >= 0:
			// Bare value: wrap it in a one-pair object so it survives.
			edits = append(edits, edit{offset: tok, del: end - tok, insert: `{"name": `})
			edits = append(edits, edit{offset: close + 1, insert: "}"})
			repairs = append(repairs, fmt.Sprintf("wrapped orphaned value after stray token %q at offset %d", content[tok:end], tok))
		}
	}

	if len(edits) == 0 {
		return unchanged(content)
	}
	return Outcome{
		Content:     applyEdits(content, edits),
		Changed:     true,
		Description: fmt.Sprintf("synthesized %d missing object brace(s)", len(edits)),
		Repairs:     repairs,
	}
}

func isLetterByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isJSONKeyword(s string) bool {
	return s == "true" || s == "false" || s == "null"
}
