package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

// TrailingCommas removes commas that directly precede a closing brace or
// bracket. The regex finds candidates; every match is re-verified against
// the string scan before the comma is dropped, so a ",]" inside a quoted
// value survives untouched.
type TrailingCommas struct{}

var trailingCommaRE = regexp.MustCompile(`,[ \t\r\n]*[}\]]`)

func (TrailingCommas) Name() string { return "trailing_commas" }

func (TrailingCommas) Apply(content string, _ Config) Outcome {
	working := content
	var repairs []string

	// A single pass cannot see a comma uncovered by removing its neighbour
	// (",,]" and friends), so iterate until stable.
	for {
		scan := scanText(working)
		var edits []edit
		for _, loc := range trailingCommaRE.FindAllStringIndex(working, -1) {
			if scan.insideString(loc[0]) {
				continue
			}
			edits = append(edits, edit{offset: loc[0], del: 1})
			repairs = append(repairs, fmt.Sprintf("removed trailing comma at offset %d", loc[0]))
		}
		if len(edits) == 0 {
			break
		}
		working = applyEdits(working, edits)
	}

	if working == content {
		return unchanged(content)
	}
	return Outcome{
		Content:     working,
		Changed:     true,
		Description: fmt.Sprintf("removed %d trailing comma(s)", len(repairs)),
		Repairs:     repairs,
	}
}

// MissingCommas inserts the commas models drop between values. Three
// independent passes, each re-verifying string context at the match offset
// before mutating:
//
//  1. a value terminator (closing quote, closer, or digit) followed by a
//     newline and a new quoted property name,
//  2. two adjacent quoted strings separated only by whitespace inside an
//     array,
//  3. a closing delimiter followed by a new object/array opener on the
//     next line inside an array.
type MissingCommas struct{}

// Terminator, horizontal whitespace, a line break, then an opening quote.
var propAfterValueRE = regexp.MustCompile(`["}\]0-9][ \t]*\r?\n[ \t\r\n]*"`)

func (MissingCommas) Name() string { return "missing_commas" }

func (MissingCommas) Apply(content string, cfg Config) Outcome {
	cfg = cfg.normalize()
	scan := scanText(content)

	var edits []edit
	var repairs []string
	seen := make(map[int]bool) // insertion offsets already claimed

	insert := func(offset int, note string) {
		if seen[offset] {
			return
		}
		seen[offset] = true
		edits = append(edits, edit{offset: offset, insert: ","})
		repairs = append(repairs, note)
	}

	// Pass 1: value terminator, newline, quoted property name.
	for _, loc := range propAfterValueRE.FindAllStringIndex(content, -1) {
		term, quote := loc[0], loc[1]-1
		if content[term] == '"' {
			if !scan.isCloseQuote(term) {
				continue
			}
		} else if scan.insideString(term) {
			continue
		}
		if !scan.isOpenQuote(quote) {
			continue
		}
		// Only fire when the quoted run is a property name (a colon
		// follows its closing quote); string array elements split across
		// lines belong to pass 2.
		close := scan.closeFor(quote)
		if close < 0 {
			continue
		}
		if next := scan.nextStructural(close + 1); next < 0 || content[next] != ':' {
			continue
		}
		if hasCommaInLookback(content, term+1, cfg.ValueLookback) {
			continue
		}
		insert(term+1, fmt.Sprintf("inserted comma before property at offset %d", quote))
	}

	// Pass 2: adjacent quoted strings inside an array.
	for _, close := range scan.closes {
		next := scan.skipWS(close + 1)
		if next >= len(content) || !scan.isOpenQuote(next) {
			continue
		}
		if !scan.inArrayContext(close) {
			continue
		}
		if hasCommaInLookback(content, close+1, cfg.ValueLookback) {
			continue
		}
		insert(close+1, fmt.Sprintf("inserted comma between array strings at offset %d", close))
	}

	// Pass 3: closer, line break, opener, inside an array.
	for i := 0; i < len(content); i++ {
		c := content[i]
		if (c != '}' && c != ']') || scan.insideString(i) {
			continue
		}
		next := scan.skipWS(i + 1)
		if next >= len(content) {
			continue
		}
		if o := content[next]; o != '{' && o != '[' {
			continue
		}
		if !strings.ContainsRune(content[i+1:next], '\n') {
			continue
		}
		// Context is judged at the opener, past the closer itself, so the
		// backward scan balances the structure the closer just finished.
		if !scan.inArrayContext(next) {
			continue
		}
		if hasCommaInLookback(content, i+1, cfg.ValueLookback) {
			continue
		}
		insert(i+1, fmt.Sprintf("inserted comma between array elements at offset %d", i))
	}

	if len(edits) == 0 {
		return unchanged(content)
	}
	return Outcome{
		Content:     applyEdits(content, edits),
		Changed:     true,
		Description: fmt.Sprintf("inserted %d missing comma(s)", len(edits)),
		Repairs:     repairs,
	}
}

// hasCommaInLookback reports whether a comma already sits just before
// offset, checked by trimming a short window of preceding text.
func hasCommaInLookback(s string, offset, window int) bool {
	start := offset - window
	if start < 0 {
		start = 0
	}
	trimmed := strings.TrimRight(s[start:offset], " \t\r\n")
	return strings.HasSuffix(trimmed, ",")
}
