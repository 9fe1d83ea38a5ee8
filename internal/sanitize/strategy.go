// Package sanitize repairs malformed JSON text emitted by language models.
// It provides an ordered pipeline of independent repair strategies, each a
// pure text-to-text transformation targeting one class of defect: missing
// commas, trailing commas, mismatched or missing brackets, truncated
// structures, stray tokens, unescaped embedded quotes.
//
// Strategies never call a JSON parser; the whole point is that no parser
// can read the input yet. They share a single character-level scanner
// (scan.go) that tracks string-literal regions so structural repairs never
// touch content inside quoted strings.
package sanitize

import "fmt"

// Outcome is the result of one strategy application.
type Outcome struct {
	// Content is the (possibly repaired) text. When Changed is false it is
	// byte-identical to the input.
	Content string

	// Changed reports whether the strategy rewrote anything.
	Changed bool

	// Description is a one-line human-readable summary of what was done.
	// Empty when Changed is false.
	Description string

	// Repairs lists fine-grained sub-repair notes in the order they were
	// recorded during the scan.
	Repairs []string
}

// unchanged builds the mandatory no-op outcome: same bytes, nothing else.
func unchanged(content string) Outcome {
	return Outcome{Content: content}
}

// Config tunes the context-sensitive strategies. The zero value is not
// usable; call DefaultConfig.
type Config struct {
	// ValueLookback is how many bytes a comma-insertion pass looks behind a
	// match to suppress insertion when a comma is already present.
	ValueLookback int

	// ContextWindow bounds the stray-token context inspected by the
	// missing-brace heuristic.
	ContextWindow int
}

// DefaultConfig returns the tuning used when the caller supplies none.
func DefaultConfig() Config {
	return Config{
		ValueLookback: 16,
		ContextWindow: 64,
	}
}

// normalize fills in zero fields so a partially-populated Config behaves.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.ValueLookback <= 0 {
		c.ValueLookback = def.ValueLookback
	}
	if c.ContextWindow <= 0 {
		c.ContextWindow = def.ContextWindow
	}
	return c
}

// Strategy is one category of text repair. Implementations must be
// stateless and safe for concurrent use, must return the input unmodified
// (byte-for-byte) when they have nothing to fix, and must be idempotent on
// their own output.
type Strategy interface {
	// Name identifies the strategy in applied-step lists and diagnostics.
	Name() string

	// Apply inspects content and returns a repair outcome.
	Apply(content string, cfg Config) Outcome
}

// Default returns the standard strategy order. The order is load-bearing:
// comma repair runs before the structural strategies, and the stray-token
// brace heuristic runs before delimiter rebalancing because its trigger
// pattern only exists in the unrebalanced text. Truncation completion
// runs last, once everything before the cut-off point is smoothed out.
func Default() []Strategy {
	return []Strategy{
		CodeFence{},
		TrailingCommas{},
		MissingCommas{},
		UnquotedKeys{},
		UnescapedQuotes{},
		MissingBraces{},
		DelimiterMismatch{},
		Truncation{},
	}
}

// Apply runs a single strategy with panic containment, for callers that
// step strategies one at a time instead of running a whole pipeline.
func Apply(s Strategy, content string, cfg Config) (Outcome, error) {
	return safeApply(s, content, cfg.normalize())
}

// safeApply runs a strategy and contains any panic at the strategy
// boundary: a broken strategy downgrades to a no-op with a diagnostic, it
// never aborts the pipeline or corrupts the text.
func safeApply(s Strategy, content string, cfg Config) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = unchanged(content)
			err = fmt.Errorf("strategy %s failed: %v", s.Name(), r)
		}
	}()
	return s.Apply(content, cfg), nil
}
