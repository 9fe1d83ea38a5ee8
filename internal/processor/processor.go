// Package processor orchestrates the parse-validate loop over model
// output. It tries the raw text first, then applies sanitization
// strategies one at a time, re-attempting a parse after every text
// change, and stops on the first parse that also passes shape
// validation. A validation failure is terminal immediately: no amount of
// text repair fixes a semantic mismatch.
package processor

import (
	"fmt"

	"github.com/segmentio/encoding/json"

	"jsonmend/internal/sanitize"
	"jsonmend/internal/validate"
)

// StepLogger receives a post-run summary for observability. The processor
// only produces the data; the sink decides what to do with it.
type StepLogger interface {
	LogRun(resource string, steps, diagnostics []string, err error)
}

// Options configures one Process invocation. The zero value parses with
// the default strategy order, no shape validation, and no logging.
type Options struct {
	// Validator checks the parsed value's shape. Nil skips validation.
	Validator validate.Validator

	// Config tunes the sanitization strategies.
	Config sanitize.Config

	// Strategies overrides the default repair order when non-nil.
	Strategies []sanitize.Strategy

	// Logger receives the run summary when LogSteps is set.
	Logger   StepLogger
	LogSteps bool
}

// Outcome is a successful processing result.
type Outcome[T any] struct {
	// Data is the decoded, shape-validated value.
	Data T

	// Content is the text that finally parsed, after any repairs.
	Content string

	// Steps lists the names of the strategies that changed the text
	// before the successful parse, in application order.
	Steps []string

	// Diagnostics carries notes from strategies that failed internally
	// and were skipped.
	Diagnostics []string
}

// Summary renders the applied steps for logs.
func (o *Outcome[T]) Summary() string {
	if len(o.Steps) == 0 {
		return "parsed without repair"
	}
	out := "repaired via " + o.Steps[0]
	for _, s := range o.Steps[1:] {
		out += ", " + s
	}
	return out
}

// Process parses content into T, sanitizing between attempts. The
// resource name only labels errors and log lines.
//
// The attempt sequence is: raw text first, then each strategy in order,
// threaded on the previous strategy's output. Strategies that change
// nothing are skipped without a parse attempt. The loop ends on the
// first parse whose value passes validation, on the first validation
// failure, or when every strategy has been tried.
func Process[T any](content any, resource string, opts Options) (*Outcome[T], error) {
	outcome, err := run[T](content, resource, opts)

	if opts.Logger != nil && opts.LogSteps {
		var steps, diags []string
		if outcome != nil {
			steps, diags = outcome.Steps, outcome.Diagnostics
		} else if pe, ok := err.(*ProcessError); ok {
			steps = pe.Steps
		}
		opts.Logger.LogRun(resource, steps, diags, err)
	}
	return outcome, err
}

func run[T any](content any, resource string, opts Options) (*Outcome[T], error) {
	raw, ok := asText(content)
	if !ok {
		return nil, &ProcessError{
			Kind:     KindInput,
			Resource: resource,
			Err:      fmt.Errorf("content is %T, not text", content),
		}
	}

	strategies := opts.Strategies
	if strategies == nil {
		strategies = sanitize.Default()
	}

	working := raw
	var steps, diagnostics []string
	var lastParseErr error

	// Attempt 0 runs on the untouched text; attempt i runs after
	// strategy i-1 has had its chance to repair.
	for i := 0; i <= len(strategies); i++ {
		if i > 0 {
			s := strategies[i-1]
			out, err := sanitize.Apply(s, working, opts.Config)
			if err != nil {
				diagnostics = append(diagnostics, err.Error())
				continue
			}
			if !out.Changed {
				continue
			}
			working = out.Content
			steps = append(steps, s.Name())
		}

		var value any
		if err := json.Unmarshal([]byte(working), &value); err != nil {
			lastParseErr = err
			continue
		}

		if opts.Validator != nil {
			if res := opts.Validator.Validate(value); !res.OK {
				return nil, &ProcessError{
					Kind:     KindValidation,
					Resource: resource,
					Original: raw,
					Final:    working,
					Steps:    steps,
					Err:      fmt.Errorf("shape validation failed: %s", validate.Render(res)),
				}
			}
		}

		var data T
		if err := json.Unmarshal([]byte(working), &data); err != nil {
			return nil, &ProcessError{
				Kind:     KindValidation,
				Resource: resource,
				Original: raw,
				Final:    working,
				Steps:    steps,
				Err:      fmt.Errorf("decoding into target type: %w", err),
			}
		}
		return &Outcome[T]{
			Data:        data,
			Content:     working,
			Steps:       steps,
			Diagnostics: diagnostics,
		}, nil
	}

	return nil, &ProcessError{
		Kind:     KindExhausted,
		Resource: resource,
		Original: raw,
		Final:    working,
		Steps:    steps,
		Err:      lastParseErr,
	}
}

// asText extracts the candidate text from the supported content forms.
func asText(content any) (string, bool) {
	switch c := content.(type) {
	case string:
		return c, true
	case []byte:
		return string(c), true
	default:
		return "", false
	}
}
