package sanitize

import "strings"

// Result is the aggregate outcome of running a pipeline over one piece of
// text. Applied holds the names of the strategies that changed the text,
// in execution order; Diagnostics holds human-readable notes for any
// strategy that panicked and was contained.
type Result struct {
	Content     string
	Changed     bool
	Description string
	Applied     []string
	Diagnostics []string
	Repairs     []string
}

// Pipeline threads text through an ordered list of strategies, each one
// seeing the previous one's output.
type Pipeline struct {
	strategies      []Strategy
	cfg             Config
	continueOnError bool
}

// PipelineOption customises a Pipeline at construction time.
type PipelineOption func(*Pipeline)

// WithStrategies replaces the default strategy list.
func WithStrategies(strategies ...Strategy) PipelineOption {
	return func(p *Pipeline) { p.strategies = strategies }
}

// WithConfig sets the tuning knobs passed to every strategy.
func WithConfig(cfg Config) PipelineOption {
	return func(p *Pipeline) { p.cfg = cfg }
}

// WithFailFast makes the pipeline return the first strategy failure
// instead of recording it and moving on.
func WithFailFast() PipelineOption {
	return func(p *Pipeline) { p.continueOnError = false }
}

// NewPipeline builds a pipeline running Default() strategies with
// DefaultConfig() unless options say otherwise.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		strategies:      Default(),
		cfg:             DefaultConfig(),
		continueOnError: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cfg = p.cfg.normalize()
	return p
}

// Strategies returns the pipeline's strategy list in execution order.
func (p *Pipeline) Strategies() []Strategy { return p.strategies }

// Config returns the tuning configuration the pipeline passes to
// strategies.
func (p *Pipeline) Config() Config { return p.cfg }

// Execute runs every strategy in order over text. Empty input is returned
// untouched. A strategy that fails contributes nothing to the text; the
// failure is recorded as a diagnostic and, unless the pipeline is
// fail-fast, the remaining strategies still run.
func (p *Pipeline) Execute(text string) (Result, error) {
	res := Result{Content: text}
	if text == "" {
		return res, nil
	}

	for _, s := range p.strategies {
		out, err := safeApply(s, res.Content, p.cfg)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, err.Error())
			if !p.continueOnError {
				return res, err
			}
			continue
		}
		if !out.Changed {
			continue
		}
		res.Content = out.Content
		res.Changed = true
		res.Applied = append(res.Applied, s.Name())
		res.Repairs = append(res.Repairs, out.Repairs...)
	}

	if res.Changed {
		res.Description = "Applied: " + strings.Join(res.Applied, ", ")
	}
	return res, nil
}
