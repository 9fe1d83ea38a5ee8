package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Order(t *testing.T) {
	var names []string
	for _, s := range Default() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		"codefence",
		"trailing_commas",
		"missing_commas",
		"unquoted_keys",
		"unescaped_quotes",
		"missing_braces",
		"delimiter_mismatch",
		"truncation",
	}, names)
}

func TestPipeline_Execute(t *testing.T) {
	p := NewPipeline()

	t.Run("empty_input", func(t *testing.T) {
		res, err := p.Execute("")
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, "", res.Content)
	})

	t.Run("valid_json_untouched", func(t *testing.T) {
		in := `{"a": 1}`
		res, err := p.Execute(in)
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, in, res.Content)
		assert.Empty(t, res.Applied)
		assert.Empty(t, res.Description)
	})

	t.Run("string_content_is_sacred", func(t *testing.T) {
		in := `{"msg": "a, b]"}`
		res, err := p.Execute(in)
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, in, res.Content)
	})

	t.Run("threads_strategies_in_order", func(t *testing.T) {
		res, err := p.Execute("```json\n{\"a\": 1,}\n```")
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, `{"a": 1}`, res.Content)
		assert.Equal(t, []string{"codefence", "trailing_commas"}, res.Applied)
		assert.Equal(t, "Applied: codefence, trailing_commas", res.Description)
	})

	t.Run("idempotent_on_own_output", func(t *testing.T) {
		first, err := p.Execute(`{"a": [1, 2}`)
		require.NoError(t, err)
		require.True(t, first.Changed)

		second, err := p.Execute(first.Content)
		require.NoError(t, err)
		assert.False(t, second.Changed)
		assert.Equal(t, first.Content, second.Content)
	})
}

// panicStrategy blows up on every input.
type panicStrategy struct{}

func (panicStrategy) Name() string { return "boom" }
func (panicStrategy) Apply(string, Config) Outcome {
	panic("induced failure")
}

func TestPipeline_ContainsStrategyPanic(t *testing.T) {
	p := NewPipeline(WithStrategies(panicStrategy{}, TrailingCommas{}))

	res, err := p.Execute(`{"a": 1,}`)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, `{"a": 1}`, res.Content, "later strategies still run")
	require.Len(t, res.Diagnostics, 1)
	assert.Contains(t, res.Diagnostics[0], "strategy boom failed")
	assert.Equal(t, []string{"trailing_commas"}, res.Applied)
}

func TestPipeline_FailFast(t *testing.T) {
	p := NewPipeline(WithStrategies(panicStrategy{}, TrailingCommas{}), WithFailFast())

	res, err := p.Execute(`{"a": 1,}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy boom failed")
	assert.Equal(t, `{"a": 1,}`, res.Content, "text untouched on fail-fast abort")
}
