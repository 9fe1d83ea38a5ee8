package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnescapedQuotes(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name    string
		input   string
		want    string
		changed bool
	}{
		{
			name:    "html_attribute_quotes",
			input:   `{"html": "<a href="x">y</a>"}`,
			want:    `{"html": "<a href=\"x\">y</a>"}`,
			changed: true,
		},
		{
			name:    "quoted_speech_in_value",
			input:   `{"q": "she said "yes" loudly"}`,
			want:    `{"q": "she said \"yes\" loudly"}`,
			changed: true,
		},
		{
			name:    "escaped_then_unescaped_adjacency",
			input:   `{"a": "\""b"}`,
			want:    `{"a": "\"\"b"}`,
			changed: true,
		},
		{
			name:    "properly_escaped_untouched",
			input:   `{"a": "he said \"hi\""}`,
			want:    `{"a": "he said \"hi\""}`,
			changed: false,
		},
		{
			name:    "clean",
			input:   `{"a": "b", "c": 2}`,
			want:    `{"a": "b", "c": 2}`,
			changed: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := UnescapedQuotes{}.Apply(tt.input, cfg)
			assert.Equal(t, tt.changed, out.Changed)
			assert.Equal(t, tt.want, out.Content)
		})
	}
}
