package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingBraces(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name    string
		input   string
		want    string
		changed bool
	}{
		{
			name:    "stray_token_before_key",
			input:   `{"items": [{"id":1}, xy"id":2}]}`,
			want:    `{"items": [{"id":1}, {"id":2}]}`,
			changed: true,
		},
		{
			name:    "stray_token_before_bare_value",
			input:   `[{"a": 1}, nd "orphan"]`,
			want:    `[{"a": 1}, {"name": "orphan"}]`,
			changed: true,
		},
		{
			name:    "object_context_does_not_fire",
			input:   `{"a": {"b":1}, xy"c":2}`,
			want:    `{"a": {"b":1}, xy"c":2}`,
			changed: false,
		},
		{
			name:    "json_keyword_does_not_fire",
			input:   `[{"a": 1}, null "b"]`,
			want:    `[{"a": 1}, null "b"]`,
			changed: false,
		},
		{
			name:    "long_token_does_not_fire",
			input:   `[{"a": 1}, garbage "b"]`,
			want:    `[{"a": 1}, garbage "b"]`,
			changed: false,
		},
		{
			name:    "clean",
			input:   `{"items": [{"id":1}, {"id":2}]}`,
			want:    `{"items": [{"id":1}, {"id":2}]}`,
			changed: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := MissingBraces{}.Apply(tt.input, cfg)
			assert.Equal(t, tt.changed, out.Changed)
			assert.Equal(t, tt.want, out.Content)
		})
	}
}
