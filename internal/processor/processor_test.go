package processor

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"jsonmend/internal/validate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestProcess_RepairScenarios(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      map[string]any
		wantSteps []string
	}{
		{
			name:      "already_valid",
			input:     `{"a": 1}`,
			want:      map[string]any{"a": float64(1)},
			wantSteps: nil,
		},
		{
			name:      "missing_comma_between_properties",
			input:     "{\"a\": 1\n\"b\": 2}",
			want:      map[string]any{"a": float64(1), "b": float64(2)},
			wantSteps: []string{"missing_commas"},
		},
		{
			name:      "trailing_comma",
			input:     `{"a": 1,}`,
			want:      map[string]any{"a": float64(1)},
			wantSteps: []string{"trailing_commas"},
		},
		{
			name:      "mismatched_closer",
			input:     `{"a": [1, 2}`,
			want:      map[string]any{"a": []any{float64(1), float64(2)}},
			wantSteps: []string{"delimiter_mismatch"},
		},
		{
			name:      "truncated_nested_object",
			input:     `{"a": {"b": 1`,
			want:      map[string]any{"a": map[string]any{"b": float64(1)}},
			wantSteps: []string{"truncation"},
		},
		{
			name:      "truncated_string_containing_brace",
			input:     `{"a": "x}"`,
			want:      map[string]any{"a": "x}"},
			wantSteps: []string{"truncation"},
		},
		{
			name:  "stray_token_in_array",
			input: `{"items": [{"id":1}, xy"id":2}]}`,
			want: map[string]any{"items": []any{
				map[string]any{"id": float64(1)},
				map[string]any{"id": float64(2)},
			}},
			wantSteps: []string{"missing_braces"},
		},
		{
			name:      "fenced_with_trailing_comma",
			input:     "```json\n{\"a\": 1,}\n```",
			want:      map[string]any{"a": float64(1)},
			wantSteps: []string{"codefence", "trailing_commas"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Process[map[string]any](tt.input, "test", Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSteps, out.Steps)
			if diff := cmp.Diff(tt.want, out.Data); diff != "" {
				t.Errorf("decoded value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProcess_DecodesIntoStruct(t *testing.T) {
	type reply struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	out, err := Process[reply](`{"name": "x", "count": 3,}`, "test", Options{})
	require.NoError(t, err)
	assert.Equal(t, reply{Name: "x", Count: 3}, out.Data)
	assert.Equal(t, `{"name": "x", "count": 3}`, out.Content)
}

func TestProcess_ValidationFailureIsTerminal(t *testing.T) {
	rejectAll := validate.Func(func(any) validate.Result {
		return validate.Invalid("field 'name' must be a string")
	})

	out, err := Process[map[string]any](`{"name": 1}`, "resp", Options{Validator: rejectAll})
	require.Nil(t, out)

	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindValidation, pe.Kind)
	assert.Empty(t, pe.Steps, "valid text fails validation before any repair")
	assert.Contains(t, err.Error(), "field 'name' must be a string")
}

func TestProcess_Exhaustion(t *testing.T) {
	out, err := Process[map[string]any]("definitely not json", "resp", Options{})
	require.Nil(t, out)

	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindExhausted, pe.Kind)
	assert.Equal(t, "definitely not json", pe.Original)
	assert.Equal(t, "definitely not json", pe.Final)
	assert.Empty(t, pe.Steps)
	assert.Error(t, pe.Unwrap(), "carries the last parse error")
}

func TestProcess_ExhaustionKeepsAuditTrail(t *testing.T) {
	// The fence is stripped but the remainder never parses; the failure
	// must still report the original text and the steps that ran.
	in := "```json\ntotal nonsense\n```"
	_, err := Process[map[string]any](in, "resp", Options{})

	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindExhausted, pe.Kind)
	assert.Equal(t, in, pe.Original)
	assert.Equal(t, "total nonsense", pe.Final)
	assert.Equal(t, []string{"codefence"}, pe.Steps)
}

func TestProcess_NonTextInput(t *testing.T) {
	_, err := Process[map[string]any](42, "resp", Options{})

	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindInput, pe.Kind)
}

func TestProcess_ByteSliceInput(t *testing.T) {
	out, err := Process[map[string]any]([]byte(`{"a": 1}`), "resp", Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, out.Data)
}

// recordingLogger captures LogRun calls for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	calls []string
}

func (l *recordingLogger) LogRun(resource string, steps, diagnostics []string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, resource)
}

func TestProcess_LogsOnlyWhenAsked(t *testing.T) {
	logger := &recordingLogger{}

	_, err := Process[map[string]any](`{"a": 1}`, "silent", Options{Logger: logger})
	require.NoError(t, err)
	assert.Empty(t, logger.calls)

	_, err = Process[map[string]any](`{"a": 1}`, "loud", Options{Logger: logger, LogSteps: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"loud"}, logger.calls)
}

func TestProcess_ConcurrentInvocations(t *testing.T) {
	inputs := []string{
		`{"a": 1,}`,
		"{\"a\": 1\n\"b\": 2}",
		`{"a": {"b": 1`,
		`{"a": [1, 2}`,
		`{"a": 1}`,
	}

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		in := inputs[i%len(inputs)]
		g.Go(func() error {
			out, err := Process[map[string]any](in, "concurrent", Options{})
			if err != nil {
				return err
			}
			if len(out.Data) == 0 {
				return errors.New("empty decode")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestOutcome_Summary(t *testing.T) {
	o := &Outcome[any]{}
	assert.Equal(t, "parsed without repair", o.Summary())

	o.Steps = []string{"codefence", "trailing_commas"}
	assert.Equal(t, "repaired via codefence, trailing_commas", o.Summary())
}
