package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/lingopath/backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "bare object",
			text:     `{"units":[]}`,
			expected: `{"units":[]}`,
		},
		{
			name:     "code fence with commentary",
			text:     "Here you go:\n```json\n{\"units\":[{\"unit_title\":{\"en\":\"Basics\",\"vi\":\"Cơ bản\"}}]}\n```",
			expected: `{"units":[{"unit_title":{"en":"Basics","vi":"Cơ bản"}}]}`,
		},
		{
			name:     "array after prose",
			text:     "Sure! The activities are below.\n[{\"activity_type\":\"QUIZ_MCQ\"}]\nGood luck.",
			expected: `[{"activity_type":"QUIZ_MCQ"}]`,
		},
		{
			name:     "brackets inside strings",
			text:     `note: {"html_content":"<p>use { and ] freely</p>","x":"\"}"}`,
			expected: `{"html_content":"<p>use { and ] freely</p>","x":"\"}"}`,
		},
		{
			name:     "prose bracket before payload",
			text:     "[draft] {\"skills\":[1,2]}",
			expected: `{"skills":[1,2]}`,
		},
		{
			name:     "citation before fenced payload",
			text:     "Based on source [1], here you go:\n```json\n{\"units\":[{\"unit_title\":{\"en\":\"Greetings\"}}]}\n```",
			expected: `{"units":[{"unit_title":{"en":"Greetings"}}]}`,
		},
		{
			name:     "fence without payload falls back to bare text",
			text:     "```text\nno data\n```\n{\"skills\":[]}",
			expected: `{"skills":[]}`,
		},
		{
			name:     "unterminated fence",
			text:     "[draft]\n```json\n{\"a\":1}",
			expected: `{"a":1}`,
		},
		{
			name:     "unbalanced prefix",
			text:     "{ oops ] then [1, 2]",
			expected: `[1, 2]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExtractJSON(tt.text)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(result))
		})
	}
}

func TestExtractJSON_SameValueRegardlessOfNoise(t *testing.T) {
	payload := `[{"a":1},{"b":[2,3]}]`
	variants := []string{
		payload,
		"```json\n" + payload + "\n```",
		"Output:\n\n" + payload + "\n\nThanks",
		"```\n" + payload + "```",
		"Based on source [1], here you go:\n```json\n" + payload + "\n```",
		"See {note} and [2].\n```\n" + payload + "\n```\nSources: [1] [2]",
	}

	var first json.RawMessage
	for i, v := range variants {
		result, err := ExtractJSON(v)
		require.NoError(t, err)
		if i == 0 {
			first = result
			continue
		}
		assert.JSONEq(t, string(first), string(result))
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	inputs := []string{
		"",
		"I cannot help with that.",
		"{ not json at all",
		"```json\n```",
	}

	for _, in := range inputs {
		_, err := ExtractJSON(in)
		require.Error(t, err)

		var malformed *apperr.MalformedModelOutputError
		assert.True(t, errors.As(err, &malformed))
		assert.Equal(t, in, malformed.Raw)
	}
}
