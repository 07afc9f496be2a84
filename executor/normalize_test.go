package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractOutput_FieldPriority(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{"output wins", map[string]any{"output": "o", "text": "t", "message": "m"}, "o"},
		{"text before message", map[string]any{"text": "t", "message": "m"}, "t"},
		{"message before response", map[string]any{"message": "m", "response": "r"}, "m"},
		{"response last", map[string]any{"response": "r"}, "r"},
		{"empty string skipped", map[string]any{"output": "", "text": "t"}, "t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractOutput(tt.data))
		})
	}
}

func TestExtractOutput_FallbackStringifiesBody(t *testing.T) {
	got := ExtractOutput(map[string]any{"status": "done"})
	assert.JSONEq(t, `{"status":"done"}`, got)
}

func TestParseJSONObject(t *testing.T) {
	assert.Nil(t, ParseJSONObject("plain text"))
	assert.Nil(t, ParseJSONObject("{not json"))
	assert.Nil(t, ParseJSONObject(`[1,2,3]`))

	parsed := ParseJSONObject(`  {"output":"hi"}  `)
	require.NotNil(t, parsed)
	assert.Equal(t, "hi", parsed["output"])
}

func TestExtractDelegate(t *testing.T) {
	delegate := map[string]any{"prompt": "track it", "agent_id": "ups-agent"}

	t.Run("custom metadata", func(t *testing.T) {
		d, ok := ExtractDelegate(map[string]any{
			"custom_metadata": map[string]any{"delegate": delegate},
		})
		require.True(t, ok)
		assert.Equal(t, delegate, d)
	})

	t.Run("top level", func(t *testing.T) {
		d, ok := ExtractDelegate(map[string]any{"delegate": delegate})
		require.True(t, ok)
		assert.Equal(t, delegate, d)
	})

	t.Run("embedded in text part", func(t *testing.T) {
		d, ok := ExtractDelegate(map[string]any{
			"content": []any{
				map[string]any{"text": "preamble"},
				map[string]any{"text": `{"delegate":{"prompt":"track it"}}`},
			},
		})
		require.True(t, ok)
		m, ok := d.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "track it", m["prompt"])
	})

	t.Run("custom metadata wins over top level", func(t *testing.T) {
		d, ok := ExtractDelegate(map[string]any{
			"custom_metadata": map[string]any{"delegate": map[string]any{"prompt": "meta"}},
			"delegate":        map[string]any{"prompt": "top"},
		})
		require.True(t, ok)
		assert.Equal(t, "meta", d.(map[string]any)["prompt"])
	})

	t.Run("absent", func(t *testing.T) {
		_, ok := ExtractDelegate(map[string]any{"output": "done"})
		assert.False(t, ok)
	})

	t.Run("explicit null is absent", func(t *testing.T) {
		_, ok := ExtractDelegate(map[string]any{"delegate": nil})
		assert.False(t, ok)
	})
}

func TestProcessChunks(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		output, data := ProcessChunks(nil)
		assert.Equal(t, "", output)
		assert.Equal(t, map[string]any{"output": ""}, data)
	})

	t.Run("text fragments joined", func(t *testing.T) {
		output, data := ProcessChunks([]Chunk{TextChunk{Text: "hello"}, TextChunk{Text: "world"}})
		assert.Equal(t, "hello world", output)
		assert.Equal(t, "hello world", data["output"])
	})

	t.Run("last data chunk wins", func(t *testing.T) {
		output, data := ProcessChunks([]Chunk{
			DataChunk{Data: map[string]any{"output": "first"}},
			DataChunk{Data: map[string]any{"output": "second"}},
		})
		assert.Equal(t, "second", output)
		assert.Equal(t, "second", data["output"])
	})

	t.Run("json output parsed and merged", func(t *testing.T) {
		output, data := ProcessChunks([]Chunk{
			TextChunk{Text: `{"output":"inner","extra":42}`},
		})
		assert.Equal(t, "inner", output)
		assert.Equal(t, float64(42), data["extra"])
	})

	t.Run("delegate hoisted from metadata", func(t *testing.T) {
		_, data := ProcessChunks([]Chunk{
			TextChunk{Text: "Checking..."},
			DataChunk{Data: map[string]any{
				"custom_metadata": map[string]any{
					"delegate": map[string]any{"prompt": "track it", "agent_id": "ups-agent"},
				},
			}},
		})
		d, ok := data["delegate"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ups-agent", d["agent_id"])
	})

	t.Run("text preferred over structured output", func(t *testing.T) {
		output, _ := ProcessChunks([]Chunk{
			TextChunk{Text: "spoken"},
			DataChunk{Data: map[string]any{"output": "structured"}},
		})
		assert.Equal(t, "spoken", output)
	})
}
