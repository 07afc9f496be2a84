package executor

import (
	"encoding/json"
	"strings"
)

// Response field names probed during normalization, in priority order.
const (
	fieldOutput         = "output"
	fieldText           = "text"
	fieldMessage        = "message"
	fieldResponse       = "response"
	fieldContent        = "content"
	fieldDelegate       = "delegate"
	fieldCustomMetadata = "custom_metadata"
)

var outputFields = []string{fieldOutput, fieldText, fieldMessage, fieldResponse}

// extractField returns the first non-empty string among the prioritized
// output fields of data.
func extractField(data map[string]any) (string, bool) {
	for _, key := range outputFields {
		if s, ok := data[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// ExtractOutput pulls the output text from a structured response, falling
// back to the JSON-encoded whole body when no known field is present.
func ExtractOutput(data map[string]any) string {
	if s, ok := extractField(data); ok {
		return s
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return string(encoded)
}

// ParseJSONObject parses text into a map when it looks like a JSON object
// (starts with "{"), returning nil otherwise.
func ParseJSONObject(text string) map[string]any {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil
	}
	return parsed
}

// ExtractDelegate locates a delegate instruction anywhere the protocol
// allows: inside a custom_metadata sub-map, at the top level, or embedded as
// JSON inside a text content part. Absence is not an error; the second
// return value reports whether a delegate was found.
func ExtractDelegate(data map[string]any) (any, bool) {
	if meta, ok := data[fieldCustomMetadata].(map[string]any); ok {
		if d, ok := meta[fieldDelegate]; ok && d != nil {
			return d, true
		}
	}

	if d, ok := data[fieldDelegate]; ok && d != nil {
		return d, true
	}

	if parts, ok := data[fieldContent].([]any); ok {
		for _, p := range parts {
			part, ok := p.(map[string]any)
			if !ok {
				continue
			}
			text, _ := part[fieldText].(string)
			if parsed := ParseJSONObject(text); parsed != nil {
				if d, ok := parsed[fieldDelegate]; ok && d != nil {
					return d, true
				}
			}
		}
	}

	return nil, false
}

// ProcessChunks normalizes a response chunk sequence into one output string
// and one structured map.
//
// Text fragments are concatenated in order with single-space separators;
// when no text exists the most recent structured chunk supplies the output
// via field priority. Output that itself looks like a JSON object is parsed,
// merged into the structured map, and its inner output field preferred. Any
// delegate instruction found is hoisted to the top level of the map.
func ProcessChunks(chunks []Chunk) (string, map[string]any) {
	if len(chunks) == 0 {
		return "", map[string]any{fieldOutput: ""}
	}

	var texts []string
	var last map[string]any
	for _, c := range chunks {
		switch c := c.(type) {
		case TextChunk:
			if c.Text != "" {
				texts = append(texts, c.Text)
			}
		case DataChunk:
			if c.Data != nil {
				last = c.Data
			}
		}
	}

	output := strings.Join(texts, " ")

	data := make(map[string]any, len(last)+1)
	for k, v := range last {
		data[k] = v
	}

	if output == "" && last != nil {
		output = ExtractOutput(last)
	}

	if parsed := ParseJSONObject(output); parsed != nil {
		for k, v := range parsed {
			data[k] = v
		}
		if inner, ok := extractField(parsed); ok {
			output = inner
		}
	}

	if d, ok := ExtractDelegate(data); ok {
		data[fieldDelegate] = d
	}
	if _, ok := data[fieldOutput]; !ok {
		data[fieldOutput] = output
	}

	return output, data
}
