package stages

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var errNoJSONObject = errors.New("no JSON object found in response")

// ExtractJSON strips markdown fences and returns the span between the first
// '{' and the last '}'.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", errNoJSONObject
	}

	return text[start : end+1], nil
}

// decodeObject parses the JSON object embedded in a model response.
func decodeObject(text string) (map[string]any, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if out == nil {
		return nil, errNoJSONObject
	}

	return out, nil
}

// weakDecode copies a loosely typed map into a tagged struct, converting
// numbers held as strings and single values where lists are expected.
func weakDecode(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
