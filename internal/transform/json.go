package transform

import (
	"encoding/json"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
)

const functionPlaceholder = "[function]"

// JSON renders the exports as indented JSON with sorted keys.
type JSON struct{}

// Name implements ports.Transformer.
func (JSON) Name() string { return NameJSON }

// Transform implements ports.Transformer.
func (JSON) Transform(exports playground.Exports) (string, error) {
	data, err := json.MarshalIndent(plain(map[string]any(exports)), "", "  ")
	if err != nil {
		return "", playground.NewTransformError(NameJSON, err)
	}
	return string(data) + "\n", nil
}

func plain(value any) any {
	switch v := value.(type) {
	case playground.Func:
		return functionPlaceholder
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = plain(child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = plain(child)
		}
		return out
	default:
		return v
	}
}
