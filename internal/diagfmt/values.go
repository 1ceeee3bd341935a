package diagfmt

import (
	"encoding/json"
	"io"

	"vmfkit/vmf"
)

// ValueJSON оборачивает значение верхнего уровня вместе с его видом.
type ValueJSON struct {
	Kind  string    `json:"kind"`
	Value vmf.Value `json:"value"`
}

// BuildValuesJSON wraps values for encoding, keeping their order.
func BuildValuesJSON(values []vmf.Value) []ValueJSON {
	out := make([]ValueJSON, len(values))
	for i, v := range values {
		out[i] = ValueJSON{Kind: v.Kind().String(), Value: v}
	}
	return out
}

// FormatValuesJSON выводит извлечённые значения в исходном порядке.
func FormatValuesJSON(w io.Writer, values []vmf.Value) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildValuesJSON(values))
}
