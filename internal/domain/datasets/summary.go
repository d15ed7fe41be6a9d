package datasets

import (
	"encoding/json"
	"sort"
)

// Summary is the compact digest of a dataset fed into the model prompt.
// Sample keeps the prompt small: the first element of a top level array,
// or the first two keys of a top level object.
type Summary struct {
	Kind    string `json:"kind"` // array | object | scalar
	Records int    `json:"records"`
	Sample  string `json:"sample"` // JSON encoded
	Schema  string `json:"schema"` // JSON encoded
}

// Summarize builds the prompt digest for a dataset. When the dataset carries
// no user supplied schema, a structural sketch is inferred from the value.
func Summarize(d *Dataset) Summary {
	var s Summary

	switch v := d.Raw.(type) {
	case []any:
		s.Kind = "array"
		s.Records = len(v)
		if len(v) > 0 {
			s.Sample = mustJSON(v[:1])
		} else {
			s.Sample = "[]"
		}
	case map[string]any:
		s.Kind = "object"
		s.Records = 1
		// ambil 2 key pertama saja; map Go tidak berurutan, jadi sort dulu
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) > 2 {
			keys = keys[:2]
		}
		sample := make(map[string]any, len(keys))
		for _, k := range keys {
			sample[k] = v[k]
		}
		s.Sample = mustJSON(sample)
	default:
		s.Kind = "scalar"
		s.Records = 1
		s.Sample = mustJSON(v)
	}

	if d.Schema != nil {
		s.Schema = mustJSON(d.Schema)
	} else {
		s.Schema = mustJSON(sketch(d.Raw, 0))
	}
	return s
}

const maxSketchDepth = 6

// sketch reduces a JSON value to its shape: type names for leaves, key sets
// for objects, the first element's shape for arrays.
func sketch(v any, depth int) any {
	if depth >= maxSketchDepth {
		return "..."
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = sketch(val, depth+1)
		}
		return out
	case []any:
		if len(t) == 0 {
			return []any{}
		}
		return []any{sketch(t[0], depth+1)}
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
