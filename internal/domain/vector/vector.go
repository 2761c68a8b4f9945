// Package vector holds the similarity math and the stored-embedding codec.
package vector

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/curio-social/semgraph/internal/domain"
)

// Cosine returns the cosine similarity of two equal-dimension vectors.
// A zero-norm vector on either side yields 0.0 by policy, not an error.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrVectorDimMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Parse normalizes a stored embedding into a []float32.
// Accepted shapes: a numeric sequence, a JSON-encoded array string, or a
// keyed structure with an "embedding" field. Anything else is a decode error.
func Parse(raw any) ([]float32, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil value", domain.ErrEmbeddingDecode)
	case []float32:
		return v, nil
	case []float64:
		out := make([]float32, len(v))
		for i, f := range v {
			out[i] = float32(f)
		}
		return out, nil
	case []any:
		out := make([]float32, len(v))
		for i, e := range v {
			f, ok := e.(float64)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T", domain.ErrEmbeddingDecode, i, e)
			}
			out[i] = float32(f)
		}
		return out, nil
	case string:
		return ParseJSON(v)
	case []byte:
		return ParseJSON(string(v))
	case json.RawMessage:
		return ParseJSON(string(v))
	case map[string]any:
		nested, ok := v["embedding"]
		if !ok {
			return nil, fmt.Errorf("%w: object without embedding field", domain.ErrEmbeddingDecode)
		}
		return Parse(nested)
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", domain.ErrEmbeddingDecode, raw)
	}
}

// ParseJSON decodes a JSON-serialized embedding array.
func ParseJSON(s string) ([]float32, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", domain.ErrEmbeddingDecode)
	}
	var floats []float64
	if err := json.Unmarshal([]byte(s), &floats); err != nil {
		// Some clients store the whole provider payload, not just the array.
		var obj map[string]any
		if err2 := json.Unmarshal([]byte(s), &obj); err2 == nil {
			return Parse(obj)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingDecode, err)
	}
	out := make([]float32, len(floats))
	for i, f := range floats {
		out[i] = float32(f)
	}
	return out, nil
}
