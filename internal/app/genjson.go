package app

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

// stripFences removes markdown code-fence markers the generator sometimes
// wraps around its answer, e.g. ```json ... ```.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// decodeResponse strips fences and unmarshals raw generator output into dst.
// A body that is not well-formed JSON is a malformed-output failure; a
// well-formed body that does not fit dst's shape is a schema violation.
func decodeResponse(step, raw string, dst any) error {
	cleaned := stripFences(raw)
	if !json.Valid([]byte(cleaned)) {
		return domain.NewStepError(step, domain.KindMalformedOutput,
			fmt.Errorf("generation output is not valid JSON"))
	}
	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		return domain.NewStepError(step, domain.KindSchemaViolation, err)
	}
	return nil
}

/********** flexible field extraction for loosely-shaped payloads **********/

func strAt(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// floatAt accepts float64, int, or a numeric string; returns 0 otherwise.
func floatAt(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// intAt floors a flexible numeric field to a non-negative integer.
func intAt(m map[string]any, keys ...string) int {
	f := floatAt(m, keys...)
	if f < 0 {
		return 0
	}
	return int(math.Floor(f))
}

func strSliceAt(m map[string]any, keys ...string) []string {
	for _, k := range keys {
		raw, ok := m[k].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			if s, ok := it.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// clamp bounds v into [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
