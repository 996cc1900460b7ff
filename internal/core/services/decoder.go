package services

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/custodia-labs/insight-core/internal/core/domain"
)

// The model is instructed to emit JSON only, but instruction-following is
// unreliable: replies arrive wrapped in markdown fences, prefixed with prose,
// or trailed by commentary. This decoder is the single point absorbing that
// unreliability so every caller gets a clean object or a typed error.

// fenceMarker matches opening/closing triple-backtick segments, with or
// without a language tag
var fenceMarker = regexp.MustCompile("```[a-zA-Z]*")

// DecodeObject recovers a JSON object from free-form model output.
// Fails with domain.ErrInvalidPayload (carrying a raw excerpt) when no valid
// object can be found.
func DecodeObject(raw string) (map[string]any, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = fenceMarker.ReplaceAllString(cleaned, "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, domain.NewPayloadError(raw)
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &out); err != nil {
		return nil, domain.NewPayloadError(raw)
	}
	return out, nil
}

// decodeInto recovers a JSON object from raw and unmarshals it into v.
// Never eval-style parsing: the recovered slice goes through encoding/json
// twice, so adversarial content can at worst fail to decode.
func decodeInto(raw string, v any) error {
	obj, err := DecodeObject(raw)
	if err != nil {
		return err
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return domain.NewPayloadError(raw)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return domain.NewPayloadError(raw)
	}
	return nil
}
