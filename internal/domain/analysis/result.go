package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// requiredFields are the mandatory top-level keys of a model response,
// in schema order. Nested structures are not validated; a present but
// malformed nested value is stored as the model produced it.
var requiredFields = []string{
	"executiveSummary",
	"detailedSummary",
	"keyTakeaways",
	"educationalContent",
	"researchAnalysis",
}

// ValidationError reports an unusable model response. Raw carries the
// original text for diagnosis; it is never shown to end users.
type ValidationError struct {
	Missing []string
	Raw     string
	cause   error
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("failed to parse analysis: %v", e.cause)
}

func (e *ValidationError) Unwrap() error { return e.cause }

// ParseResult turns raw model output into a validated analysis payload.
// It trims whitespace, strips a markdown code fence if the model wrapped
// its JSON in one, parses the remainder, and checks that every required
// top-level key is present. The validated payload is returned verbatim.
func ParseResult(raw string) (json.RawMessage, error) {
	cleaned := stripFences(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, &ValidationError{Raw: raw, cause: err}
	}

	var missing []string
	for _, key := range requiredFields {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing, Raw: raw}
	}

	return json.RawMessage(cleaned), nil
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
