package analysis

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResponse = `{
	"executiveSummary": "A short overview.",
	"detailedSummary": "A longer overview.",
	"keyTakeaways": ["first", "second"],
	"educationalContent": {"quizQuestions": [], "keyTerms": []},
	"researchAnalysis": {"quality": "high", "biases": "none", "furtherResearch": "n/a"}
}`

func TestParseResult(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		got, err := ParseResult(validResponse)
		require.NoError(t, err)

		var fields map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(got, &fields))
		assert.Len(t, fields, 5)
	})

	t.Run("fenced json", func(t *testing.T) {
		got, err := ParseResult("```json\n" + validResponse + "\n```")
		require.NoError(t, err)

		var fields map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(got, &fields))
		assert.Contains(t, fields, "executiveSummary")
	})

	t.Run("fence without language tag", func(t *testing.T) {
		_, err := ParseResult("```\n" + validResponse + "\n```")
		require.NoError(t, err)
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		_, err := ParseResult("\n\n  " + validResponse + "  \n")
		require.NoError(t, err)
	})

	t.Run("missing fields listed in order", func(t *testing.T) {
		_, err := ParseResult(`{"executiveSummary": "x", "keyTakeaways": []}`)
		require.Error(t, err)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"detailedSummary", "educationalContent", "researchAnalysis"}, verr.Missing)
		assert.Contains(t, verr.Error(), "missing required fields: detailedSummary, educationalContent, researchAnalysis")
	})

	t.Run("malformed nested values accepted", func(t *testing.T) {
		// Only top-level presence is checked; a wrong-shaped nested value
		// is stored as produced.
		raw := `{
			"executiveSummary": "x",
			"detailedSummary": "y",
			"keyTakeaways": "not-an-array",
			"educationalContent": 42,
			"researchAnalysis": null
		}`
		got, err := ParseResult(raw)
		require.NoError(t, err)
		assert.NotEmpty(t, got)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseResult("I could not analyze this video, sorry!")
		require.Error(t, err)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Empty(t, verr.Missing)
		assert.Equal(t, "I could not analyze this video, sorry!", verr.Raw)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseResult("")
		require.Error(t, err)
	})
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}
