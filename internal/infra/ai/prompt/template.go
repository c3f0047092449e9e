package prompt

import "fmt"

// The analysis contract: the model must answer with ONE JSON object matching
// this schema, nothing else. Validation downstream only checks the five
// top-level keys, so the instructions here carry the nested shape.
const instructions = `You are a helpful AI assistant that analyzes YouTube video transcripts. Your task is to analyze the provided transcript and return ONLY a JSON object with no additional text or formatting. The JSON must follow this exact structure:

{
  "executiveSummary": "2-3 sentence overview",
  "detailedSummary": "2-3 paragraphs of detailed explanation",
  "keyTakeaways": ["5-7 key points as bullet points"],
  "educationalContent": {
    "quizQuestions": [
      {
        "question": "Question text",
        "answer": "Answer text"
      }
    ],
    "keyTerms": [
      {
        "term": "Term name",
        "definition": "Term definition"
      }
    ],
    "studyNotes": ["Important study points"]
  },
  "researchAnalysis": {
    "quality": "Assessment of content quality",
    "biases": "Potential biases in the content",
    "furtherResearch": "Suggested areas for further research"
  }
}

Remember:
1. Return ONLY the JSON object, no other text
2. Ensure all JSON values are properly escaped strings
3. Do not include any markdown or formatting
4. Make sure all arrays and objects are properly closed`

// System returns the instruction half of the prompt, for providers with a
// separate system role.
func System() string {
	return instructions
}

// User wraps the transcript for the user message. The transcript goes in
// verbatim, at the end.
func User(transcript string) string {
	return fmt.Sprintf("Here is the transcript to analyze:\n%s", transcript)
}

// Combined builds a single-message prompt for providers without a system role.
func Combined(transcript string) string {
	return instructions + "\n\n" + User(transcript)
}
