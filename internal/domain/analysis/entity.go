package analysis

import (
	"encoding/json"
	"time"

	"github.com/tubeinsight/api/internal/domain/video"
)

// RecordID identifier type
type RecordID string

// Record is the persisted analysis entity. At most one record exists per
// (UserID, VideoID); re-analysis replaces Metadata and Result wholesale.
// Field names on the wire match the rows historical clients already read.
type Record struct {
	ID        RecordID        `json:"id"`
	UserID    string          `json:"user_id"`
	VideoID   string          `json:"video_id"`
	SourceURL string          `json:"url"`
	Metadata  *video.Metadata `json:"metadata,omitempty"`
	Result    json.RawMessage `json:"analysis"`
	Revision  int64           `json:"revision"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Result is the typed view of a validated analysis payload. Only the five
// top-level keys are guaranteed by validation; nested values are stored
// as the model produced them.
type Result struct {
	ExecutiveSummary   string             `json:"executiveSummary"`
	DetailedSummary    string             `json:"detailedSummary"`
	KeyTakeaways       []string           `json:"keyTakeaways"`
	EducationalContent EducationalContent `json:"educationalContent"`
	ResearchAnalysis   ResearchAnalysis   `json:"researchAnalysis"`
}

type EducationalContent struct {
	QuizQuestions []QuizQuestion `json:"quizQuestions"`
	KeyTerms      []KeyTerm      `json:"keyTerms"`
	StudyNotes    []string       `json:"studyNotes"`
}

type QuizQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type KeyTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type ResearchAnalysis struct {
	Quality         string `json:"quality"`
	Biases          string `json:"biases"`
	FurtherResearch string `json:"furtherResearch"`
}
