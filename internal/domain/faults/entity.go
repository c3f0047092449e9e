package faults

import "time"

// Fault is a persisted pipeline failure entry, kept for diagnosis. One row
// per failed analysis attempt; successful attempts never write here.
type Fault struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	VideoID     string    `json:"video_id,omitempty"`
	SourceURL   string    `json:"url"`
	Stage       string    `json:"stage"` // extract | transcript | summarize | parse | persist
	Message     string    `json:"message"`
	DetailsJSON string    `json:"details_json,omitempty"` // raw JSON string
	CreatedAt   time.Time `json:"created_at"`
}
