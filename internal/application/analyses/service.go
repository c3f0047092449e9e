package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tubeinsight/api/internal/application"
	"github.com/tubeinsight/api/internal/domain/ai"
	"github.com/tubeinsight/api/internal/domain/analysis"
	"github.com/tubeinsight/api/internal/domain/faults"
	"github.com/tubeinsight/api/internal/domain/transcript"
	"github.com/tubeinsight/api/internal/domain/video"
)

// Archive stores raw model output that failed validation, for diagnosis.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Service implements the analysis use-cases. Safe for concurrent use; the
// only shared mutable state is the record store, which serializes concurrent
// re-analysis of the same (user, video) through its uniqueness constraint.
type Service struct {
	Repo        analysis.Repository
	Transcripts transcript.Provider
	Summarizer  ai.Summarizer
	Metadata    video.MetadataProvider // optional, best-effort
	Faults      faults.Repository      // optional
	Archive     Archive                // optional
	Clock       application.Clock

	MaxTranscriptChars int           // 0 = unbounded
	ModelTimeout       time.Duration // per completion attempt
	RetryWait          time.Duration // pause before the single transient retry
}

// Analyze runs the full pipeline for a submitted URL and upserts the result
// keyed by (userID, videoID). Re-analysis of a known video goes through the
// exact same path; the repository replaces the prior metadata and result
// wholesale. Every stage failure aborts the remaining stages; nothing
// partial is ever persisted.
func (s *Service) Analyze(ctx context.Context, userID, rawURL string) (*analysis.Record, error) {
	videoID, err := video.ExtractID(rawURL)
	if err != nil {
		s.recordFault(ctx, userID, "", rawURL, "extract", err, "")
		return nil, err
	}

	text, err := s.Transcripts.Fetch(ctx, rawURL)
	if err != nil {
		s.recordFault(ctx, userID, videoID, rawURL, "transcript", err, "")
		return nil, err
	}

	if s.MaxTranscriptChars > 0 && len(text) > s.MaxTranscriptChars {
		log.Printf("truncating transcript video=%s from=%d to=%d", videoID, len(text), s.MaxTranscriptChars)
		text = text[:s.MaxTranscriptChars]
	}

	raw, err := s.summarize(ctx, text)
	if err != nil {
		s.recordFault(ctx, userID, videoID, rawURL, "summarize", err, "")
		return nil, err
	}

	result, err := analysis.ParseResult(raw)
	if err != nil {
		details := s.archiveRawOutput(ctx, userID, videoID, raw)
		log.Printf("model output rejected user=%s video=%s err=%v", userID, videoID, err)
		s.recordFault(ctx, userID, videoID, rawURL, "parse", err, details)
		return nil, err
	}

	md := s.fetchMetadata(ctx, videoID)

	now := s.Clock.Now()
	rec, err := s.Repo.Upsert(ctx, &analysis.Record{
		ID:        analysis.RecordID(uuid.New().String()),
		UserID:    userID,
		VideoID:   videoID,
		SourceURL: rawURL,
		Metadata:  md,
		Result:    result,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.recordFault(ctx, userID, videoID, rawURL, "persist", err, "")
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}
	return rec, nil
}

// Get returns one record scoped to the requesting user.
func (s *Service) Get(ctx context.Context, userID string, id analysis.RecordID) (*analysis.Record, error) {
	return s.Repo.Get(ctx, userID, id)
}

// List returns the user's records, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*analysis.Record, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Delete removes one record owned by the caller. Unowned or absent records
// yield analysis.ErrNotFound; another user's rows are never touched.
func (s *Service) Delete(ctx context.Context, userID string, id analysis.RecordID) error {
	return s.Repo.Delete(ctx, userID, id)
}

// RecentFaults lists the caller's recent pipeline failures.
func (s *Service) RecentFaults(ctx context.Context, userID string, limit int) ([]*faults.Fault, error) {
	if s.Faults == nil {
		return nil, nil
	}
	return s.Faults.ListByUser(ctx, userID, limit)
}

// summarize performs the model call with a per-attempt timeout and exactly
// one retry on transient provider errors. Validation failures are handled
// by the caller and never retried: a malformed response is unlikely to
// self-correct without prompt changes.
func (s *Service) summarize(ctx context.Context, text string) (string, error) {
	raw, err := s.summarizeOnce(ctx, text)
	if err == nil || !errors.Is(err, ai.ErrTransient) {
		return raw, err
	}

	wait := s.RetryWait
	if wait <= 0 {
		wait = 2 * time.Second
	}
	log.Printf("model call failed, retrying once in %s: %v", wait, err)
	select {
	case <-time.After(wait):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return s.summarizeOnce(ctx, text)
}

func (s *Service) summarizeOnce(ctx context.Context, text string) (string, error) {
	if s.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ModelTimeout)
		defer cancel()
	}
	return s.Summarizer.Summarize(ctx, text)
}

// fetchMetadata enriches the record opportunistically. Any failure degrades
// to the placeholder snapshot; it never aborts the pipeline.
func (s *Service) fetchMetadata(ctx context.Context, videoID string) *video.Metadata {
	if s.Metadata == nil {
		return video.Placeholder(videoID)
	}
	md, err := s.Metadata.Metadata(ctx, videoID)
	if err != nil {
		log.Printf("metadata enrichment failed video=%s err=%v", videoID, err)
		return video.Placeholder(videoID)
	}
	return md
}

// archiveRawOutput stores the rejected model text and returns a details JSON
// string pointing at it. Best-effort.
func (s *Service) archiveRawOutput(ctx context.Context, userID, videoID, raw string) string {
	if s.Archive == nil {
		return ""
	}
	key := fmt.Sprintf("raw/%s/%s-%d.txt", userID, videoID, s.Clock.Now().UnixMilli())
	url, err := s.Archive.Put(ctx, key, []byte(raw), "text/plain")
	if err != nil {
		log.Printf("failed to archive raw model output video=%s err=%v", videoID, err)
		return ""
	}
	log.Printf("raw model output archived video=%s url=%s", videoID, url)
	details, _ := json.Marshal(map[string]string{"raw_output_url": url})
	return string(details)
}

func (s *Service) recordFault(ctx context.Context, userID, videoID, url, stage string, cause error, details string) {
	if s.Faults == nil {
		return
	}
	f := &faults.Fault{
		UserID:      userID,
		VideoID:     videoID,
		SourceURL:   url,
		Stage:       stage,
		Message:     cause.Error(),
		DetailsJSON: details,
		CreatedAt:   s.Clock.Now(),
	}
	if err := s.Faults.Save(ctx, f); err != nil {
		log.Printf("failed to record fault stage=%s err=%v", stage, err)
	}
}
