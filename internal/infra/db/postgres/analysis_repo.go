package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/tubeinsight/api/internal/domain/analysis"
	"github.com/tubeinsight/api/internal/domain/video"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `id, user_id, video_id, url, metadata, analysis, revision, created_at, updated_at`

// Upsert inserts or replaces the record for (user_id, video_id) in one
// statement. ON CONFLICT on the unique pair keeps id/created_at, replaces the
// payload, and bumps revision; RETURNING hands back the persisted row.
func (r *AnalysisRepository) Upsert(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	const q = `
INSERT INTO analyses
  (id, user_id, video_id, url, metadata, analysis, revision, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,1,$7,$8)
ON CONFLICT (user_id, video_id) DO UPDATE SET
  url=EXCLUDED.url,
  metadata=EXCLUDED.metadata,
  analysis=EXCLUDED.analysis,
  revision=analyses.revision+1,
  updated_at=EXCLUDED.updated_at
RETURNING ` + analysisColumns + `;`

	md, err := metadataJSON(rec.Metadata)
	if err != nil {
		return nil, err
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return scanRecord(r.db.QueryRowContext(ctx, q,
		rec.ID, rec.UserID, rec.VideoID, rec.SourceURL, md,
		resultOrEmpty(rec.Result), createdAt, updatedAt,
	))
}

// FindByUserAndVideo returns the record for (user, video), or nil when none exists.
func (r *AnalysisRepository) FindByUserAndVideo(ctx context.Context, userID, videoID string) (*domain.Record, error) {
	const q = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE user_id=$1 AND video_id=$2
LIMIT 1;`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, userID, videoID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// Get fetches one record scoped to its owner.
func (r *AnalysisRepository) Get(ctx context.Context, userID string, id domain.RecordID) (*domain.Record, error) {
	const q = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE user_id=$1 AND id=$2
LIMIT 1;`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, userID, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

// Delete removes one record owned by userID; never another user's row.
func (r *AnalysisRepository) Delete(ctx context.Context, userID string, id domain.RecordID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE user_id=$1 AND id=$2;`, userID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByUser returns all of a user's records, newest first.
func (r *AnalysisRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Record, error) {
	const q = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE user_id=$1
ORDER BY created_at DESC, id DESC;`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var rec domain.Record
	var md []byte
	var result string
	if err := row.Scan(
		&rec.ID, &rec.UserID, &rec.VideoID, &rec.SourceURL,
		&md, &result, &rec.Revision, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.Metadata = scanMetadata(md)
	rec.Result = json.RawMessage(result)
	return &rec, nil
}

func resultOrEmpty(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return "{}"
	}
	return s
}

func metadataJSON(md *video.Metadata) ([]byte, error) {
	if md == nil {
		return nil, nil
	}
	return json.Marshal(md)
}

func scanMetadata(raw []byte) *video.Metadata {
	if len(raw) == 0 {
		return nil
	}
	var md video.Metadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil
	}
	return &md
}
