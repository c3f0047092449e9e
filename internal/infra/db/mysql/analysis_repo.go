package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/tubeinsight/api/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `id, user_id, video_id, url, metadata, analysis, revision, created_at, updated_at`

// Upsert inserts or replaces the record for (user_id, video_id). The unique
// key on that pair makes concurrent upserts converge on one row; on conflict
// the stored id and created_at survive and revision increments. MySQL has no
// RETURNING, so the persisted row is read back afterwards.
func (r *AnalysisRepository) Upsert(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	const q = `
INSERT INTO analyses
  (id, user_id, video_id, url, metadata, analysis, revision, created_at, updated_at)
VALUES (?,?,?,?,?,?,1,?,?)
ON DUPLICATE KEY UPDATE
  url=VALUES(url), metadata=VALUES(metadata), analysis=VALUES(analysis),
  revision=revision+1, updated_at=VALUES(updated_at);
`
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

	if _, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.UserID, rec.VideoID, rec.SourceURL, md,
		resultOrEmpty(rec.Result), createdAt, updatedAt,
	); err != nil {
		return nil, err
	}

	return r.FindByUserAndVideo(ctx, rec.UserID, rec.VideoID)
}

// FindByUserAndVideo returns the record for (user, video), or nil when none exists.
func (r *AnalysisRepository) FindByUserAndVideo(ctx context.Context, userID, videoID string) (*domain.Record, error) {
	const q = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE user_id=? AND video_id=?
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
WHERE user_id=? AND id=?
LIMIT 1;`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, userID, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

// Delete removes one record owned by userID. Rows belonging to other users
// are untouched; matching nothing yields ErrNotFound.
func (r *AnalysisRepository) Delete(ctx context.Context, userID string, id domain.RecordID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE user_id=? AND id=?;`, userID, id)
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
WHERE user_id=?
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
