package sqlite

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/tubeinsight/api/internal/domain/faults"
)

type FaultRepository struct {
	db *sql.DB
}

func NewFaultRepository(db *sql.DB) *FaultRepository {
	return &FaultRepository{db: db}
}

// Save inserts a fault entry
func (r *FaultRepository) Save(ctx context.Context, f *domain.Fault) error {
	const q = `
INSERT INTO analysis_faults
  (user_id, video_id, url, stage, message, details_json, created_at)
VALUES (?,?,?,?,?,?,?);
`
	createdAt := f.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		f.UserID, f.VideoID, f.SourceURL, f.Stage, f.Message, f.DetailsJSON, createdAt)
	return err
}

// ListByUser returns a user's recent faults, newest first
func (r *FaultRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Fault, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const q = `
SELECT id, user_id, video_id, url, stage, message, details_json, created_at
FROM analysis_faults
WHERE user_id=?
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Fault
	for rows.Next() {
		var f domain.Fault
		if err := rows.Scan(&f.ID, &f.UserID, &f.VideoID, &f.SourceURL,
			&f.Stage, &f.Message, &f.DetailsJSON, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
