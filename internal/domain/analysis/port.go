package analysis

import (
	"context"
	"errors"
)

// ErrNotFound is returned on lookups and deletes that match no record owned
// by the requesting user. Cross-user deletes surface it too: ownership is
// part of the key, never a separate check the caller can skip.
var ErrNotFound = errors.New("analysis not found")

// Repository port for the persisted-record store.
//
// Upsert must be atomic at the storage layer: the schema enforces a
// uniqueness constraint on (user_id, video_id), so two concurrent analyses
// of the same video cannot race into two rows. On conflict the existing
// id and created_at survive; url, metadata, result, updated_at are replaced
// and revision increments.
type Repository interface {
	FindByUserAndVideo(ctx context.Context, userID, videoID string) (*Record, error)
	Upsert(ctx context.Context, rec *Record) (*Record, error)
	Get(ctx context.Context, userID string, id RecordID) (*Record, error)
	Delete(ctx context.Context, userID string, id RecordID) error
	ListByUser(ctx context.Context, userID string) ([]*Record, error)
}
