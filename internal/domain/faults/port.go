package faults

import (
	"context"
)

// Repository defines persistence for pipeline faults. Saving is best-effort:
// a failure to record a fault never masks the original pipeline error.
type Repository interface {
	Save(ctx context.Context, f *Fault) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*Fault, error)
}
