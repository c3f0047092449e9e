package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/tubeinsight/api/internal/domain/analysis"
	"github.com/tubeinsight/api/internal/domain/faults"
	"github.com/tubeinsight/api/internal/domain/video"
)

func testDB(t *testing.T) *AnalysisRepository {
	t.Helper()
	db, err := Connect(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAnalysisRepository(db)
}

func newRecord(userID, videoID string) *domain.Record {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Record{
		ID:        domain.RecordID(uuid.New().String()),
		UserID:    userID,
		VideoID:   videoID,
		SourceURL: "https://youtu.be/" + videoID,
		Metadata:  video.Placeholder(videoID),
		Result:    json.RawMessage(`{"executiveSummary":"s"}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUpsertInsertsAndReplaces(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, newRecord("user-1", "dQw4w9WgXcQ"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.Revision)

	// re-analysis of the same (user, video) replaces in place
	second := newRecord("user-1", "dQw4w9WgXcQ")
	second.Result = json.RawMessage(`{"executiveSummary":"updated"}`)
	second.UpdatedAt = second.UpdatedAt.Add(time.Minute)
	got, err := repo.Upsert(ctx, second)
	require.NoError(t, err)

	// id and created_at survive; revision bumps; payload is replaced
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, first.CreatedAt.Unix(), got.CreatedAt.Unix())
	assert.EqualValues(t, 2, got.Revision)
	assert.JSONEq(t, `{"executiveSummary":"updated"}`, string(got.Result))
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	// exactly one row for the pair
	list, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpsertDistinctPerUser(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	a, err := repo.Upsert(ctx, newRecord("user-1", "dQw4w9WgXcQ"))
	require.NoError(t, err)
	b, err := repo.Upsert(ctx, newRecord("user-2", "dQw4w9WgXcQ"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	listA, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, listA, 1)
}

func TestUpsertConcurrentSamePair(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Upsert(ctx, newRecord("user-1", "dQw4w9WgXcQ"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 8, list[0].Revision)
}

func TestFindByUserAndVideo(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	got, err := repo.FindByUserAndVideo(ctx, "user-1", "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = repo.Upsert(ctx, newRecord("user-1", "dQw4w9WgXcQ"))
	require.NoError(t, err)

	got, err = repo.FindByUserAndVideo(ctx, "user-1", "dQw4w9WgXcQ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "dQw4w9WgXcQ", got.VideoID)
	require.NotNil(t, got.Metadata)
	assert.Equal(t, "YouTube Video", got.Metadata.Snippet.Title)
}

func TestGetScopedToOwner(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	rec, err := repo.Upsert(ctx, newRecord("user-1", "dQw4w9WgXcQ"))
	require.NoError(t, err)

	got, err := repo.Get(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = repo.Get(ctx, "user-2", rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteScopedToOwner(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	rec, err := repo.Upsert(ctx, newRecord("user-1", "dQw4w9WgXcQ"))
	require.NoError(t, err)

	// another user cannot delete the row
	err = repo.Delete(ctx, "user-2", rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := repo.Get(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	require.NoError(t, repo.Delete(ctx, "user-1", rec.ID))
	_, err = repo.Get(ctx, "user-1", rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// deleting again reports not found
	err = repo.Delete(ctx, "user-1", rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByUserNewestFirst(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, vid := range []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"} {
		rec := newRecord("user-1", vid)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		rec.UpdatedAt = rec.CreatedAt
		_, err := repo.Upsert(ctx, rec)
		require.NoError(t, err)
	}

	list, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "ccccccccccc", list[0].VideoID)
	assert.Equal(t, "aaaaaaaaaaa", list[2].VideoID)
}

func TestFaultRepository(t *testing.T) {
	db, err := Connect(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewFaultRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, &faults.Fault{
			UserID:    "user-1",
			VideoID:   "dQw4w9WgXcQ",
			SourceURL: "https://youtu.be/dQw4w9WgXcQ",
			Stage:     "transcript",
			Message:   "no transcript available",
			CreatedAt: time.Now().UTC(),
		}))
	}
	require.NoError(t, repo.Save(ctx, &faults.Fault{
		UserID:    "user-2",
		SourceURL: "bad-url",
		Stage:     "extract",
		Message:   "could not extract video ID",
		CreatedAt: time.Now().UTC(),
	}))

	got, err := repo.ListByUser(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "transcript", got[0].Stage)

	other, err := repo.ListByUser(ctx, "user-2", 10)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "extract", other[0].Stage)
}
