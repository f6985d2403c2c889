package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EasterCompany/package-builder-service/internal/session"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
)

func openTestSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestSQLite(t)

	rec := session.New("s1")
	rec.Current = wizard.StepSpecificQuestions
	rec.Reached = wizard.StepSpecificQuestions
	rec.ConversationData.Interests = wizard.NewTagSet("marketing", "events")
	rec.Version = 7
	rec.LastUpdated = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Put(ctx, rec))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepSpecificQuestions, got.Current)
	assert.Equal(t, []string{"events", "marketing"}, got.ConversationData.Interests.Slice())
	assert.Equal(t, int64(7), got.Version)
	assert.True(t, rec.LastUpdated.Equal(got.LastUpdated))

	rec.Version = 8
	rec.Current = wizard.StepGeneration
	require.NoError(t, repo.Put(ctx, rec))
	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepGeneration, got.Current)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSQLiteListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := openTestSQLite(t)
	base := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		rec := session.New(id)
		rec.LastUpdated = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Put(ctx, rec))
	}

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, ids)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	repo, err := OpenSQLite(path)
	require.NoError(t, err)
	m, err := NewManager(repo, nil, Options{})
	require.NoError(t, err)
	_, err = m.Save(ctx, "s1", session.Patch{Progress: progressAt(wizard.StepBusinessDetails)})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	got, err := reopened.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepBusinessDetails, got.Current)
}

func TestSQLiteKV(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")
	repo, err := OpenSQLite(path)
	require.NoError(t, err)
	kv := repo.KV()

	_, ok, err := kv.Get(ctx, "profile_u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "profile_u1", []byte(`{"bio":"x"}`)))
	require.NoError(t, kv.Set(ctx, "profile_u1", []byte(`{"bio":"y"}`)))
	require.NoError(t, kv.Set(ctx, "activity_u1", []byte(`{}`)))
	got, ok, err := kv.Get(ctx, "profile_u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"bio":"y"}`, string(got))

	require.NoError(t, kv.Delete(ctx, "activity_u1", "missing"))
	_, ok, err = kv.Get(ctx, "activity_u1")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, repo.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	got, ok, err = reopened.KV().Get(ctx, "profile_u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"bio":"y"}`, string(got))
}
