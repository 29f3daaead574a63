package data

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminara/journey-api/internal/ports"
	"github.com/luminara/journey-api/internal/testutil"
)

func TestStateRepo_SaveLoadDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewStateRepo(db)
	scope := uuid.NewString()

	_, err := repo.Load(ctx, scope, ports.KeyUserSession)
	require.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, repo.Save(ctx, scope, ports.KeyUserSession, []byte(`{"id":"user_1","name":"ana"}`)))
	require.NoError(t, repo.Save(ctx, scope, ports.KeyUserSession, []byte(`{"id":"user_1","name":"Ana"}`)))
	require.NoError(t, repo.Save(ctx, scope, ports.KeyJourneyState, []byte(`{"currentStep":2}`)))

	got, err := repo.Load(ctx, scope, ports.KeyUserSession)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"user_1","name":"Ana"}`, string(got))

	require.NoError(t, repo.Delete(ctx, scope, ports.KeyUserSession, ports.KeyJourneyState))
	for _, key := range []string{ports.KeyUserSession, ports.KeyJourneyState} {
		_, err := repo.Load(ctx, scope, key)
		assert.ErrorIs(t, err, ports.ErrNotFound)
	}
}

func TestStateRepo_RejectsUnknownKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewStateRepo(db)

	err := repo.Save(context.Background(), uuid.NewString(), "theme", []byte(`{}`))
	require.Error(t, err)
}

func TestStateRepo_PurgeIdle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	clock := NewFixedTimeProvider(testutil.TestTime())
	repo := NewStateRepoWithTimeProvider(db, clock)

	stale, fresh := uuid.NewString(), uuid.NewString()
	require.NoError(t, repo.Save(ctx, stale, ports.KeyUserSession, []byte(`{}`)))
	clock.AddTime(2 * time.Hour)
	require.NoError(t, repo.Save(ctx, fresh, ports.KeyUserSession, []byte(`{}`)))

	removed, err := repo.PurgeIdle(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.Load(ctx, stale, ports.KeyUserSession)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	_, err = repo.Load(ctx, fresh, ports.KeyUserSession)
	assert.NoError(t, err)
}

func TestStateRepo_SaveKeepsScopeRecordsTogether(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	clock := NewFixedTimeProvider(testutil.TestTime())
	repo := NewStateRepoWithTimeProvider(db, clock)
	scope := uuid.NewString()

	require.NoError(t, repo.Save(ctx, scope, ports.KeyUserSession, []byte(`{"id":"user_1"}`)))
	clock.AddTime(2 * time.Hour)
	require.NoError(t, repo.Save(ctx, scope, ports.KeyJourneyState, []byte(`{"currentStep":3}`)))

	removed, err := repo.PurgeIdle(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	_, err = repo.Load(ctx, scope, ports.KeyUserSession)
	assert.NoError(t, err)
}
