package persistent

import (
	"context"
	"testing"

	"meow-site/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository(t *testing.T) {
	db := newTestDB(t)
	accounts := NewAccountRepository(db)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	a := createAccount(t, accounts, "a")
	b := createAccount(t, accounts, "b")
	c := createAccount(t, accounts, "c")

	require.NoError(t, repo.Create(ctx, a.ID, b.ID))
	assert.ErrorIs(t, repo.Create(ctx, a.ID, b.ID), entity.ErrAlreadyFollowing)
	require.NoError(t, repo.Create(ctx, c.ID, b.ID))
	require.NoError(t, repo.Create(ctx, b.ID, a.ID))

	exists, err := repo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, b.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	followers, err := repo.FollowerIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, c.ID}, followers)

	following, err := repo.FollowingIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, following)

	count, err := repo.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountFollowing(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	removed, err := repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
