package usecase

import (
	"context"
	"testing"

	"meow-site/pkg/queue"
	"meow-site/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow_SelfFollowRejected(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := e.account(t, "alice", false)

	_, err := e.follow.Follow(ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, entity.ErrSelfFollow)
	_, err = e.follow.Unfollow(ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, entity.ErrSelfFollow)

	count, err := e.follows.CountFollowers(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFollow_MutualOnAndOff(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := e.account(t, "alice", false)
	b := e.account(t, "bob", false)

	status, err := e.follow.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, status.IsFollowing)
	assert.False(t, status.IsMutual)
	assert.Equal(t, int64(1), status.FollowersCount)

	_, err = e.follow.Follow(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, entity.ErrAlreadyFollowing)

	_, err = e.follow.Follow(ctx, b.ID, a.ID)
	require.NoError(t, err)

	mutual, err := e.follow.IsMutual(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, mutual)

	status, err = e.follow.Unfollow(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, status.IsFollowing)

	mutual, err = e.follow.IsMutual(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, mutual)

	_, err = e.follow.Unfollow(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, entity.ErrNotFollowing)

	assert.Equal(t, []string{queue.EventUserFollowed, queue.EventUserFollowed}, e.events.Types())
}

func TestFollow_UnknownTarget(t *testing.T) {
	e := newTestEnv(t)
	a := e.account(t, "alice", false)

	_, err := e.follow.Follow(context.Background(), a.ID, "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestFollow_StatusReportsSanctions(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	admin := e.account(t, "admin", true)
	a := e.account(t, "alice", false)
	b := e.account(t, "bob", false)

	_, err := e.moderationUC.Mute(ctx, admin.ID, b.ID, nil, "")
	require.NoError(t, err)

	status, err := e.follow.Status(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, status.TargetMuted)
	assert.False(t, status.TargetBanned)
	assert.False(t, status.IsFollowing)
}
