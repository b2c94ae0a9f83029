package usecase

import (
	"context"
	"testing"
	"time"

	"meow-site/pkg/queue"
	"meow-site/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_RequiresAdministrator(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.account(t, "alice", false)

	_, err := e.admin.Dashboard(ctx, user.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)
	_, err = e.admin.ListAccounts(ctx, user.ID, 1)
	assert.ErrorIs(t, err, entity.ErrForbidden)
	_, err = e.admin.DeleteAccount(ctx, user.ID, user.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestAdmin_Dashboard(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	admin := e.account(t, "admin", true)
	a := e.account(t, "alice", false)
	b := e.account(t, "bob", false)
	e.account(t, "carol", false)

	post := e.publish(t, a, entity.VisibilityPrivate, "diary")
	e.publish(t, b, entity.VisibilityPublic, "open")
	for _, text := range []string{"one!", "two!", "three!"} {
		_, err := e.comment.Create(ctx, viewerOf(a), post.ID, text)
		require.NoError(t, err)
	}
	_, err := e.category.Create(ctx, viewerOf(a), "Misc")
	require.NoError(t, err)

	d, err := e.admin.Dashboard(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.Accounts)
	assert.Equal(t, int64(2), d.Posts)
	assert.Equal(t, int64(3), d.Comments)
	assert.Equal(t, int64(1), d.Categories)
	assert.Len(t, d.RecentAccounts, 3)
	assert.Len(t, d.RecentPosts, 1)
	assert.Len(t, d.RecentComments, 2)
}

func TestAdmin_ListAccountsReconciles(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	admin := e.account(t, "admin", true)
	user := e.account(t, "alice", false)

	_, err := e.moderationUC.Mute(ctx, admin.ID, user.ID, intPtr(1), "")
	require.NoError(t, err)
	e.clock.Set(t0.Add(2 * time.Hour))

	page, err := e.admin.ListAccounts(ctx, admin.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	for _, a := range page.Accounts {
		require.NotNil(t, a.Moderation)
		assert.False(t, a.Moderation.Muted, a.Username)
	}
}

func TestAdmin_DeleteAccount(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	admin := e.account(t, "admin", true)
	other := e.account(t, "admin2", true)
	a := e.account(t, "alice", false)
	b := e.account(t, "bob", false)

	post := e.publish(t, b, entity.VisibilityPublic, "bob's")
	_, err := e.post.ToggleLike(ctx, viewerOf(a), post.ID)
	require.NoError(t, err)

	_, err = e.admin.DeleteAccount(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, entity.ErrProtectedAccount)
	_, err = e.admin.DeleteAccount(ctx, admin.ID, other.ID)
	assert.ErrorIs(t, err, entity.ErrProtectedAccount)

	deleted, err := e.admin.DeleteAccount(ctx, admin.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", deleted.Username)

	_, err = e.accounts.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	stored, err := e.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.LikesCount)

	assert.Contains(t, e.events.Types(), queue.EventAccountDeleted)
}
