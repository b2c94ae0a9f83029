package persistent

import (
	"context"
	"testing"

	"meow-site/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository(t *testing.T) {
	db := newTestDB(t)
	accounts := NewAccountRepository(db)
	posts := NewPostRepository(db)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	owner := createAccount(t, accounts, "owner")
	other := createAccount(t, accounts, "other")

	notes := &entity.Category{OwnerID: owner.ID, Name: "notes"}
	require.NoError(t, repo.Create(ctx, notes))
	assert.NotEmpty(t, notes.ID)

	assert.ErrorIs(t, repo.Create(ctx, &entity.Category{OwnerID: owner.ID, Name: "notes"}), entity.ErrCategoryExists)
	require.NoError(t, repo.Create(ctx, &entity.Category{OwnerID: other.ID, Name: "notes"}))

	diary := &entity.Category{OwnerID: owner.ID, Name: "diary"}
	require.NoError(t, repo.Create(ctx, diary))
	assert.ErrorIs(t, repo.Rename(ctx, diary.ID, "notes"), entity.ErrCategoryExists)
	require.NoError(t, repo.Rename(ctx, diary.ID, "journal"))

	list, err := repo.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "journal", list[0].Name)
	assert.Equal(t, "notes", list[1].Name)

	post := &entity.Post{AuthorID: owner.ID, Title: "t", Content: "c", Visibility: entity.VisibilityPublic, CategoryID: notes.ID}
	require.NoError(t, posts.Create(ctx, post))

	require.NoError(t, repo.Delete(ctx, notes.ID))
	stored, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.CategoryID)

	_, err = repo.GetByID(ctx, notes.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
