package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

func TestPostRepository_GetByIDLoadsAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedAccount(t, db, "a@example.com", "alpha")
	post := seedPost(t, db, author.ID, "hello")

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Title)
	require.NotNil(t, got.Author)
	assert.Equal(t, "alpha", got.Author.Nickname)

	_, err = repo.GetByID(ctx, post.ID+100)
	assert.True(t, domain.IsNotFound(err))
}

func TestPostRepository_ListPaginatesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedAccount(t, db, "a@example.com", "alpha")
	other := seedAccount(t, db, "b@example.com", "beta")
	for i := 1; i <= 5; i++ {
		seedPost(t, db, author.ID, fmt.Sprintf("post %d", i))
	}
	seedPost(t, db, other.ID, "other")

	posts, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, posts, 2)
	assert.Equal(t, "other", posts[0].Title)
	assert.Equal(t, "post 5", posts[1].Title)

	posts, total, err = repo.ListByAuthor(ctx, author.ID, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "post 1", posts[0].Title)
}

func TestPostRepository_UpdateAndSoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedAccount(t, db, "a@example.com", "alpha")
	post := seedPost(t, db, author.ID, "draft")

	require.NoError(t, repo.Update(ctx, post.ID, map[string]interface{}{"title": "final"}))
	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, "body of draft", got.Body)

	require.NoError(t, repo.SoftDelete(ctx, post.ID))

	_, err = repo.GetByID(ctx, post.ID)
	assert.True(t, domain.IsNotFound(err))

	_, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)

	assert.True(t, domain.IsNotFound(repo.SoftDelete(ctx, post.ID)))
	assert.True(t, domain.IsNotFound(repo.Update(ctx, post.ID, map[string]interface{}{"title": "x"})))
}
