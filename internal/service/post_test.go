package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/repository"
)

func newPostService(env *testEnv) (*PostService, *LikeService) {
	posts := repository.NewPostRepository(env.db)
	likes := repository.NewLikeRepository(env.db)
	comments := repository.NewCommentRepository(env.db)
	return NewPostService(posts, likes), NewLikeService(likes, comments)
}

func TestPostService_CreateAndGet(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	authorID := env.registerVerified(t, "a@example.com", "alpha")
	readerID := env.registerVerified(t, "b@example.com", "beta")
	author := &domain.Principal{ID: authorID}
	reader := &domain.Principal{ID: readerID}

	posts, likes := newPostService(env)

	_, err := posts.Create(ctx, nil, CreatePostRequest{Title: "t", Body: "b"})
	assert.True(t, domain.IsUnauthorized(err))

	_, err = posts.Create(ctx, author, CreatePostRequest{Title: "  ", Body: "b"})
	assert.True(t, domain.IsValidation(err))

	post, err := posts.Create(ctx, author, CreatePostRequest{Title: "first", Body: "hello"})
	require.NoError(t, err)

	_, err = likes.TogglePost(ctx, reader, post.ID)
	require.NoError(t, err)

	anonymous, err := posts.Get(ctx, nil, post.ID)
	require.NoError(t, err)
	assert.False(t, anonymous.LikedByMe)
	assert.Equal(t, 1, anonymous.Post.LikeCount)
	require.NotNil(t, anonymous.Post.Author)
	assert.Equal(t, "alpha", anonymous.Post.Author.Nickname)

	seen, err := posts.Get(ctx, reader, post.ID)
	require.NoError(t, err)
	assert.True(t, seen.LikedByMe)

	own, err := posts.Get(ctx, author, post.ID)
	require.NoError(t, err)
	assert.False(t, own.LikedByMe)

	_, err = posts.Get(ctx, nil, post.ID+100)
	assert.True(t, domain.IsNotFound(err))
}

func TestPostService_OnlyAuthorMayModify(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	author := &domain.Principal{ID: env.registerVerified(t, "a@example.com", "alpha")}
	other := &domain.Principal{ID: env.registerVerified(t, "b@example.com", "beta")}

	posts, _ := newPostService(env)
	post, err := posts.Create(ctx, author, CreatePostRequest{Title: "draft", Body: "body"})
	require.NoError(t, err)

	title := "hijacked"
	_, err = posts.Update(ctx, other, post.ID, UpdatePostRequest{Title: &title})
	assert.True(t, domain.IsForbidden(err), "got %v", err)

	assert.True(t, domain.IsForbidden(posts.Delete(ctx, other, post.ID)))
	assert.True(t, domain.IsUnauthorized(posts.Delete(ctx, nil, post.ID)))

	title = "final"
	updated, err := posts.Update(ctx, author, post.ID, UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "body", updated.Body)

	empty := ""
	_, err = posts.Update(ctx, author, post.ID, UpdatePostRequest{Body: &empty})
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, posts.Delete(ctx, author, post.ID))
	_, err = posts.Get(ctx, nil, post.ID)
	assert.True(t, domain.IsNotFound(err))
	assert.True(t, domain.IsNotFound(posts.Delete(ctx, author, post.ID)))
}

func TestPostService_ListPages(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	author := &domain.Principal{ID: env.registerVerified(t, "a@example.com", "alpha")}
	other := &domain.Principal{ID: env.registerVerified(t, "b@example.com", "beta")}

	posts, _ := newPostService(env)
	for i := 1; i <= 5; i++ {
		_, err := posts.Create(ctx, author, CreatePostRequest{Title: fmt.Sprintf("post %d", i), Body: "b"})
		require.NoError(t, err)
	}
	_, err := posts.Create(ctx, other, CreatePostRequest{Title: "other", Body: "b"})
	require.NoError(t, err)

	page, err := posts.List(ctx, PageRequest{Page: 2, Take: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(6), page.TotalCount)
	assert.Equal(t, 2, page.TotalPage)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "post 2", page.Items[0].Title)

	mine, err := posts.ListMine(ctx, other, PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.TotalCount)
	assert.Equal(t, 1, mine.TotalPage)
	assert.Equal(t, "other", mine.Items[0].Title)

	_, err = posts.ListMine(ctx, nil, PageRequest{})
	assert.True(t, domain.IsUnauthorized(err))

	empty, err := posts.List(ctx, PageRequest{Page: 10, Take: 4})
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}

func TestPageRequest_NormalizeFromPostTests(t *testing.T) {
	tests := []struct {
		name   string
		in     PageRequest
		want   PageRequest
		offset int
	}{
		{name: "zero value", in: PageRequest{}, want: PageRequest{Page: 1, Take: 20}, offset: 0},
		{name: "third page", in: PageRequest{Page: 3, Take: 10}, want: PageRequest{Page: 3, Take: 10}, offset: 20},
		{name: "take capped", in: PageRequest{Page: 1, Take: 500}, want: PageRequest{Page: 1, Take: 100}, offset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.normalize()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.offset, got.offset())
		})
	}
}
