package service

import (
	"context"
	"testing"

	"chili/internal/models"
	"chili/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostService() *PostService {
	return NewPostService(repository.NewPostRepository(testDB))
}

func TestPostService_CreatePost(t *testing.T) {
	svc := newPostService()
	ctx := context.Background()

	author := createUser(t, "ps1")

	post, err := svc.CreatePost(ctx, CreatePostInput{
		AuthorID:  author.ID,
		Caption:   "first light",
		MediaURL:  "/uploads/abc.jpg",
		MediaType: models.MediaTypeImage,
	})
	require.NoError(t, err)
	assert.Equal(t, author.ID, post.AuthorID)
	assert.Equal(t, "first light", post.Caption)
	assert.Equal(t, 0, post.LikesCount)
	assert.Equal(t, author.Username, post.Author.Username)

	t.Run("Missing media is rejected", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, CreatePostInput{
			AuthorID:  author.ID,
			MediaType: models.MediaTypeImage,
		})
		require.Error(t, err)
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("Unknown media type is rejected", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, CreatePostInput{
			AuthorID:  author.ID,
			MediaURL:  "/uploads/abc.gifv",
			MediaType: "gifv",
		})
		require.Error(t, err)
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestPostService_LikeUnlike(t *testing.T) {
	svc := newPostService()
	ctx := context.Background()

	author := createUser(t, "pl1")
	liker := createUser(t, "pl2")

	post, err := svc.CreatePost(ctx, CreatePostInput{
		AuthorID:  author.ID,
		MediaURL:  "/uploads/like.jpg",
		MediaType: models.MediaTypeImage,
	})
	require.NoError(t, err)

	require.NoError(t, svc.LikePost(ctx, liker.ID, post.ID))

	liked, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.LikesCount)

	t.Run("Double like is a conflict", func(t *testing.T) {
		err := svc.LikePost(ctx, liker.ID, post.ID)
		require.Error(t, err)
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("Like on missing post is not found", func(t *testing.T) {
		err := svc.LikePost(ctx, liker.ID, 999999)
		require.Error(t, err)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	require.NoError(t, svc.UnlikePost(ctx, liker.ID, post.ID))

	unliked, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.LikesCount)

	t.Run("Unlike without like is a conflict", func(t *testing.T) {
		err := svc.UnlikePost(ctx, liker.ID, post.ID)
		require.Error(t, err)
		assertAppErrorCode(t, err, models.CodeConflict)
	})
}

func TestPostService_Feed(t *testing.T) {
	postSvc := newPostService()
	followSvc := newFollowService()
	ctx := context.Background()

	viewer := createUser(t, "pf1")
	followed := createUser(t, "pf2")

	_, err := postSvc.CreatePost(ctx, CreatePostInput{
		AuthorID:  followed.ID,
		MediaURL:  "/uploads/feed.jpg",
		MediaType: models.MediaTypeImage,
	})
	require.NoError(t, err)

	// No follows yet: the feed is empty, not an error.
	feed, err := postSvc.Feed(ctx, viewer.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)

	_, err = followSvc.Follow(ctx, viewer.ID, followed.ID)
	require.NoError(t, err)

	feed, err = postSvc.Feed(ctx, viewer.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, followed.ID, feed[0].AuthorID)
}
