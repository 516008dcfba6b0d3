package service

import (
	"context"

	"chili/internal/models"
	"chili/internal/observability"
	"chili/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// PostService provides post and like business logic.
type PostService struct {
	postRepo repository.PostRepository
}

// CreatePostInput carries the fields needed to publish a post. The media
// file has already been stored by the handler.
type CreatePostInput struct {
	AuthorID  uint
	Caption   string
	MediaURL  string
	MediaType string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.CreatePost")
	defer span.End()

	if in.MediaURL == "" {
		return nil, models.NewValidationError("Media is required")
	}
	if in.MediaType != models.MediaTypeImage && in.MediaType != models.MediaTypeVideo {
		return nil, models.NewValidationError("Unsupported media type")
	}

	post := &models.Post{
		AuthorID:  in.AuthorID,
		Caption:   in.Caption,
		MediaURL:  in.MediaURL,
		MediaType: in.MediaType,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int64("post.id", int64(post.ID)))

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.postRepo.List(ctx, limit, offset)
}

func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]models.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID, limit, offset)
}

// Feed returns posts from users the given user follows, newest first.
// A user who follows nobody gets an empty feed.
func (s *PostService) Feed(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.Feed")
	defer span.End()
	span.AddAttributes(attribute.Int64("user.id", int64(userID)))

	posts, err := s.postRepo.Feed(ctx, userID, limit, offset)
	if err != nil {
		span.SetError(err)
	}
	return posts, err
}

// LikePost records a like. Liking an already-liked post is a conflict.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}

	created, err := s.postRepo.Like(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !created {
		return models.NewConflictError("Post already liked")
	}

	return nil
}

// UnlikePost removes a like. Unliking a post that was never liked is a
// conflict, not a missing resource.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}

	deleted, err := s.postRepo.Unlike(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewConflictError("Post not liked")
	}

	return nil
}
