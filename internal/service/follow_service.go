package service

import (
	"context"

	"chili/internal/models"
	"chili/internal/observability"
	"chili/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FollowService provides follow-graph business logic.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow creates a follow edge from userID to targetUserID and returns it.
// Self-follows are rejected here so no transport can bypass the check.
// Following an already-followed user is a conflict.
func (s *FollowService) Follow(ctx context.Context, userID, targetUserID uint) (*models.Follow, error) {
	span, ctx := observability.NewSpan(ctx, "FollowService.Follow")
	defer span.End()
	span.AddAttributes(
		attribute.Int64("follow.follower_id", int64(userID)),
		attribute.Int64("follow.following_id", int64(targetUserID)),
	)

	if userID == targetUserID {
		return nil, models.NewValidationError("Cannot follow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	follow, created, err := s.followRepo.Create(ctx, userID, targetUserID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if !created {
		return nil, models.NewConflictError("Already following this user")
	}

	return follow, nil
}

// Unfollow removes the follow edge from userID to targetUserID.
// Unfollowing without an existing edge is a conflict, not a missing resource.
func (s *FollowService) Unfollow(ctx context.Context, userID, targetUserID uint) error {
	span, ctx := observability.NewSpan(ctx, "FollowService.Unfollow")
	defer span.End()
	span.AddAttributes(
		attribute.Int64("follow.follower_id", int64(userID)),
		attribute.Int64("follow.following_id", int64(targetUserID)),
	)

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return err
	}

	deleted, err := s.followRepo.Delete(ctx, userID, targetUserID)
	if err != nil {
		span.SetError(err)
		return err
	}
	if !deleted {
		return models.NewConflictError("Not following this user")
	}

	return nil
}

// Followers returns the users following the given user.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID)
}

// Following returns the users the given user follows.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, userID)
}
