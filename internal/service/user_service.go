package service

import (
	"context"

	"chili/internal/models"
	"chili/internal/repository"
	"chili/internal/validation"
)

// UserService provides profile business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput is a partial profile update. Nil fields are left
// untouched; an empty string clears the field.
type UpdateProfileInput struct {
	UserID    uint
	FullName  *string
	Bio       *string
	AvatarURL *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies a partial update to the user's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	// The row must come straight from the database: the cached copy has no
	// password hash, and Update writes every column.
	user, err := s.userRepo.GetByIDUncached(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
