package repository

import (
	"context"

	"chili/internal/models"
	"chili/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow-graph data operations
type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID uint) (*models.Follow, bool, error)
	Delete(ctx context.Context, followerID, followingID uint) (bool, error)
	Followers(ctx context.Context, userID uint) ([]models.User, error)
	Following(ctx context.Context, userID uint) ([]models.User, error)
}

// followRepository implements FollowRepository
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts a follow edge. The composite unique index resolves races:
// a conflicting insert affects zero rows and reports created=false.
func (r *followRepository) Create(ctx context.Context, followerID, followingID uint) (*models.Follow, bool, error) {
	defer observability.TrackQuery("insert", "follows")()

	follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).
		Create(&follow)
	if result.Error != nil {
		return nil, false, models.NewInternalError(result.Error)
	}
	return &follow, result.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uint) (bool, error) {
	defer observability.TrackQuery("delete", "follows")()

	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	defer observability.TrackQuery("select", "follows")()

	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON users.id = f.follower_id").
		Where("f.following_id = ?", userID).
		Order("f.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) Following(ctx context.Context, userID uint) ([]models.User, error) {
	defer observability.TrackQuery("select", "follows")()

	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON users.id = f.following_id").
		Where("f.follower_id = ?", userID).
		Order("f.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
