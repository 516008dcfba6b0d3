package repository

import (
	"context"
	"errors"

	"chili/internal/cache"
	"chili/internal/models"
	"chili/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]models.Post, error)
	Feed(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
	Like(ctx context.Context, userID, postID uint) (bool, error)
	Unlike(ctx context.Context, userID, postID uint) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails adds a subquery to fetch likes_count in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		defer observability.TrackQuery("select", "posts")()

		if err := r.applyPostDetails(r.db.WithContext(ctx)).
			Preload("Author").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	var posts []models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	var posts []models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Feed returns posts authored by users the given user follows, newest first.
func (r *postRepository) Feed(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	var posts []models.Post
	followed := r.db.Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id = ?", userID)

	if err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Where("author_id IN (?)", followed).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Like inserts a like edge. The composite unique index resolves races:
// a conflicting insert affects zero rows and reports created=false.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	defer observability.TrackQuery("insert", "likes")()

	like := models.Like{UserID: userID, PostID: postID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(&like)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	cache.InvalidatePost(ctx, postID)
	return true, nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	defer observability.TrackQuery("delete", "likes")()

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	cache.InvalidatePost(ctx, postID)
	return true, nil
}
