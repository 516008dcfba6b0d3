package service

import (
	"context"
	"strings"
	"testing"

	"chili/internal/cache"
	"chili/internal/models"
	"chili/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService() *UserService {
	return NewUserService(repository.NewUserRepository(testDB))
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	user := createUser(t, "us1")

	bio := "travel photos and chili recipes"
	avatar := "https://example.com/avatar.png"

	updated, err := svc.UpdateProfile(ctx, UpdateProfileInput{
		UserID:    user.ID,
		Bio:       &bio,
		AvatarURL: &avatar,
	})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, avatar, updated.AvatarURL)

	t.Run("Nil fields are untouched", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID})
		require.NoError(t, err)
		assert.Equal(t, bio, updated.Bio)
		assert.Equal(t, avatar, updated.AvatarURL)
	})

	t.Run("Empty string clears the field", func(t *testing.T) {
		empty := ""
		updated, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID, Bio: &empty})
		require.NoError(t, err)
		assert.Empty(t, updated.Bio)
		assert.Equal(t, avatar, updated.AvatarURL)
	})

	t.Run("Oversized bio is rejected", func(t *testing.T) {
		long := strings.Repeat("a", 501)
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID, Bio: &long})
		require.Error(t, err)
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("Unknown user is not found", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 999999})
		require.Error(t, err)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestUserService_UpdateProfile_KeepsPasswordAfterCachedRead(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	svc := newUserService()
	ctx := context.Background()

	user := createUser(t, "ucache")

	// A profile view populates the cache with the password-less JSON copy.
	_, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)

	name := "Cache Survivor"
	_, err = svc.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID, FullName: &name})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, testDB.First(&stored, user.ID).Error)
	assert.Equal(t, "Cache Survivor", stored.FullName)
	assert.Equal(t, user.Password, stored.Password)
}

func TestUserService_ListUsers(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	createUser(t, "ul1")
	createUser(t, "ul2")

	users, err := svc.ListUsers(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
