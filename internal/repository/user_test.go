package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"chili/internal/models"
	"chili/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, tag string) *models.User {
	t.Helper()
	ts := time.Now().UnixNano()
	user := &models.User{
		Username: fmt.Sprintf("%s_%d", tag, ts),
		Email:    fmt.Sprintf("%s_%d@example.com", tag, ts),
		Password: "hashed-password",
		IsActive: true,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	ts := time.Now().UnixNano()
	user := &models.User{
		Username: fmt.Sprintf("alice_%d", ts),
		Email:    fmt.Sprintf("alice_%d@example.com", ts),
		Password: "hashed",
		IsActive: true,
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Username, got.Username)
		assert.True(t, got.IsActive)
	})

	t.Run("GetByUsername", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, user.Username)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("GetByEmail", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
	})
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo := NewUserRepository(testDB)

	_, err := repo.GetByID(context.Background(), 999999)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	repo := NewUserRepository(testDB)

	// Missing usernames return nil without an error so callers can decide.
	user, err := repo.GetByUsername(context.Background(), "no_such_user")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	existing := newTestUser(t, "dup")

	err := repo.Create(ctx, &models.User{
		Username: existing.Username,
		Email:    "other@example.com",
		Password: "hashed",
	})
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeConflict, appErr.Code)
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := newTestUser(t, "upd")
	user.Bio = "new bio"
	user.AvatarURL = "https://example.com/a.png"

	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new bio", got.Bio)
	assert.Equal(t, "https://example.com/a.png", got.AvatarURL)
}

func TestUserRepository_List(t *testing.T) {
	truncateTables(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		newTestUser(t, fmt.Sprintf("list%d", i))
	}

	users, err := repo.List(ctx, 3, 0)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	rest, err := repo.List(ctx, 10, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}

func TestUserRepository_GetByIDUncached(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := newTestUser(t, "fresh")

	got, err := repo.GetByIDUncached(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)
	assert.Equal(t, "hashed-password", got.Password)

	t.Run("Not found", func(t *testing.T) {
		_, err := repo.GetByIDUncached(ctx, 999999)
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestUserRepository_QueryLatencyObserved(t *testing.T) {
	repo := NewUserRepository(testDB)

	_, err := repo.List(context.Background(), 1, 0)
	require.NoError(t, err)

	count := testutil.CollectAndCount(observability.DatabaseQueryLatency,
		"chili_database_query_latency_seconds")
	assert.GreaterOrEqual(t, count, 1)
}
