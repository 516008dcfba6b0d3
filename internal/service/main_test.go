package service

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"chili/internal/database"
	"chili/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")

	var err error
	testDB, err = gorm.Open(sqlite.Open("file:service_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(testDB); err != nil {
		log.Fatalf("failed to migrate test database: %v", err)
	}

	os.Exit(m.Run())
}

func createUser(t *testing.T, tag string) *models.User {
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
