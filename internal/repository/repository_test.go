package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Dayavats/samvaad/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.UserModel{},
		&domain.ConversationModel{},
		&domain.MessageModel{},
		&domain.PostModel{},
		&domain.StoryModel{},
	))
	return db
}

func createTestUser(t *testing.T, repo UserRepository, name, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         domain.RoleBroken,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}
