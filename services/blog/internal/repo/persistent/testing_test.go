package persistent

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"meow-site/pkg/models"
	"meow-site/services/blog/internal/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createAccount(t *testing.T, repo AccountRepository, username string) *entity.Account {
	t.Helper()
	account := &entity.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func createPost(t *testing.T, repo PostRepository, authorID string, visibility entity.Visibility, title string) *entity.Post {
	t.Helper()
	post := &entity.Post{
		AuthorID:   authorID,
		Title:      title,
		Content:    "content of " + title,
		Visibility: visibility,
	}
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}
