package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/utils"
)

// newTestDB opens a private in-memory sqlite database with the schema applied
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := utils.InitDB(context.Background(), utils.DBOptions{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, domain.AutoMigrate(db))

	t.Cleanup(func() { _ = utils.CloseDB(db) })
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, email, nickname string) *domain.Account {
	t.Helper()

	account := &domain.Account{Email: email, Nickname: nickname, PasswordHash: "hash"}
	require.NoError(t, NewAccountRepository(db).Create(context.Background(), account))
	return account
}

func seedPost(t *testing.T, db *gorm.DB, authorID int64, title string) *domain.Post {
	t.Helper()

	post := &domain.Post{AuthorID: authorID, Title: title, Body: "body of " + title}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	return post
}
