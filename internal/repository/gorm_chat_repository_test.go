package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"local-chat-go/internal/model"
	"local-chat-go/pkg/database"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestChatRepository_AppendAndList(t *testing.T) {
	repo := NewChatRepository(openTestDB(t))
	ctx := context.Background()

	user, err := repo.AppendMessage(ctx, "Hello", model.SenderUser, strPtr("llama3"), modePtr(model.ModeOllama))
	require.NoError(t, err)
	ai, err := repo.AppendMessage(ctx, "Hi there", model.SenderAI, strPtr("llama3"), modePtr(model.ModeOllama))
	require.NoError(t, err)
	assert.Less(t, user.ID, ai.ID)

	list, err := repo.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, user.ID, list[0].ID)
	assert.Equal(t, model.SenderUser, list[0].Sender)
	assert.Equal(t, model.SenderAI, list[1].Sender)
	require.NotNil(t, list[1].Mode)
	assert.Equal(t, model.ModeOllama, *list[1].Mode)
}

func TestChatRepository_NullableModelAndMode(t *testing.T) {
	repo := NewChatRepository(openTestDB(t))
	ctx := context.Background()

	_, err := repo.AppendMessage(ctx, "Hello", model.SenderUser, nil, nil)
	require.NoError(t, err)
	list, err := repo.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Model)
	assert.Nil(t, list[0].Mode)
}

func TestChatRepository_Settings(t *testing.T) {
	repo := NewChatRepository(openTestDB(t))
	ctx := context.Background()

	s, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultChatSettings(), *s)

	connected := true
	patch := model.SettingsPatch{IsConnected: &connected, SelectedFont: strPtr("Roboto")}
	once, err := repo.UpdateSettings(ctx, patch)
	require.NoError(t, err)
	twice, err := repo.UpdateSettings(ctx, patch)
	require.NoError(t, err)
	assert.Equal(t, *once, *twice)

	got, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsConnected)
	assert.Equal(t, "Roboto", got.SelectedFont)
	assert.Equal(t, model.ModeOllama, got.SelectedMode)

	unchanged, err := repo.UpdateSettings(ctx, model.SettingsPatch{})
	require.NoError(t, err)
	assert.Equal(t, *got, *unchanged)
}

func TestUserRepository_Gorm(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	u := &model.User{Username: "alice", Password: "hash"}
	require.NoError(t, repo.Create(u))
	assert.NotZero(t, u.ID)
	assert.ErrorIs(t, repo.Create(&model.User{Username: "alice", Password: "x"}), ErrUsernameTaken)

	found, err := repo.FindByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = repo.FindByUsername("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_DuplicateInsertIsUsernameTaken(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&model.User{Username: "carol", Password: "h"}).Error)

	// 绕过查重直接插入，模拟两个并发的注册请求
	err := db.Create(&model.User{Username: "carol", Password: "h"}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, createError(err), ErrUsernameTaken)
	assert.NoError(t, createError(nil))
}

func TestUserRepository_LookupFailureAbortsCreate(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = repo.Create(&model.User{Username: "dave", Password: "h"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}
