package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"local-chat-go/internal/config"
	"local-chat-go/internal/model"
)

func TestOpenStores_Memory(t *testing.T) {
	s, err := openStores(context.Background(), config.StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	defer s.Close()

	settings, err := s.Chat.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultChatSettings(), *settings)
}

func TestOpenStores_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.db")
	s, err := openStores(context.Background(), config.StorageConfig{Driver: "sqlite", SQLite: config.SQLiteConfig{Path: path}})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Chat.AppendMessage(context.Background(), "Hello", model.SenderUser, nil, nil)
	require.NoError(t, err)
	msgs, err := s.Chat.ListMessages(context.Background())
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	_, err := openStores(context.Background(), config.StorageConfig{Driver: "cassandra"})
	assert.Error(t, err)
}
