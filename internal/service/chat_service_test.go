package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"local-chat-go/internal/model"
	"local-chat-go/internal/repository"
)

func TestChatService_SendMessagePersistsTwoMessages(t *testing.T) {
	repo := repository.NewMemoryChatRepository()
	pub := &recordingPublisher{}
	svc := NewChatService(repo, newBackends(&fakeBackend{name: "Ollama", reply: "Hello! How can I help you today?"}, &fakeBackend{}), pub)
	ctx := context.Background()

	turn, err := svc.SendMessage(ctx, "Hello", model.ModeOllama, "llama3")
	require.NoError(t, err)

	assert.Equal(t, model.SenderUser, turn.User.Sender)
	assert.Equal(t, "Hello", turn.User.Content)
	assert.Equal(t, model.SenderAI, turn.AI.Sender)
	assert.Equal(t, "Hello! How can I help you today?", turn.AI.Content)
	assert.Equal(t, "llama3", *turn.AI.Model)
	assert.Equal(t, model.ModeOllama, *turn.AI.Mode)
	assert.Less(t, turn.User.ID, turn.AI.ID)

	msgs, err := svc.GetMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	require.Len(t, pub.events, 1)
	assert.Equal(t, turn.AI.ID, pub.events[0].AIMessageID)
}

func TestChatService_SendMessageBackendDownStillCompletes(t *testing.T) {
	repo := repository.NewMemoryChatRepository()
	down := &fakeBackend{name: "Ollama", addr: "localhost:11434", err: errors.New("connection refused")}
	svc := NewChatService(repo, newBackends(down, &fakeBackend{}), nil)

	turn, err := svc.SendMessage(context.Background(), "Hello", model.ModeOllama, "llama3")
	require.NoError(t, err)
	assert.Contains(t, turn.AI.Content, "Failed to connect to Ollama")
}

func TestChatService_SendMessageValidation(t *testing.T) {
	repo := repository.NewMemoryChatRepository()
	backend := &fakeBackend{name: "Ollama", reply: "x"}
	svc := NewChatService(repo, newBackends(backend, &fakeBackend{}), nil)
	ctx := context.Background()

	cases := []struct {
		content, model string
		mode           model.Mode
		want           error
	}{
		{"Hello", "", "", ErrMissingFields},
		{"", "llama3", model.ModeOllama, ErrMissingFields},
		{"Hello", "", model.ModeOllama, ErrMissingFields},
		{"Hello", "llama3", "", ErrMissingFields},
		{"Hello", "llama3", model.Mode("gpt"), ErrInvalidMode},
	}
	for _, tc := range cases {
		_, err := svc.SendMessage(ctx, tc.content, tc.mode, tc.model)
		assert.ErrorIs(t, err, tc.want)
	}

	msgs, err := svc.GetMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs, "nothing may be persisted on validation failure")
	assert.Empty(t, backend.calls)
}

func TestChatService_AIPersistFailureKeepsUserMessage(t *testing.T) {
	repo := &flakyRepo{ChatRepository: repository.NewMemoryChatRepository(), failOn: 2}
	pub := &recordingPublisher{}
	svc := NewChatService(repo, newBackends(&fakeBackend{name: "Ollama", reply: "x"}, &fakeBackend{}), pub)

	_, err := svc.SendMessage(context.Background(), "Hello", model.ModeOllama, "llama3")
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, errDisk)

	msgs, err := svc.GetMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.SenderUser, msgs[0].Sender)
	assert.Empty(t, pub.events)
}

func TestChatService_PublishFailureDoesNotFailTurn(t *testing.T) {
	repo := repository.NewMemoryChatRepository()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewChatService(repo, newBackends(&fakeBackend{name: "Ollama", reply: "x"}, &fakeBackend{}), pub)

	_, err := svc.SendMessage(context.Background(), "Hello", model.ModeOllama, "llama3")
	assert.NoError(t, err)
}

func TestChatService_SendMessageSurvivesCanceledContext(t *testing.T) {
	repo := repository.NewMemoryChatRepository()
	svc := NewChatService(repo, newBackends(&fakeBackend{name: "Ollama", reply: "x"}, &fakeBackend{}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	turn, err := svc.SendMessage(ctx, "Hello", model.ModeOllama, "llama3")
	require.NoError(t, err)
	assert.Equal(t, "x", turn.AI.Content)
}

func TestChatService_GetMessagesStoreFailure(t *testing.T) {
	repo := &flakyRepo{ChatRepository: repository.NewMemoryChatRepository(), listErr: errDisk}
	svc := NewChatService(repo, newBackends(&fakeBackend{}, &fakeBackend{}), nil)
	_, err := svc.GetMessages(context.Background())
	assert.ErrorIs(t, err, ErrStore)
}
