package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"local-chat-go/internal/handler"
	"local-chat-go/internal/model"
	"local-chat-go/internal/repository"
	"local-chat-go/internal/service"
	"local-chat-go/pkg/llm"
)

type stubBackend struct {
	name   string
	models []string
	err    error
}

func (b stubBackend) Name() string    { return b.name }
func (b stubBackend) Address() string { return "localhost:0" }
func (b stubBackend) Generate(_ context.Context, _, prompt string) (string, error) {
	return "echo: " + prompt, b.err
}
func (b stubBackend) ListModels(context.Context) ([]string, error) { return b.models, b.err }

func newTestClient(t *testing.T) *HTTPClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryChatRepository()
	backends := service.NewBackendService(map[model.Mode]llm.Backend{
		model.ModeOllama:   stubBackend{name: "Ollama", models: []string{"llama3"}},
		model.ModeLMStudio: stubBackend{name: "LM Studio", err: errors.New("down")},
	})
	r := gin.New()
	handler.RegisterRoutes(r, handler.Services{
		Chat:     service.NewChatService(repo, backends, nil),
		Backends: backends,
		Settings: service.NewSettingsService(repo),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/", 0)
}

func TestHTTPClient_EndToEnd(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	msg, err := c.Send(ctx, "Hello", model.ModeOllama, "llama3")
	require.NoError(t, err)
	assert.Equal(t, "echo: Hello", msg.Content)
	assert.Equal(t, model.SenderAI, msg.Sender)

	msgs, err := c.Messages(ctx)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	list, err := c.Models(ctx, model.ModeLMStudio)
	require.NoError(t, err)
	assert.False(t, list.Connected)
	assert.Equal(t, "LM Studio not available", list.Error)

	font := "Lato"
	s, err := c.UpdateSettings(ctx, model.SettingsPatch{SelectedFont: &font})
	require.NoError(t, err)
	assert.Equal(t, "Lato", s.SelectedFont)

	got, err := c.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, *s, *got)
}

func TestHTTPClient_APIError(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Send(context.Background(), "Hello", "", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "Missing required fields", apiErr.Message)

	_, err = c.Models(context.Background(), model.Mode("invalid"))
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid mode", apiErr.Message)
}

func TestController_WithHTTPClient(t *testing.T) {
	ctrl := NewController(newTestClient(t))
	ctx := context.Background()

	require.NoError(t, ctrl.LoadSettings(ctx))
	require.NoError(t, ctrl.RefreshModels(ctx))
	sent, err := ctrl.Send(ctx, "Hi")
	require.NoError(t, err)
	assert.True(t, sent)

	v := ctrl.View()
	require.Len(t, v.Messages, 2)
	assert.Equal(t, "echo: Hi", v.Messages[1].Content)
}
