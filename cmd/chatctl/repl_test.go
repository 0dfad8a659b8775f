package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"local-chat-go/internal/client"
	"local-chat-go/internal/handler"
	"local-chat-go/internal/model"
	"local-chat-go/internal/repository"
	"local-chat-go/internal/service"
	"local-chat-go/pkg/llm"
)

type echoBackend struct{ name string }

func (b echoBackend) Name() string    { return b.name }
func (b echoBackend) Address() string { return "localhost:0" }
func (b echoBackend) Generate(_ context.Context, modelName, prompt string) (string, error) {
	return modelName + " says " + prompt, nil
}
func (b echoBackend) ListModels(context.Context) ([]string, error) {
	return []string{"llama3", "mistral"}, nil
}

func startServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryChatRepository()
	backends := service.NewBackendService(map[model.Mode]llm.Backend{
		model.ModeOllama:   echoBackend{name: "Ollama"},
		model.ModeLMStudio: echoBackend{name: "LM Studio"},
	})
	r := gin.New()
	handler.RegisterRoutes(r, handler.Services{
		Chat:     service.NewChatService(repo, backends, nil),
		Backends: backends,
		Settings: service.NewSettingsService(repo),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestREPL_SendAndCommands(t *testing.T) {
	url := startServer(t)
	api := client.NewHTTPClient(url, 5*time.Second)
	ctrl := client.NewController(api)
	ctx := context.Background()
	require.NoError(t, ctrl.LoadSettings(ctx))
	require.NoError(t, ctrl.RefreshModels(ctx))

	in := strings.NewReader("Hello\n/model mistral\nAgain\n/font Lato\n/font Papyrus\n/bogus\n/quit\n")
	var out bytes.Buffer
	require.NoError(t, runREPL(ctx, ctrl, in, &out))

	text := out.String()
	assert.Contains(t, text, "llama3 says Hello")
	assert.Contains(t, text, "mistral says Again")
	assert.Contains(t, text, "unknown font")
	assert.Contains(t, text, "unknown command /bogus")

	settings, err := api.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "mistral", settings.SelectedModel)
	assert.Equal(t, "Lato", settings.SelectedFont)

	msgs, err := api.Messages(ctx)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)
}

func TestRootCommands(t *testing.T) {
	url := startServer(t)

	run := func(args ...string) string {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append([]string{"--server", url}, args...))
		require.NoError(t, rootCmd.Execute())
		return out.String()
	}

	assert.Contains(t, run("fonts"), "Source Code Pro")
	assert.Contains(t, run("send", "--model", "mistral", "Hi", "there"), "mistral says Hi there")
	assert.Contains(t, run("history"), "Hi there")
	assert.Contains(t, run("models", "ollama"), "llama3")
	assert.Contains(t, run("settings", "--font", "Roboto"), "Roboto")
	assert.Contains(t, run("settings"), "mistral")
}
