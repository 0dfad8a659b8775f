package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"local-chat-go/internal/client"
)

var (
	serverURL string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "chatctl",
	Short: "Chat with local Ollama / LM Studio models through the chat server",
	Long: `chatctl talks to a running chat server.

Examples:
  chatctl repl                          # interactive session
  chatctl send "Hello" --model llama3   # one message
  chatctl history                       # print the conversation
  chatctl models lmstudio               # list backend models
  chatctl settings --font Lato          # change the saved font`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	SilenceUsage:      true,
}

func init() {
	defaultURL := os.Getenv("LOCALCHAT_SERVER_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:5000"
	}
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultURL, "Chat server base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 3*time.Minute, "Per-request timeout")
}

func newAPI() *client.HTTPClient {
	return client.NewHTTPClient(serverURL, timeout)
}

// newSession 创建控制器并加载服务端设置与模型列表。
func newSession(ctx context.Context) (*client.Controller, error) {
	ctrl := client.NewController(newAPI())
	if err := ctrl.LoadSettings(ctx); err != nil {
		return nil, err
	}
	if err := ctrl.RefreshModels(ctx); err != nil {
		return nil, err
	}
	return ctrl, nil
}
