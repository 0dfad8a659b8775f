// Package client 是聊天服务的客户端：HTTP 访问层与界面状态控制器。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"local-chat-go/internal/model"
)

// API 是控制器依赖的服务端接口。
type API interface {
	Messages(ctx context.Context) ([]model.ChatMessage, error)
	Send(ctx context.Context, content string, mode model.Mode, modelName string) (*model.ChatMessage, error)
	Settings(ctx context.Context) (*model.ChatSettings, error)
	UpdateSettings(ctx context.Context, patch model.SettingsPatch) (*model.ChatSettings, error)
	Models(ctx context.Context, mode model.Mode) (*model.ModelList, error)
}

// APIError 是服务端返回的非 2xx 响应。
type APIError struct {
	StatusCode int
	Message    string
	Details    json.RawMessage
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// HTTPClient 通过 HTTP 调用聊天服务。
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient 创建指向 baseURL 的客户端，timeout 为 0 表示不限时。
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Messages(ctx context.Context) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	if err := c.do(ctx, http.MethodGet, "/api/messages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Send(ctx context.Context, content string, mode model.Mode, modelName string) (*model.ChatMessage, error) {
	req := map[string]string{"content": content, "mode": string(mode), "model": modelName}
	var out struct {
		Message model.ChatMessage `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chat", req, &out); err != nil {
		return nil, err
	}
	return &out.Message, nil
}

func (c *HTTPClient) Settings(ctx context.Context) (*model.ChatSettings, error) {
	var out model.ChatSettings
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (*model.ChatSettings, error) {
	var out model.ChatSettings
	if err := c.do(ctx, http.MethodPost, "/api/settings", patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Models(ctx context.Context, mode model.Mode) (*model.ModelList, error) {
	var out model.ModelList
	if err := c.do(ctx, http.MethodGet, "/api/models/"+url.PathEscape(string(mode)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error   string          `json:"error"`
			Details json.RawMessage `json:"details"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error, Details: e.Details}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
