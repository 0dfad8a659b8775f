package service

import (
	"context"
	"errors"
	"fmt"

	"local-chat-go/internal/model"
	"local-chat-go/pkg/llm"
	"local-chat-go/pkg/log"
)

// FallbackReply 在后端成功响应但没有文本时作为 AI 回复。
const FallbackReply = "Sorry, I couldn't generate a response."

// BackendService 把统一的聊天请求翻译为具体后端的调用。
// 连接类错误不会向上传播，而是被改写成一条可读的 AI 回复。
type BackendService interface {
	Invoke(ctx context.Context, mode model.Mode, modelName, content string) (string, error)
	ListModels(ctx context.Context, mode model.Mode) (*model.ModelList, error)
}

type backendService struct {
	backends map[model.Mode]llm.Backend
}

// NewBackendService 创建一个新的 BackendService 实例。
func NewBackendService(backends map[model.Mode]llm.Backend) BackendService {
	return &backendService{backends: backends}
}

// UnavailableReply 是后端不可达时写入会话的文本。
func UnavailableReply(b llm.Backend) string {
	return fmt.Sprintf("Failed to connect to %s. Please ensure %s is running on %s.", b.Name(), b.Name(), b.Address())
}

func (s *backendService) backend(mode model.Mode) (llm.Backend, error) {
	b, ok := s.backends[mode]
	if !ok || !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	return b, nil
}

// Invoke 调用 mode 对应的后端。只有 mode 非法时才返回错误。
func (s *backendService) Invoke(ctx context.Context, mode model.Mode, modelName, content string) (string, error) {
	b, err := s.backend(mode)
	if err != nil {
		return "", err
	}

	reply, err := b.Generate(ctx, modelName, content)
	if errors.Is(err, llm.ErrEmptyResponse) {
		log.Warnw("backend returned no text", "backend", b.Name(), "model", modelName)
		return FallbackReply, nil
	}
	if err != nil {
		log.Warnw("backend call failed", "backend", b.Name(), "model", modelName, "error", err)
		return UnavailableReply(b), nil
	}
	return reply, nil
}

// ListModels 查询后端的模型列表，任何失败都折叠为 connected=false。
func (s *backendService) ListModels(ctx context.Context, mode model.Mode) (*model.ModelList, error) {
	b, err := s.backend(mode)
	if err != nil {
		return nil, err
	}

	models, err := b.ListModels(ctx)
	if err != nil {
		log.Warnw("model discovery failed", "backend", b.Name(), "error", err)
		return &model.ModelList{
			Models:    []string{},
			Connected: false,
			Error:     b.Name() + " not available",
		}, nil
	}
	if models == nil {
		models = []string{}
	}
	return &model.ModelList{Models: models, Connected: true}, nil
}
