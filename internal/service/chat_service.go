package service

import (
	"context"
	"fmt"
	"time"

	"local-chat-go/internal/model"
	"local-chat-go/internal/repository"
	"local-chat-go/pkg/events"
	"local-chat-go/pkg/kafka"
	"local-chat-go/pkg/log"
)

// Turn 是一轮对话：用户消息及其对应的 AI 回复。
type Turn struct {
	User *model.ChatMessage
	AI   *model.ChatMessage
}

// ChatService 定义了聊天操作的接口。
type ChatService interface {
	SendMessage(ctx context.Context, content string, mode model.Mode, modelName string) (*Turn, error)
	GetMessages(ctx context.Context) ([]model.ChatMessage, error)
}

type chatService struct {
	chatRepo  repository.ChatRepository
	backends  BackendService
	publisher kafka.Publisher
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(chatRepo repository.ChatRepository, backends BackendService, publisher kafka.Publisher) ChatService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &chatService{
		chatRepo:  chatRepo,
		backends:  backends,
		publisher: publisher,
	}
}

// SendMessage 处理一轮对话：保存用户消息、调用后端、保存 AI 回复。
// 没有回滚：第 3、4 步失败时，已保存的用户消息会保留。
func (s *chatService) SendMessage(ctx context.Context, content string, mode model.Mode, modelName string) (*Turn, error) {
	// 1. 校验，失败时不写入任何数据
	if content == "" || mode == "" || modelName == "" {
		return nil, ErrMissingFields
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	// 后端调用一旦发出就不可取消，客户端断开也要把这一轮写完
	ctx = context.WithoutCancel(ctx)
	started := time.Now()

	// 2. 保存用户消息
	userMsg, err := s.chatRepo.AppendMessage(ctx, content, model.SenderUser, model.OptionalString(modelName), model.OptionalMode(mode))
	if err != nil {
		return nil, fmt.Errorf("%w: save user message: %w", ErrStore, err)
	}

	// 3. 调用后端，连接失败已被改写为普通文本
	reply, err := s.backends.Invoke(ctx, mode, modelName, content)
	if err != nil {
		return nil, err
	}

	// 4. 保存 AI 回复
	aiMsg, err := s.chatRepo.AppendMessage(ctx, reply, model.SenderAI, model.OptionalString(modelName), model.OptionalMode(mode))
	if err != nil {
		return nil, fmt.Errorf("%w: save ai message: %w", ErrStore, err)
	}

	latency := time.Since(started)
	log.Infow("chat turn completed",
		"mode", mode,
		"model", modelName,
		"userMessageID", userMsg.ID,
		"aiMessageID", aiMsg.ID,
		"latency", latency.String(),
	)

	// 事件投递失败只记录日志，不影响本轮结果
	if err := s.publisher.PublishTurn(ctx, events.TurnCompleted{
		UserMessageID: userMsg.ID,
		AIMessageID:   aiMsg.ID,
		Mode:          string(mode),
		Model:         modelName,
		PromptChars:   len(content),
		ReplyChars:    len(reply),
		Latency:       latency.String(),
		CompletedAt:   aiMsg.Timestamp,
	}); err != nil {
		log.Errorf("Failed to publish turn event: %v", err)
	}

	return &Turn{User: userMsg, AI: aiMsg}, nil
}

// GetMessages 返回按时间排序的完整消息历史。
func (s *chatService) GetMessages(ctx context.Context) ([]model.ChatMessage, error) {
	messages, err := s.chatRepo.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %w", ErrStore, err)
	}
	return messages, nil
}
