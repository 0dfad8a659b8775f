// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"

	"local-chat-go/internal/model"
)

// ChatRepository 是会话存储：按时间顺序保存消息，并持有唯一的设置记录。
// 所有实现都必须串行化写操作，以保证 ID 单调递增。
type ChatRepository interface {
	// AppendMessage 分配下一个 ID 和当前时间戳，保存并返回存储后的副本。
	AppendMessage(ctx context.Context, content string, sender model.Sender, modelName *string, mode *model.Mode) (*model.ChatMessage, error)
	// ListMessages 按时间戳升序（ID 升序作为次序）返回全部消息。
	ListMessages(ctx context.Context) ([]model.ChatMessage, error)
	// GetSettings 返回当前设置。
	GetSettings(ctx context.Context) (*model.ChatSettings, error)
	// UpdateSettings 将补丁合并到当前设置上，返回合并后的完整记录。
	UpdateSettings(ctx context.Context, patch model.SettingsPatch) (*model.ChatSettings, error)
}

func copyMessage(m model.ChatMessage) model.ChatMessage {
	if m.Model != nil {
		v := *m.Model
		m.Model = &v
	}
	if m.Mode != nil {
		v := *m.Mode
		m.Mode = &v
	}
	return m
}
