package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"local-chat-go/internal/model"
)

// memoryChatRepository 把所有数据保存在进程内存中，进程退出即丢失。
type memoryChatRepository struct {
	mu       sync.RWMutex
	messages []model.ChatMessage
	settings model.ChatSettings
	nextID   uint64
	now      func() time.Time
}

// NewMemoryChatRepository 创建一个带默认设置的内存会话存储。
func NewMemoryChatRepository() ChatRepository {
	return newMemoryChatRepository(time.Now)
}

func newMemoryChatRepository(now func() time.Time) *memoryChatRepository {
	return &memoryChatRepository{
		settings: model.DefaultChatSettings(),
		nextID:   1,
		now:      now,
	}
}

func (r *memoryChatRepository) AppendMessage(_ context.Context, content string, sender model.Sender, modelName *string, mode *model.Mode) (*model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := copyMessage(model.ChatMessage{
		ID:        r.nextID,
		Content:   content,
		Sender:    sender,
		Timestamp: r.now(),
		Model:     modelName,
		Mode:      mode,
	})
	r.nextID++
	r.messages = append(r.messages, msg)

	out := copyMessage(msg)
	return &out, nil
}

func (r *memoryChatRepository) ListMessages(_ context.Context) ([]model.ChatMessage, error) {
	r.mu.RLock()
	out := make([]model.ChatMessage, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, copyMessage(m))
	}
	r.mu.RUnlock()

	slices.SortStableFunc(out, model.CompareMessages)
	return out, nil
}

func (r *memoryChatRepository) GetSettings(_ context.Context) (*model.ChatSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.settings
	return &s, nil
}

func (r *memoryChatRepository) UpdateSettings(_ context.Context, patch model.SettingsPatch) (*model.ChatSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = patch.Apply(r.settings)
	s := r.settings
	return &s, nil
}
