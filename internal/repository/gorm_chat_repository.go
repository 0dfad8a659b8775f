package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"local-chat-go/internal/model"
)

// chatRepository 是 ChatRepository 接口的 GORM 实现，适用于 SQLite 和 MySQL。
type chatRepository struct {
	db *gorm.DB
	// 写锁保证同一进程内的插入顺序与时间戳顺序一致
	writeMu sync.Mutex
}

// NewChatRepository 创建一个新的基于 GORM 的 ChatRepository 实例。
// 调用方需要事先完成 chat_messages 与 chat_settings 表的迁移。
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) AppendMessage(ctx context.Context, content string, sender model.Sender, modelName *string, mode *model.Mode) (*model.ChatMessage, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	msg := copyMessage(model.ChatMessage{
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
		Model:     modelName,
		Mode:      mode,
	})
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to create chat message: %w", err)
	}
	return &msg, nil
}

func (r *chatRepository) ListMessages(ctx context.Context) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.WithContext(ctx).Order("timestamp asc").Order("id asc").Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}

func (r *chatRepository) GetSettings(ctx context.Context) (*model.ChatSettings, error) {
	settings, err := ensureSettings(r.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *chatRepository) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (*model.ChatSettings, error) {
	var updated model.ChatSettings
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := ensureSettings(tx)
		if err != nil {
			return err
		}
		updated = patch.Apply(*current)
		if err := tx.Save(&updated).Error; err != nil {
			return fmt.Errorf("failed to save chat settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ensureSettings 读取唯一的设置行，不存在时以默认值创建。
func ensureSettings(db *gorm.DB) (*model.ChatSettings, error) {
	var settings model.ChatSettings
	err := db.Where("id = ?", model.SettingsID).
		Attrs(model.DefaultChatSettings()).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load chat settings: %w", err)
	}
	return &settings, nil
}
