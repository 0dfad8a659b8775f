package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"local-chat-go/internal/model"
)

// 乐观锁冲突时的最大重试次数
const maxSettingsTxAttempts = 3

// stringGetter 同时由 *redis.Client 与 *redis.Tx 满足。
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// redisChatRepository 把消息保存为 Redis 列表中的 JSON，设置保存为单个 JSON 字符串。
type redisChatRepository struct {
	redisClient *redis.Client
	keyPrefix   string
	writeMu     sync.Mutex
}

// NewRedisChatRepository 创建一个新的基于 Redis 的 ChatRepository 实例。
func NewRedisChatRepository(redisClient *redis.Client, keyPrefix string) ChatRepository {
	if keyPrefix == "" {
		keyPrefix = "localchat"
	}
	return &redisChatRepository{redisClient: redisClient, keyPrefix: keyPrefix}
}

func (r *redisChatRepository) messagesKey() string  { return r.keyPrefix + ":messages" }
func (r *redisChatRepository) messageIDKey() string { return r.keyPrefix + ":message:id" }
func (r *redisChatRepository) settingsKey() string  { return r.keyPrefix + ":settings" }

func (r *redisChatRepository) AppendMessage(ctx context.Context, content string, sender model.Sender, modelName *string, mode *model.Mode) (*model.ChatMessage, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	id, err := r.redisClient.Incr(ctx, r.messageIDKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate message id: %w", err)
	}
	msg := copyMessage(model.ChatMessage{
		ID:        uint64(id),
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
		Model:     modelName,
		Mode:      mode,
	})
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat message: %w", err)
	}
	if err := r.redisClient.RPush(ctx, r.messagesKey(), jsonData).Err(); err != nil {
		return nil, fmt.Errorf("failed to push chat message: %w", err)
	}
	return &msg, nil
}

func (r *redisChatRepository) ListMessages(ctx context.Context) ([]model.ChatMessage, error) {
	items, err := r.redisClient.LRange(ctx, r.messagesKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get chat messages: %w", err)
	}
	messages := make([]model.ChatMessage, 0, len(items))
	for _, item := range items {
		var m model.ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat message: %w", err)
		}
		messages = append(messages, m)
	}
	slices.SortStableFunc(messages, model.CompareMessages)
	return messages, nil
}

func (r *redisChatRepository) GetSettings(ctx context.Context) (*model.ChatSettings, error) {
	return r.loadSettings(ctx, r.redisClient)
}

func (r *redisChatRepository) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (*model.ChatSettings, error) {
	key := r.settingsKey()
	var updated model.ChatSettings

	txf := func(tx *redis.Tx) error {
		current, err := r.loadSettings(ctx, tx)
		if err != nil {
			return err
		}
		updated = patch.Apply(*current)
		jsonData, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("failed to marshal chat settings: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, jsonData, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxSettingsTxAttempts; attempt++ {
		err := r.redisClient.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update chat settings: %w", err)
		}
		return &updated, nil
	}
	return nil, fmt.Errorf("failed to update chat settings: %w", redis.TxFailedErr)
}

// loadSettings 读取设置，键不存在时返回默认值。
func (r *redisChatRepository) loadSettings(ctx context.Context, c stringGetter) (*model.ChatSettings, error) {
	jsonData, err := c.Get(ctx, r.settingsKey()).Result()
	if err == redis.Nil {
		s := model.DefaultChatSettings()
		return &s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat settings: %w", err)
	}
	var s model.ChatSettings
	if err := json.Unmarshal([]byte(jsonData), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat settings: %w", err)
	}
	return &s, nil
}
