package service

import (
	"context"
	"fmt"

	"local-chat-go/internal/model"
	"local-chat-go/internal/repository"
)

// SettingsService 读取和更新唯一的设置记录。
type SettingsService interface {
	Get(ctx context.Context) (*model.ChatSettings, error)
	Update(ctx context.Context, patch model.SettingsPatch) (*model.ChatSettings, error)
}

type settingsService struct {
	chatRepo repository.ChatRepository
}

// NewSettingsService 创建一个新的 SettingsService 实例。
func NewSettingsService(chatRepo repository.ChatRepository) SettingsService {
	return &settingsService{chatRepo: chatRepo}
}

func (s *settingsService) Get(ctx context.Context) (*model.ChatSettings, error) {
	settings, err := s.chatRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: get settings: %w", ErrStore, err)
	}
	return settings, nil
}

// Update 合并补丁；未出现的字段保持原值，空补丁等价于读取。
func (s *settingsService) Update(ctx context.Context, patch model.SettingsPatch) (*model.ChatSettings, error) {
	if patch.SelectedMode != nil && !patch.SelectedMode.Valid() {
		return nil, fmt.Errorf("%w: selectedMode %q", ErrInvalidSettings, *patch.SelectedMode)
	}
	settings, err := s.chatRepo.UpdateSettings(ctx, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: update settings: %w", ErrStore, err)
	}
	return settings, nil
}
