package model

// DefaultFont 是未设置字体时使用的字体。
const DefaultFont = "Inter"

// SettingsID 是唯一一条设置记录的主键。
const SettingsID = 1

// ChatSettings 是整个会话共享的唯一偏好记录。
type ChatSettings struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	SelectedMode  Mode   `gorm:"type:varchar(16);not null;default:ollama" json:"selectedMode"`
	SelectedModel string `gorm:"type:varchar(255);not null;default:''" json:"selectedModel"`
	IsConnected   bool   `gorm:"not null;default:false" json:"isConnected"`
	SelectedFont  string `gorm:"type:varchar(64);not null;default:Inter" json:"selectedFont"`
}

func (ChatSettings) TableName() string {
	return "chat_settings"
}

// DefaultChatSettings 返回存储初始化时使用的默认设置。
func DefaultChatSettings() ChatSettings {
	return ChatSettings{
		ID:            SettingsID,
		SelectedMode:  ModeOllama,
		SelectedModel: "",
		IsConnected:   false,
		SelectedFont:  DefaultFont,
	}
}

// SettingsPatch 是设置的部分更新，nil 字段保留原值。
type SettingsPatch struct {
	SelectedMode  *Mode   `json:"selectedMode,omitempty"`
	SelectedModel *string `json:"selectedModel,omitempty"`
	IsConnected   *bool   `json:"isConnected,omitempty"`
	SelectedFont  *string `json:"selectedFont,omitempty"`
}

// Apply 将补丁合并到 current 上并返回新的完整记录，current 本身不被修改。
func (p SettingsPatch) Apply(current ChatSettings) ChatSettings {
	next := current
	next.ID = SettingsID
	if p.SelectedMode != nil {
		next.SelectedMode = *p.SelectedMode
	}
	if p.SelectedModel != nil {
		next.SelectedModel = *p.SelectedModel
	}
	if p.IsConnected != nil {
		next.IsConnected = *p.IsConnected
	}
	if p.SelectedFont != nil {
		next.SelectedFont = *p.SelectedFont
	}
	return next
}

// IsEmpty 报告补丁是否不包含任何字段。
func (p SettingsPatch) IsEmpty() bool {
	return p.SelectedMode == nil && p.SelectedModel == nil && p.IsConnected == nil && p.SelectedFont == nil
}
