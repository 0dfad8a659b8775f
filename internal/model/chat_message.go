// Package model 包含了应用的数据模型定义。
package model

import (
	"fmt"
	"time"
)

// Sender 标识消息的发送方。
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Mode 选择处理请求的本地模型后端。
type Mode string

const (
	// ModeOllama 是 generate 风格的后端。
	ModeOllama Mode = "ollama"
	// ModeLMStudio 是 OpenAI 兼容的 chat-completions 后端。
	ModeLMStudio Mode = "lmstudio"
)

// Modes 按固定顺序列出所有已知模式。
var Modes = []Mode{ModeOllama, ModeLMStudio}

// Valid 报告 m 是否为已知模式。
func (m Mode) Valid() bool {
	return m == ModeOllama || m == ModeLMStudio
}

// ParseMode 将字符串解析为 Mode，未知值返回错误。
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q", s)
	}
	return m, nil
}

// ChatMessage 代表一条已持久化的聊天消息，创建后不可修改。
type ChatMessage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Sender    Sender    `gorm:"type:varchar(16);not null" json:"sender"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	Model     *string   `gorm:"type:varchar(255)" json:"model"`
	Mode      *Mode     `gorm:"type:varchar(16)" json:"mode"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// Less 定义消息的展示顺序：时间戳升序，时间戳相同则按 ID 升序。
func (m ChatMessage) Less(other ChatMessage) bool {
	if !m.Timestamp.Equal(other.Timestamp) {
		return m.Timestamp.Before(other.Timestamp)
	}
	return m.ID < other.ID
}

// CompareMessages 供 slices.SortFunc 使用。
func CompareMessages(a, b ChatMessage) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

// OptionalString 将空字符串转为 nil。
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// OptionalMode 将空模式转为 nil。
func OptionalMode(m Mode) *Mode {
	if m == "" {
		return nil
	}
	return &m
}

// ModelList 是模型发现接口的结果。
type ModelList struct {
	Models    []string `json:"models"`
	Connected bool     `json:"connected"`
	Error     string   `json:"error,omitempty"`
}
