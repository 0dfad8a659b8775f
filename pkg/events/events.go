// Package events defines the payloads published to the message broker.
package events

import "time"

// TurnCompleted is emitted once per chat turn, after the AI reply is stored.
type TurnCompleted struct {
	UserMessageID uint64    `json:"user_message_id"`
	AIMessageID   uint64    `json:"ai_message_id"`
	Mode          string    `json:"mode"`
	Model         string    `json:"model"`
	PromptChars   int       `json:"prompt_chars"`
	ReplyChars    int       `json:"reply_chars"`
	Latency       string    `json:"latency"`
	CompletedAt   time.Time `json:"completed_at"`
}
