// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"local-chat-go/internal/model"
	"local-chat-go/internal/service"
	"local-chat-go/pkg/log"
)

// ChatHandler 负责消息历史与发送消息的 API。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest 定义了发送消息 API 的请求体结构。
// 必填校验交给 service 层，以便返回固定的错误文本。
type ChatRequest struct {
	Content string `json:"content"`
	Mode    string `json:"mode"`
	Model   string `json:"model"`
}

// GetMessages 返回完整的消息历史，按时间升序。
func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.chatService.GetMessages(c.Request.Context())
	if err != nil {
		log.Error("GetMessages: 读取消息失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendMessage 处理一轮对话，只返回 AI 消息。
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("SendMessage: 无效的请求体, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	turn, err := h.chatService.SendMessage(c.Request.Context(), req.Content, model.Mode(req.Mode), req.Model)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	case errors.Is(err, service.ErrInvalidMode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mode"})
		return
	default:
		log.Error("SendMessage: 处理聊天请求失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": turn.AI})
}
