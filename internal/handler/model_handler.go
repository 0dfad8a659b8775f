package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"local-chat-go/internal/model"
	"local-chat-go/internal/service"
	"local-chat-go/pkg/log"
)

// ModelHandler 负责后端模型列表的 API。
type ModelHandler struct {
	backendService service.BackendService
}

// NewModelHandler 创建一个新的 ModelHandler 实例。
func NewModelHandler(backendService service.BackendService) *ModelHandler {
	return &ModelHandler{backendService: backendService}
}

// ListModels 返回 mode 对应后端的模型。后端不可达时仍返回 200，connected=false。
func (h *ModelHandler) ListModels(c *gin.Context) {
	mode, err := model.ParseMode(c.Param("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mode"})
		return
	}

	list, err := h.backendService.ListModels(c.Request.Context(), mode)
	if errors.Is(err, service.ErrInvalidMode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mode"})
		return
	}
	if err != nil {
		log.Error("ListModels: 获取模型列表失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch models"})
		return
	}
	c.JSON(http.StatusOK, list)
}
