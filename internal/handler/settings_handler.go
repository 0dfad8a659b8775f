package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"local-chat-go/internal/model"
	"local-chat-go/internal/service"
	"local-chat-go/pkg/log"
)

// SettingsHandler 负责读取和更新会话设置的 API。
type SettingsHandler struct {
	settingsService service.SettingsService
}

// NewSettingsHandler 创建一个新的 SettingsHandler 实例。
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest 是设置的部分更新。缺省字段保持原值，显式的空字符串会被写入。
type UpdateSettingsRequest struct {
	SelectedMode  *string `json:"selectedMode" binding:"omitempty,oneof=ollama lmstudio"`
	SelectedModel *string `json:"selectedModel" binding:"omitempty,max=255"`
	IsConnected   *bool   `json:"isConnected"`
	SelectedFont  *string `json:"selectedFont" binding:"omitempty,max=64"`
}

func (r UpdateSettingsRequest) patch() model.SettingsPatch {
	p := model.SettingsPatch{
		SelectedModel: r.SelectedModel,
		IsConnected:   r.IsConnected,
		SelectedFont:  r.SelectedFont,
	}
	if r.SelectedMode != nil {
		mode := model.Mode(*r.SelectedMode)
		p.SelectedMode = &mode
	}
	return p
}

// ValidationDetail 描述一个未通过校验的字段。
type ValidationDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// validationDetails 把绑定错误展开为逐字段的描述。
func validationDetails(err error) []ValidationDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]ValidationDetail, 0, len(verrs))
		for _, fe := range verrs {
			msg := "failed on '" + fe.Tag() + "'"
			if fe.Param() != "" {
				msg += " (" + fe.Param() + ")"
			}
			details = append(details, ValidationDetail{Field: jsonFieldName(fe.Field()), Message: msg})
		}
		return details
	}
	return []ValidationDetail{{Message: err.Error()}}
}

func jsonFieldName(goName string) string {
	switch goName {
	case "SelectedMode":
		return "selectedMode"
	case "SelectedModel":
		return "selectedModel"
	case "IsConnected":
		return "isConnected"
	case "SelectedFont":
		return "selectedFont"
	}
	return goName
}

// GetSettings 返回当前设置。
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		log.Error("GetSettings: 读取设置失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings 合并部分设置并返回完整记录。
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateSettings: 设置校验失败, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid settings data",
			"details": validationDetails(err),
		})
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), req.patch())
	if errors.Is(err, service.ErrInvalidSettings) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid settings data",
			"details": []ValidationDetail{{Field: "selectedMode", Message: err.Error()}},
		})
		return
	}
	if err != nil {
		log.Error("UpdateSettings: 更新设置失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
