package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"local-chat-go/internal/service"
)

// Services 汇总路由需要的业务服务。
type Services struct {
	Chat     service.ChatService
	Backends service.BackendService
	Settings service.SettingsService
	// Users 为空时不注册用户路由
	Users service.UserService
}

// Health 用于进程探活。
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterRoutes 在 r 上注册全部 HTTP 路由。
func RegisterRoutes(r gin.IRouter, svc Services) {
	r.GET("/healthz", Health)

	api := r.Group("/api")
	{
		chatHandler := NewChatHandler(svc.Chat)
		api.GET("/messages", chatHandler.GetMessages)
		api.POST("/chat", chatHandler.SendMessage)

		api.GET("/models/:mode", NewModelHandler(svc.Backends).ListModels)

		settingsHandler := NewSettingsHandler(svc.Settings)
		api.GET("/settings", settingsHandler.GetSettings)
		api.POST("/settings", settingsHandler.UpdateSettings)

		if svc.Users != nil {
			userHandler := NewUserHandler(svc.Users)
			api.POST("/users", userHandler.Register)
			api.GET("/users/:username", userHandler.GetProfile)
			api.GET("/users/id/:id", userHandler.GetByID)
		}
	}
}
