// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"local-chat-go/internal/config"
	"local-chat-go/internal/handler"
	"local-chat-go/internal/middleware"
	"local-chat-go/internal/model"
	"local-chat-go/internal/service"
	"local-chat-go/pkg/kafka"
	"local-chat-go/pkg/llm"
	"local-chat-go/pkg/log"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 打开会话存储
	stores, err := openStores(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal("会话存储初始化失败", err)
	}
	defer stores.Close()

	// 4. 事件发布器，未启用 Kafka 时为空实现
	publisher := kafka.NewPublisher(cfg.Kafka)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Errorf("关闭 Kafka 发布器失败: %v", err)
		}
	}()

	// 5. 初始化 Service (依赖注入)
	backendService := service.NewBackendService(map[model.Mode]llm.Backend{
		model.ModeOllama:   llm.NewOllamaClient(cfg.Backends.Ollama),
		model.ModeLMStudio: llm.NewLMStudioClient(cfg.Backends.LMStudio),
	})
	chatService := service.NewChatService(stores.Chat, backendService, publisher)
	settingsService := service.NewSettingsService(stores.Chat)
	userService := service.NewUserService(stores.Users)

	// 6. 预置用户
	if n := userService.Seed(cfg.Seed.Users); n > 0 {
		log.Infof("已创建 %d 个预置用户", n)
	}

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestID(), middleware.RequestLogger(), gin.Recovery())

	// 8. 注册路由
	handler.RegisterRoutes(r, handler.Services{
		Chat:     chatService,
		Backends: backendService,
		Settings: settingsService,
		Users:    userService,
	})

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s (storage=%s)", srv.Addr, cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}
