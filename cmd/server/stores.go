package main

import (
	"context"
	"fmt"
	"io"

	"gorm.io/gorm"

	"local-chat-go/internal/config"
	"local-chat-go/internal/repository"
	"local-chat-go/pkg/database"
	"local-chat-go/pkg/log"
)

// stores 是按配置选出的存储实现及其关闭函数。
type stores struct {
	Chat    repository.ChatRepository
	Users   repository.UserRepository
	closers []io.Closer
}

func (s *stores) Close() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			log.Errorf("关闭存储连接失败: %v", err)
		}
	}
}

// openStores 根据 storage.driver 打开会话存储。
// redis 驱动没有用户表，用户保存在内存中。
func openStores(ctx context.Context, cfg config.StorageConfig) (*stores, error) {
	switch cfg.Driver {
	case "", "memory":
		return &stores{
			Chat:  repository.NewMemoryChatRepository(),
			Users: repository.NewMemoryUserRepository(),
		}, nil
	case "sqlite":
		db, err := database.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return gormStores(db)
	case "mysql":
		db, err := database.OpenMySQL(cfg.MySQL.DSN)
		if err != nil {
			return nil, err
		}
		return gormStores(db)
	case "redis":
		rdb, err := database.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &stores{
			Chat:    repository.NewRedisChatRepository(rdb, cfg.Redis.KeyPrefix),
			Users:   repository.NewMemoryUserRepository(),
			closers: []io.Closer{rdb},
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func gormStores(db *gorm.DB) (*stores, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	return &stores{
		Chat:    repository.NewChatRepository(db),
		Users:   repository.NewUserRepository(db),
		closers: []io.Closer{sqlDB},
	}, nil
}
