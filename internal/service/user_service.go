package service

import (
	"errors"
	"fmt"
	"strings"

	"local-chat-go/internal/config"
	"local-chat-go/internal/model"
	"local-chat-go/internal/repository"
	"local-chat-go/pkg/hash"
	"local-chat-go/pkg/log"
)

// UserService 接口定义了与用户相关的业务操作。聊天流程本身不依赖用户。
type UserService interface {
	Register(username, password string) (*model.User, error)
	GetProfile(username string) (*model.User, error)
	GetByID(userID uint) (*model.User, error)
	Seed(users []config.SeedUser) int
}

// userService 是 UserService 接口的实现。
type userService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Register 校验输入，对密码进行哈希后创建用户。
func (s *userService) Register(username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	hashedPassword, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Username: username, Password: hashedPassword}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile 根据用户名获取用户信息。
func (s *userService) GetProfile(username string) (*model.User, error) {
	return s.userRepo.FindByUsername(username)
}

// GetByID 根据用户 ID 获取用户信息。
func (s *userService) GetByID(userID uint) (*model.User, error) {
	return s.userRepo.FindByID(userID)
}

// Seed 创建配置中预置的用户，已存在的用户会被跳过。返回新建用户数。
func (s *userService) Seed(users []config.SeedUser) int {
	created := 0
	for _, u := range users {
		_, err := s.Register(u.Username, u.Password)
		switch {
		case err == nil:
			created++
			log.Infof("预置用户已创建: %s", u.Username)
		case errors.Is(err, repository.ErrUsernameTaken):
			log.Infof("预置用户已存在，跳过: %s", u.Username)
		default:
			log.Warnf("预置用户创建失败: %s, err=%v", u.Username, err)
		}
	}
	return created
}
