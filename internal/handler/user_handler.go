package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"local-chat-go/internal/model"
	"local-chat-go/internal/repository"
	"local-chat-go/internal/service"
	"local-chat-go/pkg/log"
)

// UserHandler 负责用户记录的 API。聊天接口本身不需要用户。
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest 定义了用户注册 API 的请求体结构。
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required"`
}

// ProfileResponse 是对外暴露的用户信息，不含密码。
type ProfileResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Register 处理用户注册请求。
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Register: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user data", "details": validationDetails(err)})
		return
	}

	user, err := h.userService.Register(req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user data"})
		return
	case errors.Is(err, repository.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	default:
		log.Error("Register: 创建用户失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	log.Infof("User '%s' registered successfully", user.Username)
	c.JSON(http.StatusCreated, ProfileResponse{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt})
}

// GetProfile 按用户名返回用户信息。
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Param("username"))
	h.writeProfile(c, user, err)
}

// GetByID 按用户 ID 返回用户信息。
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	user, err := h.userService.GetByID(uint(id))
	h.writeProfile(c, user, err)
}

func (h *UserHandler) writeProfile(c *gin.Context, user *model.User, err error) {
	if errors.Is(err, repository.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Error("查询用户失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt})
}
