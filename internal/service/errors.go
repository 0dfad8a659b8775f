// Package service 包含了应用的业务逻辑层。
package service

import "errors"

var (
	// ErrMissingFields 表示请求缺少 content、mode 或 model。
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidMode 表示 mode 不是已知的后端。
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidSettings 表示设置补丁中的字段取值非法。
	ErrInvalidSettings = errors.New("invalid settings data")
	// ErrStore 表示会话存储读写失败。
	ErrStore = errors.New("store failure")
)
