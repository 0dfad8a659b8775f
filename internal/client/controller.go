package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"local-chat-go/internal/model"
)

// ErrUnknownFont 在选择的字体不在 Fonts 中时返回。
var ErrUnknownFont = errors.New("unknown font")

// View 是控制器状态的只读快照。
type View struct {
	Mode      model.Mode
	Model     string
	Font      string
	Typing    bool
	Messages  []model.ChatMessage
	Models    []string
	Connected bool
}

// Controller 维护界面状态，并把用户操作转换为 API 调用。
type Controller struct {
	api API

	mu             sync.Mutex
	state          View
	settingsLoaded bool
	listeners      []func(View)
}

// NewController 以默认状态创建控制器：ollama、未选模型、Inter 字体。
func NewController(api API) *Controller {
	return &Controller{
		api: api,
		state: View{
			Mode: model.ModeOllama,
			Font: model.DefaultFont,
		},
	}
}

// View 返回当前状态的副本。
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() View {
	v := c.state
	v.Messages = slices.Clone(c.state.Messages)
	v.Models = slices.Clone(c.state.Models)
	return v
}

// Subscribe 注册一个监听器，消息列表或输入中状态变化时被调用。
func (c *Controller) Subscribe(fn func(View)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// update 在锁内修改状态，notify 为真时在锁外通知监听器。
func (c *Controller) update(notify bool, fn func(*View)) {
	c.mu.Lock()
	fn(&c.state)
	v := c.snapshot()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	if notify {
		for _, l := range listeners {
			l(v)
		}
	}
}

// LoadSettings 用服务端设置初始化 mode、model 和 font，只生效一次。
func (c *Controller) LoadSettings(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.settingsLoaded
	c.mu.Unlock()
	if loaded {
		return nil
	}

	settings, err := c.api.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	c.update(false, func(v *View) {
		if settings.SelectedMode.Valid() {
			v.Mode = settings.SelectedMode
		}
		v.Model = settings.SelectedModel
		if settings.SelectedFont != "" {
			v.Font = settings.SelectedFont
		}
	})
	c.mu.Lock()
	c.settingsLoaded = true
	c.mu.Unlock()
	return nil
}

// RefreshModels 拉取当前 mode 的模型列表。未选模型时自动选中第一个，但不写回服务端。
func (c *Controller) RefreshModels(ctx context.Context) error {
	mode := c.View().Mode
	list, err := c.api.Models(ctx, mode)
	if err != nil {
		c.update(false, func(v *View) {
			v.Models = nil
			v.Connected = false
		})
		return fmt.Errorf("refresh models: %w", err)
	}
	c.update(false, func(v *View) {
		// 请求期间 mode 已切换，结果作废
		if v.Mode != mode {
			return
		}
		v.Models = list.Models
		v.Connected = list.Connected
		if v.Model == "" && len(list.Models) > 0 {
			v.Model = list.Models[0]
		}
	})
	return nil
}

// RefreshMessages 重新拉取消息历史。
func (c *Controller) RefreshMessages(ctx context.Context) error {
	messages, err := c.api.Messages(ctx)
	if err != nil {
		return fmt.Errorf("refresh messages: %w", err)
	}
	c.update(true, func(v *View) { v.Messages = messages })
	return nil
}

// Send 发送一条消息。内容为空白或未选模型时什么也不做并返回 false。
// 无论发送成功与否都会刷新消息列表，服务端可能已保存了用户消息。
func (c *Controller) Send(ctx context.Context, content string) (bool, error) {
	content = strings.TrimSpace(content)
	v := c.View()
	if content == "" || v.Model == "" {
		return false, nil
	}

	c.update(true, func(v *View) { v.Typing = true })
	_, err := c.api.Send(ctx, content, v.Mode, v.Model)
	c.update(true, func(v *View) { v.Typing = false })
	if err != nil {
		err = fmt.Errorf("send message: %w", err)
	}
	return true, errors.Join(err, c.RefreshMessages(ctx))
}

// ChangeMode 切换后端，清空已选模型并写回设置，然后刷新模型列表。
func (c *Controller) ChangeMode(ctx context.Context, mode model.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("change mode: unknown mode %q", mode)
	}
	c.update(false, func(v *View) {
		v.Mode = mode
		v.Model = ""
		v.Models = nil
	})
	if err := c.persist(ctx); err != nil {
		return err
	}
	return c.RefreshModels(ctx)
}

// ChangeModel 选择模型并写回设置。
func (c *Controller) ChangeModel(ctx context.Context, name string) error {
	c.update(false, func(v *View) { v.Model = name })
	return c.persist(ctx)
}

// ChangeFont 选择字体并写回设置。
func (c *Controller) ChangeFont(ctx context.Context, font string) error {
	if !IsKnownFont(font) {
		return fmt.Errorf("%w: %q", ErrUnknownFont, font)
	}
	c.update(false, func(v *View) { v.Font = font })
	return c.persist(ctx)
}

// persist 把当前的 mode、model、连接状态和字体整体写回服务端。
func (c *Controller) persist(ctx context.Context) error {
	v := c.View()
	_, err := c.api.UpdateSettings(ctx, model.SettingsPatch{
		SelectedMode:  &v.Mode,
		SelectedModel: &v.Model,
		IsConnected:   &v.Connected,
		SelectedFont:  &v.Font,
	})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
