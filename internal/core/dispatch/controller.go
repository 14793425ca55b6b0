package dispatch

import (
	"fmt"
	"sync"

	"github.com/dep2p/go-evsync/pkg/interfaces"
	"github.com/dep2p/go-evsync/pkg/lib/log"
	"github.com/dep2p/go-evsync/pkg/types"
)

var logger = log.Logger("core/dispatch")

// Controller 处理器注册控制器
//
// 一个 Controller 绑定一个处理器实例和一个派发跳板，跳板在 Controller
// 创建时生成，所有注册复用同一个跳板。
type Controller struct {
	loops      interfaces.LoopProvider
	handler    interfaces.EventHandler
	ident      interfaces.Identity
	trampoline types.HandlerFunc

	mu     sync.Mutex
	handle Handle
}

// New 为处理器创建控制器
//
// ident 提供无参数 Register 使用的默认 (Base, ID, Arg, Loop)。
// loops 用于解析默认事件循环，可以为 nil（此时必须显式指定循环）。
func New(loops interfaces.LoopProvider, h interfaces.EventHandler, ident interfaces.Identity) *Controller {
	c := &Controller{
		loops:   loops,
		handler: h,
		ident:   ident,
		handle: Handle{
			Base: ident.Base,
			ID:   ident.ID,
			Arg:  ident.Arg,
		},
	}
	c.trampoline = func(arg any, base types.EventBase, id types.EventID, data any) {
		c.handler.InstanceHandler(arg, base, id, data)
	}
	return c
}

// Bind 为携带身份的处理器创建控制器
func Bind(loops interfaces.LoopProvider, h interfaces.BoundHandler) *Controller {
	return New(loops, h, h.Identity())
}

// Handler 返回绑定的处理器
func (c *Controller) Handler() interfaces.EventHandler {
	return c.handler
}

// Identity 返回处理器身份
func (c *Controller) Identity() interfaces.Identity {
	return c.ident
}

// Handle 返回订阅句柄快照
func (c *Controller) Handle() Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// State 返回订阅状态
func (c *Controller) State() types.SubscriptionState {
	return c.Handle().State()
}

// Register 注册处理器
//
// 无选项时使用处理器身份：身份中的循环，或默认循环。
// 已注册时返回 types.ErrAlreadyRegistered；循环无法再添加注册时返回
// 包装了 types.ErrResourceExhausted 的错误。
func (c *Controller) Register(opts ...RegisterOpt) error {
	s := registerSettings{
		loop: c.ident.Loop,
		base: c.ident.Base,
		id:   c.ident.ID,
		arg:  c.ident.Arg,
	}
	for _, opt := range opts {
		opt(&s)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle.Registered() {
		return types.ErrAlreadyRegistered
	}

	loop, err := c.resolveLoop(s)
	if err != nil {
		return err
	}

	token, err := loop.RegisterHandler(s.base, s.id, c.trampoline, s.arg)
	if err != nil {
		return fmt.Errorf("register handler for (%s, %d): %w", s.base, s.id, err)
	}

	c.handle = Handle{
		Base:  s.base,
		ID:    s.id,
		Arg:   s.arg,
		loop:  loop,
		token: token,
	}
	logger.Debug("handler registered", "base", s.base, "id", s.id, "instance", token)
	return nil
}

// Unregister 注销处理器
//
// 未注册时返回 types.ErrNotRegistered。无论循环是否报告错误，
// 注册令牌都会被清除。
func (c *Controller) Unregister() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.handle.Registered() {
		return types.ErrNotRegistered
	}

	h := c.handle
	c.handle.token = ""
	c.handle.loop = nil

	if err := h.loop.UnregisterHandler(h.Base, h.ID, h.token); err != nil {
		logger.Warn("unregister handler failed", "base", h.Base, "id", h.ID, "instance", h.token, "err", err)
		return fmt.Errorf("unregister handler for (%s, %d): %w", h.Base, h.ID, err)
	}
	logger.Debug("handler unregistered", "base", h.Base, "id", h.ID, "instance", h.token)
	return nil
}

// Scoped 注册后执行 fn，在任何退出路径（包括 panic）上注销
func (c *Controller) Scoped(fn func() error, opts ...RegisterOpt) (err error) {
	if err := c.Register(opts...); err != nil {
		return err
	}
	defer func() {
		if uerr := c.Unregister(); uerr != nil && err == nil {
			err = uerr
		}
	}()
	return fn()
}

// resolveLoop 解析目标循环（调用方持有 c.mu）
func (c *Controller) resolveLoop(s registerSettings) (interfaces.EventLoop, error) {
	if s.loop != nil && !s.defaultLoop {
		return s.loop, nil
	}
	if c.loops == nil {
		return nil, types.ErrNoDefaultLoop
	}
	return c.loops.DefaultLoop()
}
