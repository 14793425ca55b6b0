package evsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-evsync/config"
	"github.com/dep2p/go-evsync/internal/core/dispatch"
	"github.com/dep2p/go-evsync/internal/core/eventloop"
	"github.com/dep2p/go-evsync/internal/core/notify"
	"github.com/dep2p/go-evsync/internal/core/rtos"
	"github.com/dep2p/go-evsync/internal/core/waitsem"
	"github.com/dep2p/go-evsync/pkg/lib/log"
)

var logger = log.Logger("evsync")

const stopTimeout = 5 * time.Second

// Runtime 事件同步运行时
//
// 持有信号量内核和事件循环系统。Start 创建默认事件循环，Stop 删除它。
type Runtime struct {
	cfg *config.Config
	app *fx.App

	// 由 Fx 填充
	kernel *rtos.Kernel
	loops  *eventloop.System

	mu      sync.Mutex
	started bool
	closed  bool
}

// ════════════════════════════════════════════════════════════════════════════
//                              构造函数
// ════════════════════════════════════════════════════════════════════════════

// New 创建运行时，不创建默认事件循环
//
// 示例：
//
//	rt, err := evsync.New(
//	    evsync.WithQueueSize(64),
//	    evsync.WithSemaphoreStorage(evsync.StorageStatic),
//	)
func New(opts ...Option) (*Runtime, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	rt := &Runtime{cfg: o.config}
	app, err := buildFxApp(o, rt)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	rt.app = app
	return rt, nil
}

// Start 创建并启动运行时
func Start(ctx context.Context, opts ...Option) (*Runtime, error) {
	rt, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := rt.Start(ctx); err != nil {
		return nil, fmt.Errorf("start runtime: %w", err)
	}
	return rt, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动运行时，创建默认事件循环
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRuntimeClosed
	}
	if r.started {
		return ErrAlreadyStarted
	}

	if err := r.app.Start(ctx); err != nil {
		logger.Error("运行时启动失败", "error", err)
		return err
	}
	r.started = true
	logger.Info("运行时已启动", "loop", r.cfg.EventLoop.TaskName)
	return nil
}

// Stop 停止运行时，删除默认事件循环
//
// 默认循环上的注册随之失效。
func (r *Runtime) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return ErrNotStarted
	}
	r.started = false

	if err := r.app.Stop(ctx); err != nil {
		return err
	}
	logger.Info("运行时已停止")
	return nil
}

// Close 停止并关闭运行时，重复调用无副作用
func (r *Runtime) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	started := r.started
	r.started = false
	r.mu.Unlock()

	if !started {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return r.app.Stop(ctx)
}

// Started 默认事件循环是否可用
func (r *Runtime) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// ════════════════════════════════════════════════════════════════════════════
//                              访问器
// ════════════════════════════════════════════════════════════════════════════

// Config 返回运行时配置
func (r *Runtime) Config() *config.Config {
	return r.cfg
}

// KernelStats 返回信号量内核统计
func (r *Runtime) KernelStats() rtos.Stats {
	return r.kernel.Stats()
}

// DefaultLoop 返回默认事件循环
func (r *Runtime) DefaultLoop() (*Loop, error) {
	return r.loops.Default()
}

// Post 向默认事件循环投递事件
func (r *Runtime) Post(ctx context.Context, base EventBase, id EventID, data any) error {
	return r.loops.Post(ctx, base, id, data)
}

// ════════════════════════════════════════════════════════════════════════════
//                              工厂方法
// ════════════════════════════════════════════════════════════════════════════

// NewLoop 创建显式事件循环，由调用方关闭
//
// dedicated 为 false 时循环没有派发任务，需要调用 Run。
func (r *Runtime) NewLoop(name string, dedicated bool) (*Loop, error) {
	cfg := eventloop.ConfigFromUnified(r.cfg)
	cfg.Name = name
	cfg.DedicatedTask = dedicated
	return eventloop.New(cfg)
}

// NewSemaphore 创建未初始化的信号量
func (r *Runtime) NewSemaphore() *Semaphore {
	return waitsem.New(r.kernel, r.semaphoreOptions()...)
}

// NewBinary 创建并初始化二值信号量
func (r *Runtime) NewBinary(opened bool) (*Semaphore, error) {
	return waitsem.NewBinary(r.kernel, opened, r.semaphoreOptions()...)
}

// NewCounting 创建并初始化计数信号量
func (r *Runtime) NewCounting(maxCount, initial uint32) (*Semaphore, error) {
	return waitsem.NewCounting(r.kernel, maxCount, initial, r.semaphoreOptions()...)
}

// NewController 为处理器创建注册控制器
func (r *Runtime) NewController(h EventHandler, ident Identity) *Controller {
	return dispatch.New(r.loops, h, ident)
}

// Bind 为自带身份的处理器创建注册控制器
func (r *Runtime) Bind(h BoundHandler) *Controller {
	return dispatch.Bind(r.loops, h)
}

// NewSync 创建事件同步器，不注册
//
// 存储策略与饱和告警间隔取自配置，可被 opts 覆盖。
func (r *Runtime) NewSync(base EventBase, id EventID, opts ...SyncOption) (*Sync, error) {
	all := append(notify.OptionsFromConfig(r.cfg.Sync), opts...)
	return notify.New(r.kernel, base, id, all...)
}

func (r *Runtime) semaphoreOptions() []waitsem.Option {
	opts := []waitsem.Option{waitsem.WithStorage(r.cfg.Sync.StorageKind())}
	if r.cfg.Sync.StrictInit {
		opts = append(opts, waitsem.WithStrictInit())
	}
	return opts
}
