package notify

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/dep2p/go-evsync/config"
	"github.com/dep2p/go-evsync/internal/core/rtos"
	"github.com/dep2p/go-evsync/internal/core/waitsem"
	"github.com/dep2p/go-evsync/pkg/interfaces"
	"github.com/dep2p/go-evsync/pkg/lib/log"
	"github.com/dep2p/go-evsync/pkg/types"
)

var logger = log.Logger("core/notify")

// ============================================================================
// 选项
// ============================================================================

// Option 同步器选项
type Option func(*settings)

type settings struct {
	kind        types.Kind
	maxCount    uint32
	initial     uint32
	opened      bool
	storage     types.Storage
	arg         any
	loop        interfaces.EventLoop
	logInterval time.Duration
}

func defaultSettings() settings {
	return settings{
		kind:        types.KindBinary,
		storage:     types.StorageDynamic,
		logInterval: time.Second,
	}
}

// WithCounting 使用计数信号量
func WithCounting(maxCount, initial uint32) Option {
	return func(s *settings) {
		s.kind = types.KindCounting
		s.maxCount = maxCount
		s.initial = initial
	}
}

// WithOpened 二值信号量初始可用
func WithOpened() Option {
	return func(s *settings) {
		s.opened = true
	}
}

// WithStorage 设置信号量存储策略
func WithStorage(storage types.Storage) Option {
	return func(s *settings) {
		s.storage = storage
	}
}

// WithArg 设置注册时附带的用户数据
func WithArg(arg any) Option {
	return func(s *settings) {
		s.arg = arg
	}
}

// WithLoop 绑定到显式事件循环
func WithLoop(loop interfaces.EventLoop) Option {
	return func(s *settings) {
		s.loop = loop
	}
}

// WithSaturationLogInterval 设置饱和告警的最小间隔，0 表示每次都告警
func WithSaturationLogInterval(d time.Duration) Option {
	return func(s *settings) {
		s.logInterval = d
	}
}

// OptionsFromConfig 从统一配置生成选项
func OptionsFromConfig(cfg config.SyncConfig) []Option {
	return []Option{
		WithStorage(cfg.StorageKind()),
		WithSaturationLogInterval(cfg.SaturationLogInterval.Duration()),
	}
}

// ============================================================================
// Sync 实现
// ============================================================================

// Sync 事件同步器
//
// 实现 interfaces.BoundHandler。
type Sync struct {
	ident interfaces.Identity
	sem   *waitsem.Semaphore

	// mu 派发持有读锁，Close 持有写锁，保证 Close 之后不再释放信号量
	mu     sync.RWMutex
	closed bool

	notified  atomic.Uint64
	saturated atomic.Uint64
	warn      rate.Sometimes
}

var _ interfaces.BoundHandler = (*Sync)(nil)

// New 创建同步器并立即创建其信号量
//
// 默认使用初始不可用的动态二值信号量。
func New(alloc rtos.Allocator, base types.EventBase, id types.EventID, opts ...Option) (*Sync, error) {
	o := defaultSettings()
	for _, opt := range opts {
		opt(&o)
	}

	// 已在此创建，禁止按需重建
	semOpts := []waitsem.Option{
		waitsem.WithStorage(o.storage),
		waitsem.WithStrictInit(),
	}

	var (
		sem *waitsem.Semaphore
		err error
	)
	if o.kind == types.KindCounting {
		sem, err = waitsem.NewCounting(alloc, o.maxCount, o.initial, semOpts...)
	} else {
		sem, err = waitsem.NewBinary(alloc, o.opened, semOpts...)
	}
	if err != nil {
		return nil, fmt.Errorf("sync (%s, %d): %w", base, id, err)
	}

	s := &Sync{
		ident: interfaces.Identity{
			Base: base,
			ID:   id,
			Arg:  o.arg,
			Loop: o.loop,
		},
		sem: sem,
	}
	if o.logInterval > 0 {
		s.warn = rate.Sometimes{First: 1, Interval: o.logInterval}
	} else {
		s.warn = rate.Sometimes{Every: 1}
	}
	return s, nil
}

// Identity 实现 interfaces.BoundHandler
func (s *Sync) Identity() interfaces.Identity {
	return s.ident
}

// InstanceHandler 释放信号量
//
// 超出容量时计入 Saturated，不返回错误。
func (s *Sync) InstanceHandler(_ any, base types.EventBase, id types.EventID, _ any) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}

	s.notified.Add(1)
	if err := s.sem.Give(); err != nil {
		n := s.saturated.Add(1)
		s.warn.Do(func() {
			logger.Warn("notification dropped, semaphore saturated",
				"base", base,
				"id", id,
				"saturated", n,
				"err", err)
		})
	}
}

// Wait 等待至少一次通知
//
// timeout 为负（types.WaitForever）时无限等待；超时返回 types.ErrTimedOut。
// 关闭后返回 types.ErrNotInitialized。
func (s *Sync) Wait(timeout time.Duration) error {
	if s.isClosed() {
		return fmt.Errorf("%w: sync closed", types.ErrNotInitialized)
	}
	return s.sem.Take(timeout)
}

func (s *Sync) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Semaphore 返回内部信号量
func (s *Sync) Semaphore() *waitsem.Semaphore {
	return s.sem
}

// Notified 返回已处理的通知次数
func (s *Sync) Notified() uint64 {
	return s.notified.Load()
}

// Saturated 返回因容量不足被合并或丢弃的通知次数
func (s *Sync) Saturated() uint64 {
	return s.saturated.Load()
}

// Close 停止响应通知并销毁信号量
//
// 应先注销处理器再调用；不能在派发任务中调用。重复调用无副作用。
// 阻塞在 Wait 上的调用方会被唤醒。
func (s *Sync) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.sem.Destroy()
	logger.Debug("sync closed",
		"base", s.ident.Base,
		"id", s.ident.ID,
		"notified", s.notified.Load(),
		"saturated", s.saturated.Load())
	return nil
}
