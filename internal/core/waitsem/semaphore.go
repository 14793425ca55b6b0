package waitsem

import (
	"fmt"
	"sync"
	"time"

	"github.com/dep2p/go-evsync/internal/core/rtos"
	"github.com/dep2p/go-evsync/pkg/lib/log"
	"github.com/dep2p/go-evsync/pkg/types"
)

var logger = log.Logger("core/waitsem")

// ============================================================================
// 选项
// ============================================================================

// Option 信号量选项
type Option func(*settings)

type settings struct {
	storage types.Storage
	strict  bool
}

// WithStorage 设置存储策略
func WithStorage(s types.Storage) Option {
	return func(o *settings) {
		o.storage = s
	}
}

// WithStrictInit 要求显式初始化，禁用按需创建
func WithStrictInit() Option {
	return func(o *settings) {
		o.strict = true
	}
}

// ============================================================================
// Semaphore 实现
// ============================================================================

// Semaphore 可等待信号量
//
// 零值不可用，使用 New / NewBinary / NewCounting 创建。
type Semaphore struct {
	alloc   rtos.Allocator
	storage types.Storage
	strict  bool

	mu       sync.Mutex
	kind     types.Kind
	maxCount uint32
	handle   rtos.Handle

	// gen 每次 Destroy 递增，用于识别等待期间句柄被删除
	gen uint64

	// body 静态存储时的控制块，生命周期与 Semaphore 相同
	body rtos.StaticSemaphore
}

// New 创建未初始化的信号量
func New(alloc rtos.Allocator, opts ...Option) *Semaphore {
	o := settings{storage: types.StorageDynamic}
	for _, opt := range opts {
		opt(&o)
	}
	return &Semaphore{
		alloc:   alloc,
		storage: o.storage,
		strict:  o.strict,
	}
}

// NewBinary 创建并初始化二值信号量
//
// opened 为 true 时初始可用，首次 Take 不会阻塞。
func NewBinary(alloc rtos.Allocator, opened bool, opts ...Option) (*Semaphore, error) {
	s := New(alloc, opts...)
	if err := s.InitBinary(opened); err != nil {
		return nil, err
	}
	return s, nil
}

// NewCounting 创建并初始化计数信号量
func NewCounting(alloc rtos.Allocator, maxCount, initial uint32, opts ...Option) (*Semaphore, error) {
	s := New(alloc, opts...)
	if err := s.InitCounting(maxCount, initial); err != nil {
		return nil, err
	}
	return s, nil
}

// InitBinary 创建二值信号量
//
// 已创建时返回 types.ErrAlreadyCreated；资源耗尽时返回 types.ErrCreationFailed，
// 状态保持未初始化。
func (s *Semaphore) InitBinary(opened bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		return types.ErrAlreadyCreated
	}
	if err := s.createBinary(); err != nil {
		return err
	}
	if opened {
		s.handle.Give()
	}
	return nil
}

// InitCounting 创建计数信号量
//
// 要求 0 < maxCount 且 initial <= maxCount。
func (s *Semaphore) InitCounting(maxCount, initial uint32) error {
	if maxCount == 0 || initial > maxCount {
		return fmt.Errorf("%w: counting semaphore max=%d initial=%d", types.ErrInvalidConfiguration, maxCount, initial)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		return types.ErrAlreadyCreated
	}

	var h rtos.Handle
	if s.storage == types.StorageStatic {
		h = s.alloc.CreateCountingStatic(maxCount, initial, &s.body)
	} else {
		h = s.alloc.CreateCounting(maxCount, initial)
	}
	if h == nil {
		logger.Warn("counting semaphore creation failed", "storage", s.storage, "max", maxCount)
		return fmt.Errorf("%w: counting semaphore (%s)", types.ErrCreationFailed, s.storage)
	}

	s.handle = h
	s.kind = types.KindCounting
	s.maxCount = maxCount
	logger.Debug("semaphore created", "kind", s.kind, "storage", s.storage, "max", maxCount, "initial", initial)
	return nil
}

// Take 获取一个单位
//
// timeout 为 0 时不阻塞，为负（types.WaitForever）时无限等待。
// 超时返回 types.ErrTimedOut。未初始化时按需创建初始不可用的二值信号量。
func (s *Semaphore) Take(timeout time.Duration) error {
	h, gen, err := s.acquireHandle()
	if err != nil {
		return err
	}

	if h.Take(timeout) {
		return nil
	}

	if s.generation() != gen {
		return fmt.Errorf("%w: destroyed while waiting", types.ErrNotInitialized)
	}
	return types.ErrTimedOut
}

// Give 释放一个单位
//
// 二值信号量已可用、或计数信号量已达上限时返回 types.ErrSaturated；
// 释放期间句柄被删除时返回 types.ErrNotInitialized。
// 未初始化时按需创建初始不可用的二值信号量。
func (s *Semaphore) Give() error {
	h, gen, err := s.acquireHandle()
	if err != nil {
		return err
	}

	if !h.Give() {
		if s.generation() != gen {
			return fmt.Errorf("%w: destroyed while giving", types.ErrNotInitialized)
		}
		return types.ErrSaturated
	}
	return nil
}

// Count 返回当前可用单位数，未创建时返回 -1
//
// 对二值信号量返回 0 或 1。
func (s *Semaphore) Count() int {
	h := s.current()
	if h == nil {
		return -1
	}
	return h.Count()
}

// Destroy 删除底层句柄，状态回到未初始化
//
// 重复调用无副作用。阻塞在 Take 上的调用方会被唤醒。
func (s *Semaphore) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return
	}
	s.handle.Delete()
	s.handle = nil
	s.maxCount = 0
	s.gen++
	logger.Debug("semaphore destroyed", "kind", s.kind, "storage", s.storage)
}

// State 返回生命周期状态
func (s *Semaphore) State() types.SemaphoreState {
	if s.Created() {
		return types.SemaphoreCreated
	}
	return types.SemaphoreUninitialized
}

// Created 底层句柄是否已创建
func (s *Semaphore) Created() bool {
	return s.current() != nil
}

// Kind 返回最近一次创建的信号量类型
func (s *Semaphore) Kind() types.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// Storage 返回存储策略
func (s *Semaphore) Storage() types.Storage {
	return s.storage
}

// MaxCount 返回容量，未创建时为 0
func (s *Semaphore) MaxCount() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxCount
}

// String 返回信号量状态描述
func (s *Semaphore) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return fmt.Sprintf("Semaphore(%s, uninitialized)", s.storage)
	}
	return fmt.Sprintf("Semaphore(%s %s, %d/%d)", s.kind, s.storage, s.handle.Count(), s.maxCount)
}

// ============================================================================
// 内部方法
// ============================================================================

func (s *Semaphore) current() rtos.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

func (s *Semaphore) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// acquireHandle 返回当前句柄及其代数，必要时按需创建
func (s *Semaphore) acquireHandle() (rtos.Handle, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		return s.handle, s.gen, nil
	}
	if s.strict {
		return nil, s.gen, types.ErrNotInitialized
	}
	if err := s.createBinary(); err != nil {
		return nil, s.gen, err
	}
	return s.handle, s.gen, nil
}

// createBinary 创建初始不可用的二值信号量（调用方持有 s.mu）
func (s *Semaphore) createBinary() error {
	var h rtos.Handle
	if s.storage == types.StorageStatic {
		h = s.alloc.CreateBinaryStatic(&s.body)
	} else {
		h = s.alloc.CreateBinary()
	}
	if h == nil {
		logger.Warn("binary semaphore creation failed", "storage", s.storage)
		return fmt.Errorf("%w: binary semaphore (%s)", types.ErrCreationFailed, s.storage)
	}

	s.handle = h
	s.kind = types.KindBinary
	s.maxCount = 1
	logger.Debug("semaphore created", "kind", s.kind, "storage", s.storage)
	return nil
}
