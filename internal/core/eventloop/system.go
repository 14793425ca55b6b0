package eventloop

import (
	"context"
	"sync"

	"github.com/dep2p/go-evsync/pkg/interfaces"
	"github.com/dep2p/go-evsync/pkg/types"
)

// System 持有平台默认事件循环
//
// 默认循环需要显式创建；显式循环通过 New 创建，由调用方持有。
type System struct {
	cfg Config

	mu  sync.RWMutex
	def *Loop
}

var _ interfaces.LoopProvider = (*System)(nil)

// NewSystem 创建 System，cfg 用于创建默认循环
func NewSystem(cfg Config) *System {
	return &System{cfg: cfg}
}

// CreateDefault 创建默认事件循环
func (s *System) CreateDefault() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.def != nil {
		return types.ErrDefaultLoopExists
	}

	cfg := s.cfg
	cfg.DedicatedTask = true
	l, err := New(cfg)
	if err != nil {
		return err
	}
	s.def = l
	return nil
}

// DeleteDefault 关闭并删除默认事件循环
func (s *System) DeleteDefault() error {
	s.mu.Lock()
	l := s.def
	s.def = nil
	s.mu.Unlock()

	if l == nil {
		return types.ErrNoDefaultLoop
	}
	return l.Close()
}

// Default 返回默认事件循环
func (s *System) Default() (*Loop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.def == nil {
		return nil, types.ErrNoDefaultLoop
	}
	return s.def, nil
}

// DefaultLoop 实现 interfaces.LoopProvider
func (s *System) DefaultLoop() (interfaces.EventLoop, error) {
	l, err := s.Default()
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Post 向默认事件循环投递事件
func (s *System) Post(ctx context.Context, base types.EventBase, id types.EventID, data any) error {
	l, err := s.Default()
	if err != nil {
		return err
	}
	return l.Post(ctx, base, id, data)
}
