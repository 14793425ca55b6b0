package evsync

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-evsync/internal/core/dispatch"
	"github.com/dep2p/go-evsync/pkg/types"
)

// Subscription 已注册的事件同步器
//
// 组合 Sync 与其注册守卫，Close 先注销再销毁信号量。
type Subscription struct {
	bridge *Sync
	auto *dispatch.Auto

	closeOnce sync.Once
	closeErr  error
}

// Subscribe 创建事件同步器并立即注册
//
// 同步器以 (base, id) 注册到 SyncLoop 指定的循环，未指定时使用默认循环。
// 注册失败时同步器被关闭。
func (r *Runtime) Subscribe(base EventBase, id EventID, opts ...SyncOption) (*Subscription, error) {
	s, err := r.NewSync(base, id, opts...)
	if err != nil {
		return nil, err
	}

	auto, err := r.Bind(s).Auto(true)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	logger.Debug("已订阅", "base", base, "id", id)
	return &Subscription{bridge: s, auto: auto}, nil
}

// Wait 等待至少一次事件
func (s *Subscription) Wait(timeout time.Duration) error {
	return s.bridge.Wait(timeout)
}

// Sync 返回底层同步器
func (s *Subscription) Sync() *Sync {
	return s.bridge
}

// Handle 返回注册句柄快照
func (s *Subscription) Handle() Handle {
	return s.auto.Controller().Handle()
}

// Registered 是否仍处于注册状态
func (s *Subscription) Registered() bool {
	return s.auto.Registered()
}

// Close 注销并销毁同步器，重复调用无副作用
//
// 事件循环已删除时注销失败被忽略。
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		err := s.auto.Close()
		if errors.Is(err, types.ErrHandlerNotFound) || errors.Is(err, types.ErrLoopClosed) {
			err = nil
		}
		s.closeErr = multierr.Append(err, s.bridge.Close())
	})
	return s.closeErr
}
