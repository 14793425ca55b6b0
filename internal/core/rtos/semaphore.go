package rtos

import (
	"sync/atomic"
	"time"
)

// Handle 信号量句柄
type Handle interface {
	// Take 获取一个单位；timeout 为 0 时不阻塞，为负时无限等待
	Take(timeout time.Duration) bool

	// Give 释放一个单位；已达上限时返回 false
	Give() bool

	// Count 返回当前可用单位数
	Count() int

	// Delete 删除句柄，重复调用无副作用
	Delete()
}

// StaticSemaphore 静态信号量控制块
//
// 控制块必须比由它创建的句柄存活更久。同一控制块上的句柄
// 删除之前不能再次用于创建。
type StaticSemaphore struct {
	sem semaphore
}

// InUse 控制块是否承载着一个未删除的句柄
func (s *StaticSemaphore) InUse() bool {
	return s.sem.live.Load()
}

// semaphore 信号量实现
//
// tokens 中的元素个数即当前可用单位数，容量即上限。
type semaphore struct {
	tokens  chan struct{}
	deleted chan struct{}
	live    atomic.Bool
	release func()
}

// init 在原地初始化控制块
func (s *semaphore) init(maxCount, initial uint32, release func()) {
	s.tokens = make(chan struct{}, maxCount)
	for i := uint32(0); i < initial; i++ {
		s.tokens <- struct{}{}
	}
	s.deleted = make(chan struct{})
	s.release = release
	s.live.Store(true)
}

// Take 获取一个单位
func (s *semaphore) Take(timeout time.Duration) bool {
	if !s.live.Load() {
		return false
	}

	if timeout == 0 {
		select {
		case <-s.tokens:
			return true
		default:
			return false
		}
	}

	if timeout < 0 {
		select {
		case <-s.tokens:
			return true
		case <-s.deleted:
			return false
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.tokens:
		return true
	case <-s.deleted:
		return false
	case <-timer.C:
		return false
	}
}

// Give 释放一个单位
func (s *semaphore) Give() bool {
	if !s.live.Load() {
		return false
	}

	select {
	case s.tokens <- struct{}{}:
		return true
	default:
		return false
	}
}

// Count 返回当前可用单位数
func (s *semaphore) Count() int {
	return len(s.tokens)
}

// Delete 删除句柄
func (s *semaphore) Delete() {
	if !s.live.CompareAndSwap(true, false) {
		return
	}
	close(s.deleted)
	if s.release != nil {
		s.release()
	}
}
