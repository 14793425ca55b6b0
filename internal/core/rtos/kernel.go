package rtos

import (
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-evsync/pkg/lib/log"
)

var logger = log.Logger("core/rtos")

// Allocator 信号量分配接口
//
// 所有创建函数在失败时返回 nil。
type Allocator interface {
	// CreateBinary 创建动态二值信号量，初始不可用
	CreateBinary() Handle

	// CreateBinaryStatic 在调用方控制块上创建二值信号量，初始不可用
	CreateBinaryStatic(buf *StaticSemaphore) Handle

	// CreateCounting 创建动态计数信号量
	CreateCounting(maxCount, initial uint32) Handle

	// CreateCountingStatic 在调用方控制块上创建计数信号量
	CreateCountingStatic(maxCount, initial uint32, buf *StaticSemaphore) Handle
}

// Config 内核配置
type Config struct {
	// MaxSemaphores 动态信号量堆槽位数，0 表示不限制
	MaxSemaphores int
}

// Stats 内核统计
type Stats struct {
	// HeapUsed 已占用的堆槽位
	HeapUsed int
	// HeapCapacity 堆槽位总数，0 表示不限制
	HeapCapacity int
	// Live 存活的句柄数（含静态）
	Live int64
}

// Kernel 信号量分配器
type Kernel struct {
	cfg Config

	mu       sync.Mutex
	heapUsed int

	live atomic.Int64
}

var _ Allocator = (*Kernel)(nil)

// NewKernel 创建分配器
func NewKernel(cfg Config) *Kernel {
	return &Kernel{cfg: cfg}
}

// CreateBinary 创建动态二值信号量
func (k *Kernel) CreateBinary() Handle {
	return k.createDynamic(1, 0)
}

// CreateCounting 创建动态计数信号量
func (k *Kernel) CreateCounting(maxCount, initial uint32) Handle {
	if !validCounting(maxCount, initial) {
		return nil
	}
	return k.createDynamic(maxCount, initial)
}

// CreateBinaryStatic 在调用方控制块上创建二值信号量
func (k *Kernel) CreateBinaryStatic(buf *StaticSemaphore) Handle {
	return k.createStatic(1, 0, buf)
}

// CreateCountingStatic 在调用方控制块上创建计数信号量
func (k *Kernel) CreateCountingStatic(maxCount, initial uint32, buf *StaticSemaphore) Handle {
	if !validCounting(maxCount, initial) {
		return nil
	}
	return k.createStatic(maxCount, initial, buf)
}

// Stats 返回内核统计
func (k *Kernel) Stats() Stats {
	k.mu.Lock()
	used := k.heapUsed
	k.mu.Unlock()

	return Stats{
		HeapUsed:     used,
		HeapCapacity: k.cfg.MaxSemaphores,
		Live:         k.live.Load(),
	}
}

// ============================================================================
// 内部方法
// ============================================================================

func validCounting(maxCount, initial uint32) bool {
	return maxCount > 0 && initial <= maxCount
}

func (k *Kernel) createDynamic(maxCount, initial uint32) Handle {
	if !k.allocSlot() {
		logger.Warn("semaphore heap exhausted", "capacity", k.cfg.MaxSemaphores)
		return nil
	}

	s := &semaphore{}
	s.init(maxCount, initial, func() {
		k.freeSlot()
		k.live.Add(-1)
	})
	k.live.Add(1)
	return s
}

func (k *Kernel) createStatic(maxCount, initial uint32, buf *StaticSemaphore) Handle {
	if buf == nil || buf.InUse() {
		return nil
	}

	buf.sem.init(maxCount, initial, func() {
		k.live.Add(-1)
	})
	k.live.Add(1)
	return &buf.sem
}

func (k *Kernel) allocSlot() bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cfg.MaxSemaphores > 0 && k.heapUsed >= k.cfg.MaxSemaphores {
		return false
	}
	k.heapUsed++
	return true
}

func (k *Kernel) freeSlot() {
	k.mu.Lock()
	k.heapUsed--
	k.mu.Unlock()
}
