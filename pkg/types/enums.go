package types

import (
	"fmt"
	"strings"
	"time"
)

// WaitForever 无限等待超时
//
// 任何负的超时值都按无限等待处理。
const WaitForever time.Duration = -1

// ============================================================================
//                              Kind - 信号量类型
// ============================================================================

// Kind 信号量类型
type Kind int

const (
	// KindBinary 二值信号量（0/1）
	KindBinary Kind = iota
	// KindCounting 计数信号量（有上限）
	KindCounting
)

// String 返回信号量类型的字符串表示
func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindCounting:
		return "counting"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              Storage - 存储策略
// ============================================================================

// Storage 信号量控制块的存储策略
type Storage int

const (
	// StorageDynamic 控制块由内核堆分配
	StorageDynamic Storage = iota
	// StorageStatic 控制块内嵌在持有者中，不占用内核堆
	StorageStatic
)

// String 返回存储策略的字符串表示
func (s Storage) String() string {
	switch s {
	case StorageDynamic:
		return "dynamic"
	case StorageStatic:
		return "static"
	default:
		return "unknown"
	}
}

// ParseStorage 解析存储策略名称
func ParseStorage(s string) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dynamic", "heap":
		return StorageDynamic, nil
	case "static", "embedded":
		return StorageStatic, nil
	default:
		return StorageDynamic, fmt.Errorf("%w: unknown storage %q", ErrInvalidConfiguration, s)
	}
}

// ============================================================================
//                              SemaphoreState - 信号量状态
// ============================================================================

// SemaphoreState 信号量生命周期状态
//
// Destroy 之后状态回到 SemaphoreUninitialized，允许重新创建。
type SemaphoreState int

const (
	// SemaphoreUninitialized 尚未创建底层句柄
	SemaphoreUninitialized SemaphoreState = iota
	// SemaphoreCreated 底层句柄已创建
	SemaphoreCreated
)

// String 返回状态的字符串表示
func (s SemaphoreState) String() string {
	switch s {
	case SemaphoreUninitialized:
		return "uninitialized"
	case SemaphoreCreated:
		return "created"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              SubscriptionState - 订阅状态
// ============================================================================

// SubscriptionState 处理器订阅状态
type SubscriptionState int

const (
	// Unregistered 未注册
	Unregistered SubscriptionState = iota
	// Registered 已注册
	Registered
)

// String 返回状态的字符串表示
func (s SubscriptionState) String() string {
	switch s {
	case Unregistered:
		return "unregistered"
	case Registered:
		return "registered"
	default:
		return "unknown"
	}
}
