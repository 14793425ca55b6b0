package types

import "github.com/google/uuid"

// ============================================================================
//                              事件标识
// ============================================================================

// EventBase 事件源（事件族）标识
//
// 同一 EventBase 下的事件以 EventID 区分。
type EventBase string

// EventID 事件源内的事件编号
type EventID int32

const (
	// AnyBase 通配事件源，仅用于注册处理器
	AnyBase EventBase = "*"

	// AnyID 通配事件编号，仅用于注册处理器
	AnyID EventID = -1
)

// 预定义事件源
const (
	// WiFiEvent WiFi 事件族
	WiFiEvent EventBase = "WIFI_EVENT"

	// IPEvent IP 事件族
	IPEvent EventBase = "IP_EVENT"
)

// IsWildcard 是否为通配事件源
func (b EventBase) IsWildcard() bool {
	return b == AnyBase
}

// String 返回事件源名称
func (b EventBase) String() string {
	return string(b)
}

// IsWildcard 是否为通配事件编号
func (id EventID) IsWildcard() bool {
	return id == AnyID
}

// ============================================================================
//                              处理器注册
// ============================================================================

// HandlerFunc 事件循环调用的通用回调签名
//
// arg 为注册时提供的用户数据，data 为投递事件时携带的负载。
type HandlerFunc func(arg any, base EventBase, id EventID, data any)

// InstanceID 处理器注册令牌
//
// 零值表示"未注册"。
type InstanceID string

// NewInstanceID 生成新的注册令牌
func NewInstanceID() InstanceID {
	return InstanceID(uuid.NewString())
}

// IsZero 令牌是否为空
func (id InstanceID) IsZero() bool {
	return id == ""
}

// String 返回令牌字符串
func (id InstanceID) String() string {
	return string(id)
}
