// Package interfaces 定义 evsync 公共接口
//
// 本文件定义 EventLoop 接口，提供事件处理器注册与事件投递功能。
package interfaces

import (
	"context"

	"github.com/dep2p/go-evsync/pkg/types"
)

// EventLoop 定义事件循环接口
//
// 事件循环在自己的派发任务中按 (base, id) 把投递的事件路由给已注册的回调。
// types.AnyBase 与 types.AnyID 仅可用于注册。
type EventLoop interface {
	// RegisterHandler 注册回调，返回注册令牌
	//
	// 无法再添加注册时返回 types.ErrResourceExhausted。
	RegisterHandler(base types.EventBase, id types.EventID, fn types.HandlerFunc, arg any) (types.InstanceID, error)

	// UnregisterHandler 使用注册令牌注销回调
	UnregisterHandler(base types.EventBase, id types.EventID, inst types.InstanceID) error

	// Post 投递事件，队列满时阻塞直到 ctx 结束
	Post(ctx context.Context, base types.EventBase, id types.EventID, data any) error
}

// LoopProvider 提供平台默认事件循环
type LoopProvider interface {
	// DefaultLoop 返回默认事件循环，未创建时返回 types.ErrNoDefaultLoop
	DefaultLoop() (EventLoop, error)
}
