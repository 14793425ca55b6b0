package interfaces

import "github.com/dep2p/go-evsync/pkg/types"

// EventHandler 事件处理能力
//
// InstanceHandler 在事件循环的派发任务中执行，不应长时间阻塞。
type EventHandler interface {
	InstanceHandler(arg any, base types.EventBase, id types.EventID, data any)
}

// Identity 处理器订阅身份
//
// 描述处理器默认订阅的 (Base, ID) 事件、注册时附带的用户数据，
// 以及目标事件循环；Loop 为 nil 表示默认事件循环。
type Identity struct {
	Base types.EventBase
	ID   types.EventID
	Arg  any
	Loop EventLoop
}

// BoundHandler 携带订阅身份的事件处理器
type BoundHandler interface {
	EventHandler

	// Identity 返回处理器的订阅身份
	Identity() Identity
}
