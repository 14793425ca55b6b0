package dispatch

import (
	"github.com/dep2p/go-evsync/pkg/interfaces"
	"github.com/dep2p/go-evsync/pkg/types"
)

// Handle 订阅句柄
//
// 记录一次注册的 (Base, ID, Arg)、目标循环和注册令牌。
// 令牌非空当且仅当处于 Registered 状态。
type Handle struct {
	Base types.EventBase
	ID   types.EventID
	Arg  any

	loop  interfaces.EventLoop
	token types.InstanceID
}

// State 返回订阅状态
func (h Handle) State() types.SubscriptionState {
	if h.token.IsZero() {
		return types.Unregistered
	}
	return types.Registered
}

// Registered 是否已注册
func (h Handle) Registered() bool {
	return !h.token.IsZero()
}

// Token 返回注册令牌，未注册时为空
func (h Handle) Token() types.InstanceID {
	return h.token
}

// Loop 返回注册所在的事件循环，未注册时为 nil
func (h Handle) Loop() interfaces.EventLoop {
	return h.loop
}
