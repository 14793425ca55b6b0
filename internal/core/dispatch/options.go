package dispatch

import (
	"github.com/dep2p/go-evsync/pkg/interfaces"
	"github.com/dep2p/go-evsync/pkg/types"
)

// RegisterOpt 注册选项
//
// 未指定的参数取自处理器身份。
type RegisterOpt func(*registerSettings)

type registerSettings struct {
	loop        interfaces.EventLoop
	defaultLoop bool
	base        types.EventBase
	id          types.EventID
	arg         any
}

// OnLoop 注册到指定事件循环
func OnLoop(loop interfaces.EventLoop) RegisterOpt {
	return func(s *registerSettings) {
		s.loop = loop
		s.defaultLoop = loop == nil
	}
}

// OnDefaultLoop 注册到默认事件循环，忽略身份中的循环
func OnDefaultLoop() RegisterOpt {
	return func(s *registerSettings) {
		s.loop = nil
		s.defaultLoop = true
	}
}

// ForBase 指定事件源
func ForBase(base types.EventBase) RegisterOpt {
	return func(s *registerSettings) {
		s.base = base
	}
}

// ForEvent 指定事件编号
func ForEvent(id types.EventID) RegisterOpt {
	return func(s *registerSettings) {
		s.id = id
	}
}

// AnyBase 订阅所有事件源的所有事件
func AnyBase() RegisterOpt {
	return func(s *registerSettings) {
		s.base = types.AnyBase
		s.id = types.AnyID
	}
}

// AnyEvent 订阅事件源下的所有事件
func AnyEvent() RegisterOpt {
	return ForEvent(types.AnyID)
}

// WithArg 指定注册时附带的用户数据
func WithArg(arg any) RegisterOpt {
	return func(s *registerSettings) {
		s.arg = arg
	}
}
