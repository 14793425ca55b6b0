package evsync

import (
	"github.com/dep2p/go-evsync/internal/core/dispatch"
	"github.com/dep2p/go-evsync/internal/core/eventloop"
	"github.com/dep2p/go-evsync/internal/core/notify"
	"github.com/dep2p/go-evsync/internal/core/waitsem"
	"github.com/dep2p/go-evsync/pkg/interfaces"
	"github.com/dep2p/go-evsync/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              事件标识
// ════════════════════════════════════════════════════════════════════════════

type (
	// EventBase 事件族
	EventBase = types.EventBase

	// EventID 事件族内的事件编号
	EventID = types.EventID

	// HandlerFunc 事件循环回调
	HandlerFunc = types.HandlerFunc

	// InstanceID 注册令牌
	InstanceID = types.InstanceID
)

const (
	// AnyBase 匹配任意事件族，仅用于注册
	AnyBase = types.AnyBase

	// AnyID 匹配族内任意事件，仅用于注册
	AnyID = types.AnyID

	// WiFiEvent 无线网络事件族
	WiFiEvent = types.WiFiEvent

	// IPEvent IP 事件族
	IPEvent = types.IPEvent

	// WaitForever 无限等待
	WaitForever = types.WaitForever
)

// ════════════════════════════════════════════════════════════════════════════
//                              信号量
// ════════════════════════════════════════════════════════════════════════════

type (
	// Semaphore 可等待信号量
	Semaphore = waitsem.Semaphore

	// Kind 信号量类型
	Kind = types.Kind

	// Storage 信号量存储策略
	Storage = types.Storage
)

const (
	KindBinary   = types.KindBinary
	KindCounting = types.KindCounting

	StorageDynamic = types.StorageDynamic
	StorageStatic  = types.StorageStatic
)

// ════════════════════════════════════════════════════════════════════════════
//                              注册与派发
// ════════════════════════════════════════════════════════════════════════════

type (
	// EventLoop 事件循环
	EventLoop = interfaces.EventLoop

	// Loop 具体事件循环实现
	Loop = eventloop.Loop

	// LoopStats 事件循环统计
	LoopStats = eventloop.Stats

	// EventHandler 实例处理器
	EventHandler = interfaces.EventHandler

	// BoundHandler 自带注册身份的处理器
	BoundHandler = interfaces.BoundHandler

	// Identity 注册身份
	Identity = interfaces.Identity

	// Controller 注册控制器
	Controller = dispatch.Controller

	// Handle 注册句柄快照
	Handle = dispatch.Handle

	// AutoRegistration 作用域注册守卫
	AutoRegistration = dispatch.Auto

	// RegisterOpt 注册选项
	RegisterOpt = dispatch.RegisterOpt

	// Sync 事件同步器
	Sync = notify.Sync

	// SyncOption 事件同步器选项
	SyncOption = notify.Option
)

// 注册选项
var (
	OnLoop        = dispatch.OnLoop
	OnDefaultLoop = dispatch.OnDefaultLoop
	ForBase       = dispatch.ForBase
	ForEvent      = dispatch.ForEvent
	ForAnyBase    = dispatch.AnyBase
	ForAnyEvent   = dispatch.AnyEvent
	WithArg       = dispatch.WithArg
)

// 同步器选项
var (
	SyncCounting = notify.WithCounting
	SyncOpened   = notify.WithOpened
	SyncArg      = notify.WithArg
	SyncLoop     = notify.WithLoop
	SyncStorage  = notify.WithStorage
)
