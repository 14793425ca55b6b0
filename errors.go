package evsync

import (
	"errors"

	"github.com/dep2p/go-evsync/pkg/types"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 运行时生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 运行时未启动
	ErrNotStarted = errors.New("runtime not started")

	// ErrAlreadyStarted 运行时已启动
	ErrAlreadyStarted = errors.New("runtime already started")

	// ErrRuntimeClosed 运行时已关闭
	ErrRuntimeClosed = errors.New("runtime closed")

	// ────────────────────────────────────────────────────────────────────────
	// 信号量错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrCreationFailed 底层信号量创建失败
	ErrCreationFailed = types.ErrCreationFailed

	// ErrAlreadyCreated 信号量已创建
	ErrAlreadyCreated = types.ErrAlreadyCreated

	// ErrNotInitialized 信号量未初始化或已销毁
	ErrNotInitialized = types.ErrNotInitialized

	// ErrSaturated 信号量已达上限
	ErrSaturated = types.ErrSaturated

	// ErrTimedOut 等待超时
	ErrTimedOut = types.ErrTimedOut

	// ErrInvalidConfiguration 参数非法
	ErrInvalidConfiguration = types.ErrInvalidConfiguration

	// ────────────────────────────────────────────────────────────────────────
	// 注册与事件循环错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrAlreadyRegistered 处理器已注册
	ErrAlreadyRegistered = types.ErrAlreadyRegistered

	// ErrNotRegistered 处理器未注册
	ErrNotRegistered = types.ErrNotRegistered

	// ErrResourceExhausted 事件循环无法接受更多注册
	ErrResourceExhausted = types.ErrResourceExhausted

	// ErrLoopClosed 事件循环已关闭
	ErrLoopClosed = types.ErrLoopClosed

	// ErrNoDefaultLoop 默认事件循环不存在
	ErrNoDefaultLoop = types.ErrNoDefaultLoop

	// ErrPostTimeout 投递超时
	ErrPostTimeout = types.ErrPostTimeout
)
