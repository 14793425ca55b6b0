// Package types 定义 evsync 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              信号量相关错误
// ============================================================================

var (
	// ErrCreationFailed 创建底层对象失败（资源耗尽）
	ErrCreationFailed = errors.New("creation failed")

	// ErrAlreadyCreated 信号量已创建
	ErrAlreadyCreated = errors.New("semaphore already created")

	// ErrNotInitialized 信号量未初始化（严格模式）
	ErrNotInitialized = errors.New("semaphore not initialized")

	// ErrSaturated 释放超过容量
	ErrSaturated = errors.New("semaphore saturated")

	// ErrTimedOut 获取超时，属于正常结果而非故障
	ErrTimedOut = errors.New("timed out")

	// ErrInvalidConfiguration 无效配置
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ============================================================================
//                              订阅相关错误
// ============================================================================

var (
	// ErrAlreadyRegistered 处理器已注册
	ErrAlreadyRegistered = errors.New("handler already registered")

	// ErrNotRegistered 处理器未注册
	ErrNotRegistered = errors.New("handler not registered")

	// ErrResourceExhausted 事件循环无法再添加注册
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrHandlerNotFound 注册令牌不存在
	ErrHandlerNotFound = errors.New("handler instance not found")
)

// ============================================================================
//                              事件循环相关错误
// ============================================================================

var (
	// ErrInvalidArgument 无效参数
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLoopClosed 事件循环已关闭
	ErrLoopClosed = errors.New("event loop closed")

	// ErrNoDefaultLoop 默认事件循环未创建
	ErrNoDefaultLoop = errors.New("default event loop not created")

	// ErrDefaultLoopExists 默认事件循环已存在
	ErrDefaultLoopExists = errors.New("default event loop already exists")

	// ErrPostTimeout 事件队列已满，投递超时
	ErrPostTimeout = errors.New("event post timeout")
)
