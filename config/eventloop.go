package config

import (
	"fmt"

	"github.com/dep2p/go-evsync/pkg/types"
)

// EventLoopConfig 事件循环配置
type EventLoopConfig struct {
	// QueueSize 事件队列长度
	QueueSize int `json:"queue_size" yaml:"queue_size"`

	// MaxHandlers 最大注册数，0 表示不限制
	MaxHandlers int `json:"max_handlers" yaml:"max_handlers"`

	// TaskName 派发任务名称（用于日志）
	TaskName string `json:"task_name" yaml:"task_name"`

	// DedicatedTask 是否为循环启动专用派发任务
	// 为 false 时需要调用方通过 Run 驱动派发
	DedicatedTask bool `json:"dedicated_task" yaml:"dedicated_task"`
}

// DefaultEventLoopConfig 返回默认事件循环配置
func DefaultEventLoopConfig() EventLoopConfig {
	return EventLoopConfig{
		QueueSize:     32,
		MaxHandlers:   0,
		TaskName:      "sys_evt",
		DedicatedTask: true,
	}
}

// Validate 验证事件循环配置
func (c EventLoopConfig) Validate() error {
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: event_loop.queue_size must be > 0", types.ErrInvalidConfiguration)
	}
	if c.MaxHandlers < 0 {
		return fmt.Errorf("%w: event_loop.max_handlers must be >= 0", types.ErrInvalidConfiguration)
	}
	return nil
}
