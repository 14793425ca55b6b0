package config

import (
	"errors"

	"github.com/dep2p/go-evsync/pkg/types"
)

// ValidateAll 验证整个配置的有效性
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - 队列长度非正 -> 使用默认值
//   - 负的槽位数或注册上限 -> 不限制
//   - 未知存储策略 -> dynamic
//   - 空的任务名 -> 默认任务名
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	def := NewConfig()
	if c.EventLoop.QueueSize <= 0 {
		c.EventLoop.QueueSize = def.EventLoop.QueueSize
	}
	if c.EventLoop.MaxHandlers < 0 {
		c.EventLoop.MaxHandlers = 0
	}
	if c.EventLoop.TaskName == "" {
		c.EventLoop.TaskName = def.EventLoop.TaskName
	}
	if c.Kernel.MaxSemaphores < 0 {
		c.Kernel.MaxSemaphores = 0
	}
	if _, err := types.ParseStorage(c.Sync.Storage); err != nil {
		c.Sync.Storage = def.Sync.Storage
	}
	if c.Sync.SaturationLogInterval < 0 {
		c.Sync.SaturationLogInterval = def.Sync.SaturationLogInterval
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
