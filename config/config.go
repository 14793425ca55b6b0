// Package config 提供统一的配置管理
//
// 主 Config 结构体嵌入所有子配置，每个子配置在独立文件中定义，
// 支持从 JSON 或 YAML 加载和保存配置。
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.EventLoop.QueueSize = 64
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 是 evsync 的完整配置结构
//
// 配置按照功能模块组织：
//   - Kernel: 信号量分配（堆槽位）
//   - EventLoop: 默认事件循环
//   - Sync: 事件同步器（NotifyBridge）默认参数
type Config struct {
	// Kernel 内核原语配置
	Kernel KernelConfig `json:"kernel" yaml:"kernel"`

	// EventLoop 默认事件循环配置
	EventLoop EventLoopConfig `json:"event_loop" yaml:"event_loop"`

	// Sync 事件同步器配置
	Sync SyncConfig `json:"sync" yaml:"sync"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Kernel:    DefaultKernelConfig(),
		EventLoop: DefaultEventLoopConfig(),
		Sync:      DefaultSyncConfig(),
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if err := c.Kernel.Validate(); err != nil {
		return err
	}
	if err := c.EventLoop.Validate(); err != nil {
		return err
	}
	if err := c.Sync.Validate(); err != nil {
		return err
	}
	return nil
}

// FromJSON 从 JSON 数据加载配置
//
// 未出现的字段保持默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// FromYAML 从 YAML 数据加载配置
//
// 未出现的字段保持默认值。
func FromYAML(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// FromFile 从配置文件加载配置
//
// .yaml / .yml 按 YAML 解析，其余按 JSON 解析。
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return FromJSON(data)
	}
}

// ToJSON 将配置序列化为 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// ToYAML 将配置序列化为 YAML
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}
