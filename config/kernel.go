package config

import (
	"fmt"

	"github.com/dep2p/go-evsync/pkg/types"
)

// KernelConfig 内核原语配置
type KernelConfig struct {
	// MaxSemaphores 动态分配信号量的堆槽位数
	// 0 表示不限制；静态存储的信号量不占用槽位
	MaxSemaphores int `json:"max_semaphores" yaml:"max_semaphores"`
}

// DefaultKernelConfig 返回默认内核配置
func DefaultKernelConfig() KernelConfig {
	return KernelConfig{
		MaxSemaphores: 0,
	}
}

// Validate 验证内核配置
func (c KernelConfig) Validate() error {
	if c.MaxSemaphores < 0 {
		return fmt.Errorf("%w: kernel.max_semaphores must be >= 0", types.ErrInvalidConfiguration)
	}
	return nil
}
