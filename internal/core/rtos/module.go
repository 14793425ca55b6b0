package rtos

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-evsync/config"
)

// ConfigFromUnified 从统一配置创建内核配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return Config{}
	}
	return Config{
		MaxSemaphores: cfg.Kernel.MaxSemaphores,
	}
}

// Params Kernel 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Result Kernel 导出结果
type Result struct {
	fx.Out

	Kernel    *Kernel
	Allocator Allocator
}

// ProvideKernel 提供 Kernel 实例
func ProvideKernel(p Params) Result {
	k := NewKernel(ConfigFromUnified(p.UnifiedCfg))
	return Result{
		Kernel:    k,
		Allocator: k,
	}
}

// Module 是 rtos 的 Fx 模块
var Module = fx.Module("rtos",
	fx.Provide(ProvideKernel),
)
