package eventloop

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-evsync/config"
	"github.com/dep2p/go-evsync/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// ConfigFromUnified 从统一配置创建默认循环配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Name:          cfg.EventLoop.TaskName,
		QueueSize:     cfg.EventLoop.QueueSize,
		MaxHandlers:   cfg.EventLoop.MaxHandlers,
		DedicatedTask: true,
	}
}

// Params System 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	System   *System
	Provider interfaces.LoopProvider
}

// ProvideSystem 提供 System 实例
func ProvideSystem(p Params) Result {
	s := NewSystem(ConfigFromUnified(p.UnifiedCfg))
	return Result{
		System:   s,
		Provider: s,
	}
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("eventloop",
		fx.Provide(ProvideSystem),
		fx.Invoke(registerLifecycle),
	)
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC     fx.Lifecycle
	System *System
}

// registerLifecycle 启动时创建默认循环，停止时删除
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return input.System.CreateDefault()
		},
		OnStop: func(_ context.Context) error {
			return input.System.DeleteDefault()
		},
	})
}
