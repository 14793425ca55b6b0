package evsync

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-evsync/config"
	"github.com/dep2p/go-evsync/internal/core/eventloop"
	"github.com/dep2p/go-evsync/internal/core/rtos"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序：配置 → 内核 → 事件循环系统 → 用户 Fx 选项。
func buildFxApp(o *options, rt *Runtime) (*fx.App, error) {
	if err := config.ValidateAll(o.config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(o.config),

		rtos.Module,
		eventloop.Module(),

		fx.Populate(&rt.kernel, &rt.loops),
	}

	modules = append(modules, o.fxOptions...)

	// 禁用 Fx 日志输出（避免干扰用户日志）
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}
