package evsync

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/dep2p/go-evsync/config"
	"github.com/dep2p/go-evsync/pkg/types"
)

// Option 运行时配置选项
type Option func(*options) error

// options 内部选项结构
type options struct {
	config *config.Config

	// 用户自定义 Fx 选项
	fxOptions []fx.Option
}

func newOptions() *options {
	return &options{
		config: config.NewConfig(),
	}
}

// WithConfig 使用完整配置
//
// 之后的选项在此配置基础上修改。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", types.ErrInvalidConfiguration)
		}
		c := *cfg
		o.config = &c
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.FromFile(path)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithMaxSemaphores 设置动态信号量堆槽位数，0 表示不限制
func WithMaxSemaphores(n int) Option {
	return func(o *options) error {
		o.config.Kernel.MaxSemaphores = n
		return nil
	}
}

// WithQueueSize 设置事件队列长度
func WithQueueSize(n int) Option {
	return func(o *options) error {
		o.config.EventLoop.QueueSize = n
		return nil
	}
}

// WithMaxHandlers 设置每个事件循环的注册上限，0 表示不限制
func WithMaxHandlers(n int) Option {
	return func(o *options) error {
		o.config.EventLoop.MaxHandlers = n
		return nil
	}
}

// WithSemaphoreStorage 设置新建信号量的默认存储策略
func WithSemaphoreStorage(s types.Storage) Option {
	return func(o *options) error {
		o.config.Sync.Storage = s.String()
		return nil
	}
}

// WithStrictInit 要求信号量显式初始化
func WithStrictInit(strict bool) Option {
	return func(o *options) error {
		o.config.Sync.StrictInit = strict
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
