package dispatch

import (
	"errors"
	"sync"

	"github.com/dep2p/go-evsync/pkg/types"
)

// Auto 作用域注册守卫
//
// 创建时可选地注册，Close 时若仍处于注册状态则注销。
// 典型用法：
//
//	auto, err := ctrl.Auto(true)
//	if err != nil { ... }
//	defer auto.Close()
type Auto struct {
	ctrl      *Controller
	closeOnce sync.Once
}

// Auto 创建作用域守卫，register 为 true 时立即注册
func (c *Controller) Auto(register bool, opts ...RegisterOpt) (*Auto, error) {
	if register {
		if err := c.Register(opts...); err != nil {
			return nil, err
		}
	}
	return &Auto{ctrl: c}, nil
}

// Register 注册处理器
func (a *Auto) Register(opts ...RegisterOpt) error {
	return a.ctrl.Register(opts...)
}

// Unregister 注销处理器
func (a *Auto) Unregister() error {
	return a.ctrl.Unregister()
}

// Registered 是否已注册
func (a *Auto) Registered() bool {
	return a.ctrl.State() == types.Registered
}

// Controller 返回底层控制器
func (a *Auto) Controller() *Controller {
	return a.ctrl
}

// Close 若仍处于注册状态则注销，重复调用无副作用
func (a *Auto) Close() error {
	var err error
	a.closeOnce.Do(func() {
		if uerr := a.ctrl.Unregister(); uerr != nil && !errors.Is(uerr, types.ErrNotRegistered) {
			err = uerr
		}
	})
	return err
}
