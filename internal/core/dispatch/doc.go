// Package dispatch 把事件处理器绑定到事件循环
//
// Controller 为一个处理器实例生成唯一的派发跳板（trampoline），并驱动其
// 订阅句柄 Handle 完成注册/注销：
//
//	Unregistered --Register--> Registered --Unregister--> Unregistered
//
// 已注册时再次 Register 返回 types.ErrAlreadyRegistered，未注册时 Unregister
// 返回 types.ErrNotRegistered。Unregister 总是清除注册令牌，并且总是在注册时
// 使用的事件循环上注销。
//
// # 使用方式
//
//	ctrl := dispatch.Bind(system, handler) // handler 实现 interfaces.BoundHandler
//
//	// 按处理器身份注册到其默认循环
//	if err := ctrl.Register(); err != nil { ... }
//	defer ctrl.Unregister()
//
//	// 覆盖注册参数
//	ctrl.Register(dispatch.OnLoop(loop), dispatch.AnyEvent())
//
//	// 作用域内自动注册/注销
//	auto, err := ctrl.Auto(true)
//	defer auto.Close()
//
// # 并发
//
// 生命周期操作由内部互斥锁串行化，但设计上应由唯一的持有者任务调用。
// 派发在事件循环的任务中执行，只读取绑定的处理器，不访问注册令牌。
package dispatch
