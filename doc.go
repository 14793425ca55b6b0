// Package evsync 把异步事件通知转换为可等待的信号量
//
// evsync 面向"事件循环 + 任务"模型：生产方向事件循环投递 (base, id) 事件，
// 消费方任务在信号量上阻塞，直到某个事件至少发生过一次。
//
// # 核心概念
//
//   - Semaphore: 可等待信号量（二值/计数，动态/静态存储，支持按需创建）
//   - Controller: 注册控制器，管理处理器在事件循环上的注册状态
//   - Sync: 事件同步器，收到事件即释放自身持有的信号量
//   - Runtime: 组装内核、默认事件循环与上述组件的运行时
//
// # 快速开始
//
//	rt, err := evsync.Start(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	sub, err := rt.Subscribe(evsync.IPEvent, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sub.Close()
//
//	go rt.Post(ctx, evsync.IPEvent, 1, nil)
//
//	if err := sub.Wait(5 * time.Second); errors.Is(err, evsync.ErrTimedOut) {
//	    // 超时
//	}
//
// # 派发顺序
//
// 事件 (base, id) 依次派发给：以 AnyBase 注册的处理器、以 (base, AnyID)
// 注册的处理器、以 (base, id) 注册的处理器；同一级别内按注册顺序。
//
// # 文件组织
//
//   - runtime.go: Runtime 生命周期与工厂方法
//   - fx.go: Fx 应用组装
//   - options.go: 运行时选项
//   - subscription.go: 注册与同步器组合
//   - types.go: 公共类型别名
//   - errors.go: 公共错误
package evsync
