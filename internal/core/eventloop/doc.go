// Package eventloop 实现进程内事件循环
//
// 事件以 (EventBase, EventID) 标识，投递到循环的队列后由单一派发任务
// 顺序调用匹配的回调。支持：
//   - 通配注册（types.AnyBase / types.AnyID）
//   - 注册令牌（types.InstanceID）与按令牌注销
//   - 注册数上限（超过返回 types.ErrResourceExhausted）
//   - 无专用任务的循环，由调用方通过 Run 驱动
//   - 默认循环（System），由 Fx 生命周期创建与删除
//
// # 快速开始
//
//	loop, _ := eventloop.New(eventloop.DefaultConfig())
//	defer loop.Close()
//
//	token, _ := loop.RegisterHandler(base, 42, func(arg any, b types.EventBase, id types.EventID, data any) {
//	    // 处理事件
//	}, nil)
//	defer loop.UnregisterHandler(base, 42, token)
//
//	loop.Post(ctx, base, 42, payload)
//
// # 派发顺序
//
// 同一事件依次调用：注册到 AnyBase 的回调、注册到 (base, AnyID) 的回调、
// 注册到 (base, id) 的回调；同一级别内按注册顺序。
//
// # 并发安全
//
// 注册表由 sync.RWMutex 保护，派发前复制快照后在锁外调用回调，
// 因此回调内可以注册或注销处理器。注销返回后，新派发的事件不会再调用该回调；
// 若注销时回调正在执行，该次调用会执行完毕。
package eventloop
