// Package rtos 实现信号量原语
//
// 提供 FreeRTOS 风格的二值/计数信号量，两种存储方式：
//   - 动态：控制块由 Kernel 分配，占用一个堆槽位，槽位耗尽时创建返回 nil
//   - 静态：控制块 StaticSemaphore 由调用方提供（通常内嵌在持有者结构中），不占用槽位
//
// 所有创建函数在失败时返回 nil 句柄，由上层把 nil 转换为错误。
//
// # 并发安全
//
// 同一句柄上的 Take/Give/Count 可以在任意 goroutine 并发调用。
// Delete 会唤醒所有阻塞在 Take 上的调用方（返回 false）。
//
// # Fx 模块
//
//	app := fx.New(
//	    rtos.Module,
//	    fx.Invoke(func(alloc rtos.Allocator) {
//	        h := alloc.CreateBinary()
//	        // ...
//	    }),
//	)
package rtos
