// Package waitsem 实现可等待信号量
//
// Semaphore 独占一个底层信号量句柄，提供：
//   - 二值与计数两种类型，动态与静态两种存储，对外接口一致
//   - 显式初始化（InitBinary / InitCounting），或在首次 Take/Give 时
//     按需创建一个初始不可用的二值信号量
//   - 幂等的 Destroy，销毁后可重新初始化
//
// # 状态机
//
//	Uninitialized --Init/Take/Give--> Created --Destroy--> Uninitialized
//
// 启用 WithStrictInit 后，未初始化时的 Take/Give 返回 types.ErrNotInitialized，
// 不再按需创建。
//
// # 并发安全
//
// Take/Give/Count 可在多个 goroutine 上并发调用；只有 Take 会阻塞。
// 生命周期操作（Init/Destroy）由内部互斥锁串行化，Take 阻塞期间不持有锁。
package waitsem
