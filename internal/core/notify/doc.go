// Package notify 把异步事件通知转换为可等待的信号量
//
// Sync 是一个事件处理器：持有一个 waitsem.Semaphore，每次被派发时释放一个单位，
// 消费者任务通过 Wait 阻塞直到至少发生过一次事件。
//
//   - 二值模式：未被消费的多次通知合并为一次（"上次等待后至少发生过一次事件"）
//   - 计数模式：最多累积 maxCount 次未被消费的通知
//
// 超出容量的通知被计入 Saturated 并以限速日志告警，不会排队。
//
// # 使用方式
//
//	s, _ := notify.New(kernel, types.IPEvent, 0)
//	defer s.Close()
//
//	ctrl := dispatch.Bind(system, s)
//	ctrl.Register()
//	defer ctrl.Unregister()
//
//	if err := s.Wait(5 * time.Second); errors.Is(err, types.ErrTimedOut) { ... }
package notify
