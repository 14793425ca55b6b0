// Package types 定义 evsync 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 evsync 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - event.go     - EventBase, EventID, 通配符, InstanceID, HandlerFunc
//   - enums.go     - Kind, Storage, SemaphoreState, SubscriptionState
//   - errors.go    - 公共错误定义
package types
