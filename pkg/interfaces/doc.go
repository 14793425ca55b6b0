// Package interfaces 定义 evsync 的公共接口
//
// 本包只定义能力契约，不包含实现：
//   - eventloop.go      - 事件循环（注册/注销/投递）与默认循环提供者
//   - handler.go        - 事件处理器（普通处理器与携带身份的处理器）
//
// 实现位于 internal/core/eventloop 与 internal/core/dispatch。
package interfaces
