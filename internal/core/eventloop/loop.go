package eventloop

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-evsync/pkg/interfaces"
	"github.com/dep2p/go-evsync/pkg/lib/log"
	"github.com/dep2p/go-evsync/pkg/types"
)

var logger = log.Logger("core/eventloop")

// ============================================================================
// 配置
// ============================================================================

// Config 事件循环配置
type Config struct {
	// Name 循环名称（派发任务名）
	Name string

	// QueueSize 事件队列长度
	QueueSize int

	// MaxHandlers 最大注册数，0 表示不限制
	MaxHandlers int

	// DedicatedTask 是否启动专用派发任务
	DedicatedTask bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Name:          "sys_evt",
		QueueSize:     32,
		DedicatedTask: true,
	}
}

// Stats 循环统计
type Stats struct {
	// Posted 已入队事件数
	Posted uint64
	// Dispatched 已调用回调次数
	Dispatched uint64
	// Unhandled 没有任何回调匹配的事件数
	Unhandled uint64
	// Handlers 当前注册数
	Handlers int
}

// ============================================================================
// Loop 实现
// ============================================================================

// key 注册节点键
type key struct {
	base types.EventBase
	id   types.EventID
}

// instance 一次注册
type instance struct {
	token   types.InstanceID
	key     key
	fn      types.HandlerFunc
	arg     any
	removed atomic.Bool
}

// node 同一键下的注册列表（按注册顺序）
type node struct {
	handlers []*instance
}

// event 队列中的事件
type event struct {
	base types.EventBase
	id   types.EventID
	data any
}

// Loop 事件循环
type Loop struct {
	cfg Config

	mu        sync.RWMutex
	nodes     map[key]*node
	instances map[types.InstanceID]*instance

	queue     chan event
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	// runMu 保证无专用任务的循环同一时刻只有一个派发者
	runMu sync.Mutex

	posted     atomic.Uint64
	dispatched atomic.Uint64
	unhandled  atomic.Uint64
}

var _ interfaces.EventLoop = (*Loop)(nil)

// New 创建事件循环
//
// DedicatedTask 为 true 时立即启动派发任务。
func New(cfg Config) (*Loop, error) {
	if cfg.QueueSize <= 0 {
		return nil, fmt.Errorf("%w: queue size must be > 0", types.ErrInvalidArgument)
	}
	if cfg.MaxHandlers < 0 {
		return nil, fmt.Errorf("%w: max handlers must be >= 0", types.ErrInvalidArgument)
	}

	l := &Loop{
		cfg:       cfg,
		nodes:     make(map[key]*node),
		instances: make(map[types.InstanceID]*instance),
		queue:     make(chan event, cfg.QueueSize),
		closed:    make(chan struct{}),
	}

	if cfg.DedicatedTask {
		l.wg.Add(1)
		go l.task()
	}

	logger.Debug("event loop created", "name", cfg.Name, "queue", cfg.QueueSize, "dedicated", cfg.DedicatedTask)
	return l, nil
}

// Name 返回循环名称
func (l *Loop) Name() string {
	return l.cfg.Name
}

// RegisterHandler 注册回调
//
// AnyBase 只能与 AnyID 组合使用。
func (l *Loop) RegisterHandler(base types.EventBase, id types.EventID, fn types.HandlerFunc, arg any) (types.InstanceID, error) {
	if fn == nil || base == "" {
		return "", types.ErrInvalidArgument
	}
	if base.IsWildcard() && !id.IsWildcard() {
		return "", fmt.Errorf("%w: any base requires any id", types.ErrInvalidArgument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.isClosed() {
		return "", types.ErrLoopClosed
	}
	if l.cfg.MaxHandlers > 0 && len(l.instances) >= l.cfg.MaxHandlers {
		return "", fmt.Errorf("%w: loop %s has %d handlers", types.ErrResourceExhausted, l.cfg.Name, len(l.instances))
	}

	k := key{base: base, id: id}
	inst := &instance{
		token: types.NewInstanceID(),
		key:   k,
		fn:    fn,
		arg:   arg,
	}

	n, ok := l.nodes[k]
	if !ok {
		n = &node{}
		l.nodes[k] = n
	}
	n.handlers = append(n.handlers, inst)
	l.instances[inst.token] = inst

	logger.Debug("handler registered", "loop", l.cfg.Name, "base", base, "id", id, "instance", inst.token)
	return inst.token, nil
}

// UnregisterHandler 使用注册令牌注销回调
//
// (base, id) 必须与注册时一致。
func (l *Loop) UnregisterHandler(base types.EventBase, id types.EventID, token types.InstanceID) error {
	if token.IsZero() {
		return types.ErrInvalidArgument
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	inst, ok := l.instances[token]
	if !ok {
		return types.ErrHandlerNotFound
	}
	if inst.key != (key{base: base, id: id}) {
		return fmt.Errorf("%w: instance %s registered for (%s, %d)", types.ErrInvalidArgument, token, inst.key.base, inst.key.id)
	}

	inst.removed.Store(true)
	delete(l.instances, token)
	l.removeFromNode(inst)

	logger.Debug("handler unregistered", "loop", l.cfg.Name, "base", base, "id", id, "instance", token)
	return nil
}

// Registered 令牌是否对应一个有效注册
func (l *Loop) Registered(token types.InstanceID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.instances[token]
	return ok
}

// Post 投递事件
//
// 队列满时阻塞，ctx 结束时返回 types.ErrPostTimeout。
func (l *Loop) Post(ctx context.Context, base types.EventBase, id types.EventID, data any) error {
	if base == "" || base.IsWildcard() || id.IsWildcard() {
		return fmt.Errorf("%w: cannot post wildcard event", types.ErrInvalidArgument)
	}
	if l.isClosed() {
		return types.ErrLoopClosed
	}

	ev := event{base: base, id: id, data: data}

	select {
	case l.queue <- ev:
		l.posted.Add(1)
		return nil
	default:
	}

	select {
	case l.queue <- ev:
		l.posted.Add(1)
		return nil
	case <-l.closed:
		return types.ErrLoopClosed
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", types.ErrPostTimeout, ctx.Err())
	}
}

// Run 在调用方 goroutine 中派发事件，直到 d 耗尽、ctx 结束或循环关闭
//
// 仅用于无专用任务的循环。
func (l *Loop) Run(ctx context.Context, d time.Duration) error {
	if l.cfg.DedicatedTask {
		return fmt.Errorf("%w: loop %s has a dedicated task", types.ErrInvalidArgument, l.cfg.Name)
	}

	l.runMu.Lock()
	defer l.runMu.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case ev := <-l.queue:
			l.dispatch(ev)
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-l.closed:
			return types.ErrLoopClosed
		}
	}
}

// Stats 返回循环统计
func (l *Loop) Stats() Stats {
	l.mu.RLock()
	handlers := len(l.instances)
	l.mu.RUnlock()

	return Stats{
		Posted:     l.posted.Load(),
		Dispatched: l.dispatched.Load(),
		Unhandled:  l.unhandled.Load(),
		Handlers:   handlers,
	}
}

// Close 关闭循环
//
// 停止派发任务，丢弃队列中尚未派发的事件并清空注册。重复调用无副作用。
// 不能在回调中调用。
func (l *Loop) Close() error {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		close(l.closed)
		for _, inst := range l.instances {
			inst.removed.Store(true)
		}
		l.instances = make(map[types.InstanceID]*instance)
		l.nodes = make(map[key]*node)
		l.mu.Unlock()

		l.wg.Wait()

		pending := len(l.queue)
		if pending > 0 {
			logger.Warn("event loop closed with pending events dropped", "loop", l.cfg.Name, "pending", pending)
		}
		logger.Debug("event loop closed", "name", l.cfg.Name)
	})
	return nil
}

// ============================================================================
// 内部方法
// ============================================================================

func (l *Loop) isClosed() bool {
	select {
	case <-l.closed:
		return true
	default:
		return false
	}
}

// removeFromNode 从节点移除注册，节点为空时删除（调用方持有 l.mu）
func (l *Loop) removeFromNode(inst *instance) {
	n, ok := l.nodes[inst.key]
	if !ok {
		return
	}

	for i, h := range n.handlers {
		if h == inst {
			n.handlers = append(n.handlers[:i:i], n.handlers[i+1:]...)
			break
		}
	}

	if len(n.handlers) == 0 {
		delete(l.nodes, inst.key)
	}
}

// task 专用派发任务
func (l *Loop) task() {
	defer l.wg.Done()

	for {
		select {
		case ev := <-l.queue:
			l.dispatch(ev)
		case <-l.closed:
			return
		}
	}
}

// snapshot 按派发顺序收集匹配的注册
func (l *Loop) snapshot(ev event) []*instance {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*instance
	for _, k := range [...]key{
		{base: types.AnyBase, id: types.AnyID},
		{base: ev.base, id: types.AnyID},
		{base: ev.base, id: ev.id},
	} {
		if n, ok := l.nodes[k]; ok {
			out = append(out, n.handlers...)
		}
	}
	return out
}

// dispatch 把事件派发给所有匹配的回调
func (l *Loop) dispatch(ev event) {
	handlers := l.snapshot(ev)
	if len(handlers) == 0 {
		l.unhandled.Add(1)
		return
	}

	for _, inst := range handlers {
		if inst.removed.Load() {
			continue
		}
		l.invoke(inst, ev)
	}
}

// invoke 调用单个回调，回调 panic 不会终止派发任务
func (l *Loop) invoke(inst *instance, ev event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event handler panicked",
				"loop", l.cfg.Name,
				"base", ev.base,
				"id", ev.id,
				"instance", inst.token,
				"panic", r)
		}
	}()

	l.dispatched.Add(1)
	inst.fn(inst.arg, ev.base, ev.id, ev.data)
}
