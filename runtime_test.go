package evsync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/go-evsync/config"
)

const baseX EventBase = "BASE_X"

func startRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	rt, err := Start(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

// ============================================================================
// 生命周期
// ============================================================================

// TestRuntime_Lifecycle 测试启动、停止与关闭
func TestRuntime_Lifecycle(t *testing.T) {
	ctx := context.Background()

	rt, err := New()
	require.NoError(t, err)

	_, err = rt.DefaultLoop()
	assert.True(t, errors.Is(err, ErrNoDefaultLoop))
	assert.True(t, errors.Is(rt.Stop(ctx), ErrNotStarted))

	require.NoError(t, rt.Start(ctx))
	assert.True(t, rt.Started())
	assert.True(t, errors.Is(rt.Start(ctx), ErrAlreadyStarted))

	loop, err := rt.DefaultLoop()
	require.NoError(t, err)
	assert.Equal(t, "sys_evt", loop.Name())

	require.NoError(t, rt.Close())
	require.NoError(t, rt.Close())
	assert.False(t, rt.Started())
	assert.True(t, errors.Is(rt.Start(ctx), ErrRuntimeClosed))

	_, err = rt.DefaultLoop()
	assert.True(t, errors.Is(err, ErrNoDefaultLoop))
}

// TestRuntime_InvalidConfig 测试非法配置被拒绝
func TestRuntime_InvalidConfig(t *testing.T) {
	_, err := New(WithQueueSize(0))
	assert.Error(t, err)

	_, err = New(WithConfig(nil))
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
}

// TestRuntime_ConfigFile 测试从文件加载配置
func TestRuntime_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evsync.json")
	data := []byte(`{"event_loop":{"task_name":"custom","queue_size":4},"sync":{"storage":"static"}}`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	rt := startRuntime(t, WithConfigFile(path))
	assert.Equal(t, 4, rt.Config().EventLoop.QueueSize)

	loop, err := rt.DefaultLoop()
	require.NoError(t, err)
	assert.Equal(t, "custom", loop.Name())

	sem := rt.NewSemaphore()
	assert.Equal(t, StorageStatic, sem.Storage())
}

// TestRuntime_FxOptions 测试自定义 Fx 选项可以获取内部组件
func TestRuntime_FxOptions(t *testing.T) {
	var cfg *config.Config
	rt := startRuntime(t, WithFxOptions(fx.Populate(&cfg)))
	assert.Same(t, rt.Config(), cfg)
}

// ============================================================================
// 工厂方法
// ============================================================================

// TestRuntime_Semaphores 测试信号量工厂使用配置
func TestRuntime_Semaphores(t *testing.T) {
	rt := startRuntime(t, WithMaxSemaphores(1))

	b, err := rt.NewBinary(true)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Count())
	assert.Equal(t, 1, rt.KernelStats().HeapUsed)

	_, err = rt.NewCounting(3, 1)
	assert.True(t, errors.Is(err, ErrCreationFailed))

	b.Destroy()
	c, err := rt.NewCounting(3, 1)
	require.NoError(t, err)
	defer c.Destroy()
	assert.Equal(t, KindCounting, c.Kind())
}

// TestRuntime_StrictInit 测试严格模式禁用按需创建
func TestRuntime_StrictInit(t *testing.T) {
	rt := startRuntime(t, WithStrictInit(true))

	sem := rt.NewSemaphore()
	assert.True(t, errors.Is(sem.Take(0), ErrNotInitialized))
	assert.True(t, errors.Is(sem.Give(), ErrNotInitialized))
	assert.False(t, sem.Created())
}

// TestRuntime_Controller 测试控制器在默认循环上派发
func TestRuntime_Controller(t *testing.T) {
	rt := startRuntime(t)

	var calls atomic.Int32
	h := handlerFunc(func(arg any, base EventBase, id EventID, data any) {
		calls.Add(1)
	})

	ctrl := rt.NewController(h, Identity{Base: baseX, ID: AnyID})
	require.NoError(t, ctrl.Register())
	defer ctrl.Unregister()

	ctx := context.Background()
	require.NoError(t, rt.Post(ctx, baseX, 1, nil))
	require.NoError(t, rt.Post(ctx, baseX, 2, nil))

	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

// ============================================================================
// Subscription
// ============================================================================

// TestSubscribe_DefaultLoop 测试默认循环上的订阅
func TestSubscribe_DefaultLoop(t *testing.T) {
	rt := startRuntime(t)

	sub, err := rt.Subscribe(baseX, 42)
	require.NoError(t, err)
	defer sub.Close()
	assert.True(t, sub.Registered())
	assert.Equal(t, baseX, sub.Handle().Base)

	done := make(chan error, 1)
	go func() { done <- sub.Wait(WaitForever) }()

	require.NoError(t, rt.Post(context.Background(), baseX, 42, nil))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("subscription not notified")
	}

	require.NoError(t, sub.Close())
	assert.False(t, sub.Registered())
	require.NoError(t, sub.Close())
}

// TestSubscribe_ExplicitLoop 测试显式循环上的订阅
func TestSubscribe_ExplicitLoop(t *testing.T) {
	rt := startRuntime(t)

	loop, err := rt.NewLoop("app_evt", false)
	require.NoError(t, err)
	defer loop.Close()

	sub, err := rt.Subscribe(baseX, 1, SyncLoop(loop), SyncCounting(2, 0))
	require.NoError(t, err)
	defer sub.Close()

	ctx := context.Background()
	require.NoError(t, loop.Post(ctx, baseX, 1, nil))
	require.NoError(t, loop.Post(ctx, baseX, 1, nil))

	// 无专用任务，派发前没有通知
	assert.True(t, errors.Is(sub.Wait(0), ErrTimedOut))

	require.NoError(t, loop.Run(ctx, 20*time.Millisecond))
	require.NoError(t, sub.Wait(0))
	require.NoError(t, sub.Wait(0))
	assert.Equal(t, uint64(2), sub.Sync().Notified())
}

// TestSubscribe_CloseAfterStop 测试默认循环删除后关闭订阅
func TestSubscribe_CloseAfterStop(t *testing.T) {
	rt := startRuntime(t)

	sub, err := rt.Subscribe(baseX, 1)
	require.NoError(t, err)

	require.NoError(t, rt.Stop(context.Background()))
	assert.NoError(t, sub.Close())
}

// TestSubscribe_RegisterFailure 测试注册失败时同步器被关闭
func TestSubscribe_RegisterFailure(t *testing.T) {
	rt, err := New()
	require.NoError(t, err)
	defer rt.Close()

	_, err = rt.Subscribe(baseX, 1)
	assert.True(t, errors.Is(err, ErrNoDefaultLoop))
	assert.Equal(t, int64(0), rt.KernelStats().Live)
}

// handlerFunc 函数形式的 EventHandler
type handlerFunc func(arg any, base EventBase, id EventID, data any)

func (f handlerFunc) InstanceHandler(arg any, base EventBase, id EventID, data any) {
	f(arg, base, id, data)
}
