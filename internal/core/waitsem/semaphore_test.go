package waitsem

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-evsync/internal/core/rtos"
	"github.com/dep2p/go-evsync/pkg/types"
)

const short = 15 * time.Millisecond

// forEachStorage 在两种存储策略下运行同一测试
func forEachStorage(t *testing.T, fn func(t *testing.T, k *rtos.Kernel, storage types.Storage)) {
	for _, storage := range []types.Storage{types.StorageDynamic, types.StorageStatic} {
		t.Run(storage.String(), func(t *testing.T) {
			fn(t, rtos.NewKernel(rtos.Config{}), storage)
		})
	}
}

// ============================================================================
// 二值信号量
// ============================================================================

// TestBinary_RepeatedGiveDoesNotAccumulate 测试重复释放不超过一个单位
func TestBinary_RepeatedGiveDoesNotAccumulate(t *testing.T) {
	forEachStorage(t, func(t *testing.T, k *rtos.Kernel, storage types.Storage) {
		s, err := NewBinary(k, false, WithStorage(storage))
		require.NoError(t, err)
		defer s.Destroy()

		require.NoError(t, s.Give())
		for i := 0; i < 5; i++ {
			assert.True(t, errors.Is(s.Give(), types.ErrSaturated))
		}
		assert.Equal(t, 1, s.Count())

		require.NoError(t, s.Take(0))
		assert.True(t, errors.Is(s.Take(0), types.ErrTimedOut))
	})
}

// TestBinary_FreshTakeTimesOut 测试新建且未释放的信号量获取超时
func TestBinary_FreshTakeTimesOut(t *testing.T) {
	forEachStorage(t, func(t *testing.T, k *rtos.Kernel, storage types.Storage) {
		s := New(k, WithStorage(storage))
		defer s.Destroy()

		start := time.Now()
		err := s.Take(short)
		assert.True(t, errors.Is(err, types.ErrTimedOut))
		assert.GreaterOrEqual(t, time.Since(start), short)

		// 按需创建的是二值信号量
		assert.Equal(t, types.SemaphoreCreated, s.State())
		assert.Equal(t, types.KindBinary, s.Kind())
	})
}

// TestBinary_Opened 测试以打开状态创建后立即获取成功
func TestBinary_Opened(t *testing.T) {
	forEachStorage(t, func(t *testing.T, k *rtos.Kernel, storage types.Storage) {
		s, err := NewBinary(k, true, WithStorage(storage))
		require.NoError(t, err)
		defer s.Destroy()

		assert.NoError(t, s.Take(0))
		assert.True(t, errors.Is(s.Take(0), types.ErrTimedOut))
	})
}

// TestBinary_WaitForever 测试无限等待被释放唤醒
func TestBinary_WaitForever(t *testing.T) {
	k := rtos.NewKernel(rtos.Config{})
	s, err := NewBinary(k, false)
	require.NoError(t, err)
	defer s.Destroy()

	done := make(chan error, 1)
	go func() {
		done <- s.Take(types.WaitForever)
	}()

	select {
	case <-done:
		t.Fatal("Take returned before Give")
	case <-time.After(short):
	}

	require.NoError(t, s.Give())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Take not released")
	}
}

// ============================================================================
// 计数信号量
// ============================================================================

// TestCounting_Sequence 测试计数信号量 1→2→3→饱和，耗尽后超时
func TestCounting_Sequence(t *testing.T) {
	forEachStorage(t, func(t *testing.T, k *rtos.Kernel, storage types.Storage) {
		s, err := NewCounting(k, 3, 1, WithStorage(storage))
		require.NoError(t, err)
		defer s.Destroy()

		assert.Equal(t, types.KindCounting, s.Kind())
		assert.Equal(t, uint32(3), s.MaxCount())
		assert.Equal(t, 1, s.Count())

		require.NoError(t, s.Give())
		assert.Equal(t, 2, s.Count())
		require.NoError(t, s.Give())
		assert.Equal(t, 3, s.Count())
		assert.True(t, errors.Is(s.Give(), types.ErrSaturated))
		assert.Equal(t, 3, s.Count())

		for i := 0; i < 3; i++ {
			assert.NoError(t, s.Take(0), "take #%d", i+1)
		}
		assert.True(t, errors.Is(s.Take(short), types.ErrTimedOut))
		assert.Equal(t, 0, s.Count())
	})
}

// TestCounting_InvalidConfiguration 测试无效计数参数
func TestCounting_InvalidConfiguration(t *testing.T) {
	k := rtos.NewKernel(rtos.Config{})

	_, err := NewCounting(k, 2, 3)
	assert.True(t, errors.Is(err, types.ErrInvalidConfiguration))

	_, err = NewCounting(k, 0, 0)
	assert.True(t, errors.Is(err, types.ErrInvalidConfiguration))

	assert.Equal(t, 0, k.Stats().HeapUsed)
}

// ============================================================================
// 生命周期
// ============================================================================

// TestLifecycle_CountSentinel 测试未创建时计数为 -1
func TestLifecycle_CountSentinel(t *testing.T) {
	s := New(rtos.NewKernel(rtos.Config{}))

	assert.Equal(t, -1, s.Count())
	assert.Equal(t, types.SemaphoreUninitialized, s.State())
	assert.False(t, s.Created())
	assert.Contains(t, s.String(), "uninitialized")
}

// TestLifecycle_DestroyIdempotent 测试重复销毁无副作用并可重新创建
func TestLifecycle_DestroyIdempotent(t *testing.T) {
	forEachStorage(t, func(t *testing.T, k *rtos.Kernel, storage types.Storage) {
		s, err := NewCounting(k, 2, 2, WithStorage(storage))
		require.NoError(t, err)

		s.Destroy()
		assert.Equal(t, types.SemaphoreUninitialized, s.State())
		assert.Equal(t, -1, s.Count())

		assert.NotPanics(t, s.Destroy)
		assert.Equal(t, types.SemaphoreUninitialized, s.State())
		assert.Equal(t, int64(0), k.Stats().Live)

		require.NoError(t, s.InitBinary(true))
		assert.Equal(t, types.KindBinary, s.Kind())
		assert.NoError(t, s.Take(0))
		s.Destroy()
	})
}

// TestLifecycle_AlreadyCreated 测试重复初始化被拒绝且不泄漏句柄
func TestLifecycle_AlreadyCreated(t *testing.T) {
	k := rtos.NewKernel(rtos.Config{})
	s, err := NewBinary(k, false)
	require.NoError(t, err)
	defer s.Destroy()

	assert.True(t, errors.Is(s.InitBinary(true), types.ErrAlreadyCreated))
	assert.True(t, errors.Is(s.InitCounting(4, 0), types.ErrAlreadyCreated))
	assert.Equal(t, 1, k.Stats().HeapUsed)
	assert.Equal(t, 0, s.Count())
}

// TestLifecycle_CreationFailed 测试资源耗尽时的错误返回
func TestLifecycle_CreationFailed(t *testing.T) {
	k := rtos.NewKernel(rtos.Config{MaxSemaphores: 1})
	holder, err := NewBinary(k, false)
	require.NoError(t, err)
	defer holder.Destroy()

	s := New(k)
	assert.True(t, errors.Is(s.InitBinary(false), types.ErrCreationFailed))
	assert.True(t, errors.Is(s.InitCounting(2, 0), types.ErrCreationFailed))
	assert.Equal(t, types.SemaphoreUninitialized, s.State())

	// 按需创建失败同样返回错误，而不是阻塞
	assert.True(t, errors.Is(s.Take(types.WaitForever), types.ErrCreationFailed))
	assert.True(t, errors.Is(s.Give(), types.ErrCreationFailed))

	// 静态存储不占用堆槽位
	st := New(k, WithStorage(types.StorageStatic))
	assert.NoError(t, st.InitBinary(false))
	st.Destroy()
}

// TestLifecycle_LazyGive 测试按需创建后释放使其可用
func TestLifecycle_LazyGive(t *testing.T) {
	s := New(rtos.NewKernel(rtos.Config{}))
	defer s.Destroy()

	require.NoError(t, s.Give())
	assert.Equal(t, types.KindBinary, s.Kind())
	assert.NoError(t, s.Take(0))
}

// TestLifecycle_StrictInit 测试严格模式拒绝未初始化使用
func TestLifecycle_StrictInit(t *testing.T) {
	s := New(rtos.NewKernel(rtos.Config{}), WithStrictInit())

	assert.True(t, errors.Is(s.Take(0), types.ErrNotInitialized))
	assert.True(t, errors.Is(s.Give(), types.ErrNotInitialized))
	assert.False(t, s.Created())

	require.NoError(t, s.InitBinary(false))
	assert.NoError(t, s.Give())
	s.Destroy()
}

// TestLifecycle_DestroyWakesTaker 测试销毁唤醒阻塞的获取者
func TestLifecycle_DestroyWakesTaker(t *testing.T) {
	s, err := NewBinary(rtos.NewKernel(rtos.Config{}), false)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- s.Take(types.WaitForever)
	}()

	time.Sleep(short)
	s.Destroy()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, types.ErrNotInitialized))
	case <-time.After(time.Second):
		t.Fatal("Destroy did not wake taker")
	}
}

// ============================================================================
// 并发
// ============================================================================

// TestConcurrent_GiveTake 测试多生产者多消费者
func TestConcurrent_GiveTake(t *testing.T) {
	s, err := NewCounting(rtos.NewKernel(rtos.Config{}), 64, 0)
	require.NoError(t, err)
	defer s.Destroy()

	const producers, perProducer = 4, 16

	var taken sync.WaitGroup
	taken.Add(producers * perProducer)
	for i := 0; i < producers; i++ {
		go func() {
			for j := 0; j < perProducer; j++ {
				assert.NoError(t, s.Take(time.Second))
				taken.Done()
			}
		}()
	}

	for i := 0; i < producers; i++ {
		go func() {
			for j := 0; j < perProducer; j++ {
				for s.Give() != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		taken.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("not all units were taken")
	}
	assert.Equal(t, 0, s.Count())
}

// ============================================================================
// 句柄被并发删除
// ============================================================================

// hookHandle 在 Take/Give 返回 false 之前执行钩子
type hookHandle struct {
	onTake func()
	onGive func()
}

func (h *hookHandle) Take(time.Duration) bool {
	if h.onTake != nil {
		h.onTake()
	}
	return false
}

func (h *hookHandle) Give() bool {
	if h.onGive != nil {
		h.onGive()
	}
	return false
}

func (h *hookHandle) Count() int { return 0 }

func (h *hookHandle) Delete() {}

// reuseAllocator 每次创建都返回同一个句柄，与静态控制块一样地址不变
type reuseAllocator struct {
	h *hookHandle
}

func (a *reuseAllocator) CreateBinary() rtos.Handle { return a.h }

func (a *reuseAllocator) CreateBinaryStatic(*rtos.StaticSemaphore) rtos.Handle { return a.h }

func (a *reuseAllocator) CreateCounting(uint32, uint32) rtos.Handle { return a.h }

func (a *reuseAllocator) CreateCountingStatic(uint32, uint32, *rtos.StaticSemaphore) rtos.Handle {
	return a.h
}

// TestTake_RecreatedWhileWaiting 测试等待期间被销毁并重建时仍报告未初始化
func TestTake_RecreatedWhileWaiting(t *testing.T) {
	h := &hookHandle{}
	s, err := NewBinary(&reuseAllocator{h: h}, false, WithStorage(types.StorageStatic))
	require.NoError(t, err)

	h.onTake = func() {
		s.Destroy()
		require.NoError(t, s.InitBinary(false))
	}

	err = s.Take(types.WaitForever)
	assert.True(t, errors.Is(err, types.ErrNotInitialized))
	assert.False(t, errors.Is(err, types.ErrTimedOut))
	assert.True(t, s.Created())
}

// TestGive_DestroyedWhileGiving 测试释放期间被销毁不报告为饱和
func TestGive_DestroyedWhileGiving(t *testing.T) {
	h := &hookHandle{}
	s, err := NewBinary(&reuseAllocator{h: h}, false)
	require.NoError(t, err)

	h.onGive = s.Destroy

	err = s.Give()
	assert.True(t, errors.Is(err, types.ErrNotInitialized))
	assert.False(t, errors.Is(err, types.ErrSaturated))
	assert.False(t, s.Created())
}

// TestGive_SaturatedWithoutDestroy 测试句柄未变化时返回饱和
func TestGive_SaturatedWithoutDestroy(t *testing.T) {
	s, err := NewBinary(&reuseAllocator{h: &hookHandle{}}, false)
	require.NoError(t, err)

	assert.True(t, errors.Is(s.Give(), types.ErrSaturated))
}
