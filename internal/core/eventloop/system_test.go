package eventloop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-evsync/pkg/types"
)

// TestSystem_DefaultLifecycle 测试默认循环的创建与删除
func TestSystem_DefaultLifecycle(t *testing.T) {
	s := NewSystem(DefaultConfig())

	_, err := s.DefaultLoop()
	assert.True(t, errors.Is(err, types.ErrNoDefaultLoop))
	assert.True(t, errors.Is(s.Post(context.Background(), testBase, 1, nil), types.ErrNoDefaultLoop))

	require.NoError(t, s.CreateDefault())
	assert.True(t, errors.Is(s.CreateDefault(), types.ErrDefaultLoopExists))

	loop, err := s.DefaultLoop()
	require.NoError(t, err)
	require.NotNil(t, loop)

	require.NoError(t, s.DeleteDefault())
	assert.True(t, errors.Is(s.DeleteDefault(), types.ErrNoDefaultLoop))

	_, err = s.Default()
	assert.True(t, errors.Is(err, types.ErrNoDefaultLoop))
}

// TestSystem_Post 测试向默认循环投递
func TestSystem_Post(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DedicatedTask = false // 默认循环总是有专用任务
	s := NewSystem(cfg)
	require.NoError(t, s.CreateDefault())
	defer s.DeleteDefault()

	loop, err := s.Default()
	require.NoError(t, err)

	got := make(chan any, 1)
	_, err = loop.RegisterHandler(types.IPEvent, 3, func(_ any, _ types.EventBase, _ types.EventID, data any) {
		got <- data
	}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Post(context.Background(), types.IPEvent, 3, "got-ip"))

	select {
	case d := <-got:
		assert.Equal(t, "got-ip", d)
	case <-time.After(time.Second):
		t.Fatal("default loop did not dispatch")
	}
}
