package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/reception-registry/pkg/lifecycle"
)

func TestCoordinator_StartupReadiness(t *testing.T) {
	lc := lifecycle.New()

	var started atomic.Int32
	for range 3 {
		lc.OnStartup(func() {
			time.Sleep(5 * time.Millisecond)
			started.Add(1)
		})
	}

	assert.False(t, lc.Ready())

	lc.WaitForStartup()

	assert.True(t, lc.Ready())
	assert.Equal(t, int32(3), started.Load())
}

func TestCoordinator_ShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New()

	var closed atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		closed.Store(true)
	})

	require.NoError(t, lc.Shutdown(time.Second))
	assert.True(t, closed.Load())
	assert.Error(t, lc.Context().Err())
}

func TestCoordinator_ShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	defer close(release)

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-release
	})

	err := lc.Shutdown(10 * time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown timeout")
}
