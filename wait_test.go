package tidepool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubPool struct {
	mu    sync.Mutex
	stats PoolStats
}

func (p *stubPool) Execute(Task) error { return nil }
func (p *stubPool) Shutdown()          {}
func (p *stubPool) ShutdownNow()       {}
func (p *stubPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *stubPool) setStats(s PoolStats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = s
}

func TestWaitQuiescent(t *testing.T) {
	t.Run("ReturnsImmediatelyWhenIdle", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		assert.True(t, WaitQuiescent(ctx, &stubPool{}, time.Millisecond))
	})
	t.Run("ReturnsFalseWhenCanceled", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		p := &stubPool{stats: PoolStats{Busy: 1}}
		assert.False(t, WaitQuiescent(ctx, p, time.Millisecond))
	})
	t.Run("ReturnsOnceWorkDrains", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		p := &stubPool{stats: PoolStats{Pending: 3}}
		go func() {
			time.Sleep(10 * time.Millisecond)
			p.setStats(PoolStats{})
		}()

		assert.True(t, WaitQuiescent(ctx, p, time.Millisecond))
	})
}

func TestPoolStatsHasWork(t *testing.T) {
	assert.False(t, PoolStats{}.HasWork())
	assert.False(t, PoolStats{Workers: 4, Shutdown: true}.HasWork())
	assert.True(t, PoolStats{Busy: 1}.HasWork())
	assert.True(t, PoolStats{Pending: 1}.HasWork())
}
