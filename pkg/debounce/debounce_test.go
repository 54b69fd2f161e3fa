package debounce_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeep/pkg/debounce"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	d := debounce.New(30 * time.Millisecond)
	defer d.Stop(time.Second)

	var runs atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 5; i++ {
		d.Schedule(func() {
			runs.Add(1)
			last.Store(int32(i))
		})
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load(), "burst must run exactly once")
	assert.Equal(t, int32(5), last.Load(), "latest action wins")
	assert.False(t, d.Pending())
}

func TestDebouncer_RestartsQuietPeriod(t *testing.T) {
	d := debounce.New(50 * time.Millisecond)
	defer d.Stop(time.Second)

	var fired atomic.Bool
	start := time.Now()
	d.Schedule(func() { fired.Store(true) })
	time.Sleep(30 * time.Millisecond)
	reschedule := time.Now()
	var at atomic.Int64
	d.Schedule(func() {
		at.Store(time.Now().UnixNano())
		fired.Store(true)
	})

	require.Eventually(t, fired.Load, time.Second, 2*time.Millisecond)
	elapsed := time.Duration(at.Load() - reschedule.UnixNano())
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond, "timer should restart on reschedule (total %v)", time.Since(start))
}

func TestDebouncer_Cancel(t *testing.T) {
	d := debounce.New(20 * time.Millisecond)
	defer d.Stop(time.Second)

	var runs atomic.Int32
	d.Schedule(func() { runs.Add(1) })
	assert.True(t, d.Pending())
	d.Cancel()
	assert.False(t, d.Pending())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}

func TestDebouncer_Flush(t *testing.T) {
	d := debounce.New(time.Hour)
	defer d.Stop(time.Second)

	var runs atomic.Int32
	assert.False(t, d.Flush(), "nothing pending")

	d.Schedule(func() { runs.Add(1) })
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), runs.Load(), "flush runs synchronously")
	assert.False(t, d.Pending())
	assert.False(t, d.Flush(), "action runs only once")
}

func TestDebouncer_FlushBeforeTimer(t *testing.T) {
	d := debounce.New(20 * time.Millisecond)
	defer d.Stop(time.Second)

	var runs atomic.Int32
	d.Schedule(func() { runs.Add(1) })
	d.Flush()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load(), "flushed action must not fire again")
}

func TestDebouncer_ActionsDoNotOverlap(t *testing.T) {
	d := debounce.New(time.Millisecond)
	defer d.Stop(time.Second)

	var active, maxActive atomic.Int32
	var wg sync.WaitGroup
	slow := func() {
		defer wg.Done()
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
	}

	wg.Add(2)
	d.Schedule(slow)
	time.Sleep(5 * time.Millisecond) // first run is now in flight
	d.Schedule(slow)
	wg.Wait()

	assert.Equal(t, int32(1), maxActive.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	d := debounce.New(time.Millisecond)

	release := make(chan struct{})
	started := make(chan struct{})
	d.Schedule(func() {
		close(started)
		<-release
	})
	<-started

	assert.False(t, d.Stop(10*time.Millisecond), "running action still blocked")
	close(release)
	assert.True(t, d.Stop(time.Second))

	var runs atomic.Int32
	d.Schedule(func() { runs.Add(1) })
	assert.False(t, d.Pending(), "schedule after stop is ignored")
	assert.False(t, d.Flush())
	assert.Equal(t, int32(0), runs.Load())
}

func TestNew_DefaultDelay(t *testing.T) {
	assert.Equal(t, debounce.DefaultDelay, debounce.New(0).Delay())
	assert.Equal(t, 1500*time.Millisecond, debounce.DefaultDelay)
}
