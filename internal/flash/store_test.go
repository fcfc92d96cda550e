package flash

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
	clock   *manualClock
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{at: c.now.Add(d), f: f, clock: c}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves time forward and runs every timer that became due.
func (c *manualClock) Advance(d time.Duration) int {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

func (c *manualClock) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func ids(items []Notification) []int64 {
	out := make([]int64, 0, len(items))
	for _, n := range items {
		out = append(out, n.ID)
	}
	return out
}

func TestStore_PushAppliesDefaults(t *testing.T) {
	s := NewStore(newManualClock(), 0)

	first := s.Push(KindSuccess, "Deposit received")
	second := s.Push(KindError, "Withdrawal failed", WithTitle("Oops"))

	assert.Greater(t, second, first)
	items := s.Notifications()
	require.Len(t, items, 2)
	assert.Equal(t, int64(5000), items[0].DurationMS)
	assert.True(t, items[0].Dismissible)
	assert.Empty(t, items[0].Title)
	assert.Equal(t, "Oops", items[1].Title)
	assert.Equal(t, KindError, items[1].Kind)
}

func TestStore_ExpiresAfterDuration(t *testing.T) {
	clock := newManualClock()
	s := NewStore(clock, 0)

	short := s.Push(KindInfo, "short", WithDuration(time.Second))
	long := s.Push(KindInfo, "long", WithDuration(10*time.Second))

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, []int64{short, long}, ids(s.Notifications()))

	clock.Advance(time.Millisecond)
	assert.Equal(t, []int64{long}, ids(s.Notifications()))
	assert.Equal(t, 1, s.Pending())
}

func TestStore_RemoveBeforeExpiryCancelsTimer(t *testing.T) {
	clock := newManualClock()
	s := NewStore(clock, 0)

	id := s.Push(KindWarning, "Session expiring")
	other := s.Push(KindInfo, "keep me", WithDuration(0))
	s.Remove(id)

	assert.Equal(t, []int64{other}, ids(s.Notifications()))
	assert.Zero(t, clock.live(), "timer should have been stopped")
	assert.Zero(t, clock.Advance(time.Minute), "no timer may fire after remove")
	assert.Equal(t, []int64{other}, ids(s.Notifications()))
}

func TestStore_ZeroDurationNeverExpires(t *testing.T) {
	clock := newManualClock()
	s := NewStore(clock, 0)

	id := s.Push(KindInfo, "sticky", WithDuration(0), WithDismissible(false))
	clock.Advance(24 * time.Hour)

	items := s.Notifications()
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.False(t, items[0].Dismissible)
	assert.Zero(t, s.Pending())
}

func TestStore_RemoveUnknownIsNoop(t *testing.T) {
	s := NewStore(newManualClock(), 0)
	id := s.Push(KindInfo, "x")

	assert.NotPanics(t, func() { s.Remove(id + 100) })
	assert.Len(t, s.Notifications(), 1)
}

func TestStore_ClearCancelsAllTimers(t *testing.T) {
	clock := newManualClock()
	s := NewStore(clock, 0)
	for i := 0; i < 25; i++ {
		s.Push(KindInfo, "bulk", WithDuration(time.Duration(i+1)*time.Second))
	}
	s.Push(KindInfo, "sticky", WithDuration(0))

	s.Clear()

	assert.Empty(t, s.Notifications())
	assert.Zero(t, s.Pending())
	assert.Zero(t, clock.live())
	assert.Zero(t, clock.Advance(time.Hour))
}

func TestStore_IDsStayMonotonicAfterClear(t *testing.T) {
	s := NewStore(newManualClock(), 0)
	before := s.Push(KindInfo, "a")
	s.Clear()
	after := s.Push(KindInfo, "b")

	assert.Greater(t, after, before)
}

func TestStore_SubscribeReceivesSnapshots(t *testing.T) {
	clock := newManualClock()
	s := NewStore(clock, 0)
	s.Push(KindInfo, "existing", WithDuration(0))

	ch, cancel := s.Subscribe()
	defer cancel()

	initial := <-ch
	require.Len(t, initial, 1)

	id := s.Push(KindSuccess, "new", WithDuration(time.Second))
	// The buffered channel holds only the latest snapshot.
	latest := <-ch
	assert.Equal(t, []int64{initial[0].ID, id}, ids(latest))

	clock.Advance(time.Second)
	assert.Equal(t, []int64{initial[0].ID}, ids(<-ch))
}

func TestStore_CloseEndsSubscriptions(t *testing.T) {
	s := NewStore(newManualClock(), 0)
	ch, cancel := s.Subscribe()
	<-ch

	s.Close()
	cancel()

	for range ch {
	}
	assert.Zero(t, s.Push(KindInfo, "ignored"))
}

func TestStore_RealClockExpiry(t *testing.T) {
	s := NewStore(SystemClock, 0)
	s.Push(KindInfo, "blink", WithDuration(20*time.Millisecond))

	require.Eventually(t, func() bool {
		return len(s.Notifications()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Warning ")
	require.NoError(t, err)
	assert.Equal(t, KindWarning, k)

	_, err = ParseKind("fatal")
	assert.Error(t, err)
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	clock := newManualClock()
	r := NewRegistry(clock, 0)

	a := r.Get("session-a")
	b := r.Get("session-b")
	a.Push(KindInfo, "only a")

	assert.Same(t, a, r.Get("session-a"))
	assert.Len(t, a.Notifications(), 1)
	assert.Empty(t, b.Notifications())
	assert.Equal(t, 2, r.Len())

	r.Drop("session-a")
	assert.Equal(t, 1, r.Len())
	assert.Zero(t, clock.live(), "dropping a session cancels its timers")
}

func TestRegistry_SweepDropsIdleEmptyStores(t *testing.T) {
	clock := newManualClock()
	r := NewRegistry(clock, 0)

	r.Get("idle")
	busy := r.Get("busy")
	busy.Push(KindInfo, "still showing", WithDuration(0))

	clock.Advance(time.Hour)

	assert.Equal(t, 1, r.Sweep(30*time.Minute))
	assert.Equal(t, 1, r.Len())
	assert.Same(t, busy, r.Get("busy"))
}

func TestStore_SubMillisecondDurationStillExpires(t *testing.T) {
	clock := newManualClock()
	s := NewStore(clock, 0)

	s.Push(KindInfo, "blink", WithDuration(500*time.Microsecond))
	require.Len(t, s.Notifications(), 1)
	assert.Equal(t, int64(1), s.Notifications()[0].DurationMS)
	assert.Equal(t, 1, s.Pending())

	clock.Advance(time.Millisecond)
	assert.Empty(t, s.Notifications())
	assert.Zero(t, s.Pending())
}

func TestStore_LongDurationIsCapped(t *testing.T) {
	clock := newManualClock()
	s := NewStore(clock, 0)

	s.Push(KindInfo, "long", WithDuration(time.Duration(1<<62)))
	require.Len(t, s.Notifications(), 1)
	assert.Equal(t, MaxDuration.Milliseconds(), s.Notifications()[0].DurationMS)
	assert.Equal(t, 1, s.Pending())

	clock.Advance(MaxDuration)
	assert.Empty(t, s.Notifications())
}

func TestStore_NegativeDefaultDisablesAutoRemoval(t *testing.T) {
	clock := newManualClock()
	s := NewStore(clock, -1)

	s.Push(KindWarning, "sticky")
	assert.Zero(t, s.Pending())
	assert.Zero(t, s.Notifications()[0].DurationMS)

	clock.Advance(time.Hour)
	assert.Len(t, s.Notifications(), 1)
}

func TestRegistry_GetKeepsStoreAliveAcrossSweep(t *testing.T) {
	clock := newManualClock()
	r := NewRegistry(clock, 0)

	r.Get("sess")
	clock.Advance(time.Hour)
	st := r.Get("sess")

	assert.Zero(t, r.Sweep(30*time.Minute))
	id := st.Push(KindSuccess, "saved")
	assert.Positive(t, id)
	assert.Same(t, st, r.Get("sess"))
	assert.Len(t, r.Get("sess").Notifications(), 1)
}

func TestRegistry_GetReplacesClosedStore(t *testing.T) {
	r := NewRegistry(newManualClock(), 0)

	old := r.Get("sess")
	old.Close()

	fresh := r.Get("sess")
	assert.NotSame(t, old, fresh)
	assert.Positive(t, fresh.Push(KindInfo, "after close"))
}
