package clients

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestBreaker returns a breaker on a fake clock and a func that advances it.
func newTestBreaker(maxFailures, halfOpenLimit int) (*CircuitBreaker, func(time.Duration)) {
	now := time.Unix(1700000000, 0)
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   maxFailures,
		Timeout:       time.Second,
		HalfOpenLimit: halfOpenLimit,
	})
	cb.now = func() time.Time { return now }

	return cb, func(d time.Duration) { now = now.Add(d) }
}

func TestCircuitBreaker_Transitions(t *testing.T) {
	t.Run("opens after consecutive failures", func(t *testing.T) {
		cb, _ := newTestBreaker(3, 1)

		assert.True(t, cb.Allow())
		cb.RecordFailure()
		cb.RecordFailure()
		assert.Equal(t, StateClosed, cb.State())

		cb.RecordFailure()
		assert.Equal(t, StateOpen, cb.State())
		assert.False(t, cb.Allow())
	})

	t.Run("success resets the failure count", func(t *testing.T) {
		cb, _ := newTestBreaker(2, 1)

		cb.RecordFailure()
		cb.RecordSuccess()
		cb.RecordFailure()

		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("probes after timeout then closes", func(t *testing.T) {
		cb, advance := newTestBreaker(1, 2)

		cb.RecordFailure()
		advance(999 * time.Millisecond)
		assert.False(t, cb.Allow())

		advance(time.Millisecond)
		assert.True(t, cb.Allow())
		assert.Equal(t, StateHalfOpen, cb.State())

		assert.True(t, cb.Allow(), "second probe within limit")
		assert.False(t, cb.Allow(), "probe limit reached")

		cb.RecordSuccess()
		assert.Equal(t, StateHalfOpen, cb.State())
		cb.RecordSuccess()
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("failed probe reopens", func(t *testing.T) {
		cb, advance := newTestBreaker(1, 2)

		cb.RecordFailure()
		advance(time.Second)
		require.True(t, cb.Allow())

		cb.RecordFailure()
		assert.Equal(t, StateOpen, cb.State())
		assert.False(t, cb.Allow(), "open timer restarts on reopen")
	})

	t.Run("zero limits behave as one", func(t *testing.T) {
		cb, _ := newTestBreaker(0, 0)

		cb.RecordFailure()
		assert.Equal(t, StateOpen, cb.State())
	})
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	cb, advance := newTestBreaker(1, 1)

	var (
		mu   sync.Mutex
		seen []string
	)

	cb.OnStateChange(func(from, to State) {
		mu.Lock()
		defer mu.Unlock()

		seen = append(seen, from.String()+"->"+to.String())
	})

	cb.RecordFailure()
	advance(time.Second)
	cb.Allow()
	cb.RecordSuccess()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(seen) == 3
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"closed->open", "open->half-open", "half-open->closed"}, seen)
}

func TestCircuitBreaker_ConcurrentUse(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1000, Timeout: time.Second, HalfOpenLimit: 1})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			if cb.Allow() {
				if i%2 == 0 {
					cb.RecordSuccess()
				} else {
					cb.RecordFailure()
				}
			}
		})
	}

	wg.Wait()
	assert.Equal(t, StateClosed, cb.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
