package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	name string
	err  error
}

func (f *fakeChecker) Name() string                  { return f.name }
func (f *fakeChecker) Check(_ context.Context) error { return f.err }

// blockingChecker waits for its context.
type blockingChecker struct{ name string }

func (b *blockingChecker) Name() string { return b.name }

func (b *blockingChecker) Check(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&fakeChecker{name: "bolt-store"}))

	err := registry.RegisterOptional(&fakeChecker{name: "bolt-store"})
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "bolt-store")
}

func TestCheckAll_Status(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name     string
		critical []HealthChecker
		optional []HealthChecker
		want     HealthStatus
	}{
		{
			name: "no checks",
			want: HealthStatusHealthy,
		},
		{
			name:     "all healthy",
			critical: []HealthChecker{&fakeChecker{name: "bolt-store"}},
			optional: []HealthChecker{&fakeChecker{name: "client:story-api"}},
			want:     HealthStatusHealthy,
		},
		{
			name:     "optional failure degrades",
			critical: []HealthChecker{&fakeChecker{name: "bolt-store"}},
			optional: []HealthChecker{&fakeChecker{name: "client:story-api", err: down}},
			want:     HealthStatusDegraded,
		},
		{
			name:     "critical failure wins",
			critical: []HealthChecker{&fakeChecker{name: "bolt-store", err: down}},
			optional: []HealthChecker{&fakeChecker{name: "client:story-api", err: down}},
			want:     HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			for _, c := range tt.critical {
				require.NoError(t, registry.Register(c))
			}

			for _, c := range tt.optional {
				require.NoError(t, registry.RegisterOptional(c))
			}

			result := registry.CheckAll(context.Background())

			assert.Equal(t, tt.want, result.Status)
			assert.Len(t, result.Checks, len(tt.critical)+len(tt.optional))
			assert.False(t, result.Timestamp.IsZero())
		})
	}
}

func TestCheckAll_ResultDetails(t *testing.T) {
	registry := NewHealthRegistry()
	require.NoError(t, registry.Register(&fakeChecker{name: "bolt-store"}))
	require.NoError(t, registry.RegisterOptional(&fakeChecker{name: "client:story-api", err: errors.New("circuit breaker is open")}))

	result := registry.CheckAll(context.Background())

	store := result.Checks["bolt-store"]
	require.NotNil(t, store)
	assert.Equal(t, HealthStatusHealthy, store.Status)
	assert.False(t, store.Optional)
	assert.Empty(t, store.Message)

	story := result.Checks["client:story-api"]
	require.NotNil(t, story)
	assert.Equal(t, HealthStatusUnhealthy, story.Status)
	assert.True(t, story.Optional)
	assert.Equal(t, "circuit breaker is open", story.Message)
}

func TestCheckAll_TimesOutSlowChecks(t *testing.T) {
	registry := NewHealthRegistryWithTimeout(20 * time.Millisecond)
	require.NoError(t, registry.Register(&blockingChecker{name: "stuck"}))

	start := time.Now()
	result := registry.CheckAll(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["stuck"].Message, "deadline exceeded")
}

func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistryWithTimeout(0)
	require.NoError(t, registry.Register(&blockingChecker{name: "slow-service"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["slow-service"].Message, "context canceled")
}
