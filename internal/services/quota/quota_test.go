package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

var testLimits = Limits{
	AnonLimit:  3,
	AnonWindow: 24 * time.Hour,
	FreeLimit:  5,
	FreeWindow: 7 * 24 * time.Hour,
}

type fakeDevices struct {
	counts map[string]int
	ttl    time.Duration
	err    error
}

func (f *fakeDevices) Count(_ context.Context, key string) (int, time.Duration, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	if f.counts[key] == 0 {
		return 0, 0, nil
	}
	return f.counts[key], f.ttl, nil
}

func (f *fakeDevices) Incr(_ context.Context, key string) (int, time.Duration, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int{}
	}
	if f.counts[key] == 0 {
		f.ttl = testLimits.AnonWindow
	}
	f.counts[key]++
	return f.counts[key], f.ttl, nil
}

type fakeAccounts struct {
	usage models.Usage
	saves int
	err   error
}

func (f *fakeAccounts) GetUsage(_ context.Context, _ string) (models.Usage, error) {
	if f.err != nil {
		return models.Usage{}, f.err
	}
	return f.usage, nil
}

func (f *fakeAccounts) SaveUsage(_ context.Context, _ string, count int, resetAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.saves++
	f.usage.Count = count
	f.usage.ResetAt = &resetAt
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr(t time.Time) *time.Time {
	return &t
}

var now = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

func TestPolicy_Anonymous_LimitAfterThreeIncrements(t *testing.T) {
	devices := &fakeDevices{}
	p := New(devices, &fakeAccounts{}, testLimits).WithClock(fixedClock(now))
	ctx := context.Background()
	id := AnonymousIdentity("device-1")

	remaining, err := p.Remaining(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)

	for i := 1; i <= 3; i++ {
		reached, err := p.HasReachedLimit(ctx, id)
		require.NoError(t, err)
		assert.False(t, reached)

		count, err := p.Increment(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	reached, err := p.HasReachedLimit(ctx, id)
	require.NoError(t, err)
	assert.True(t, reached)

	_, err = p.Increment(ctx, id)
	require.NoError(t, err)

	remaining, err = p.Remaining(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestPolicy_Anonymous_DaysUntilReset(t *testing.T) {
	devices := &fakeDevices{}
	p := New(devices, &fakeAccounts{}, testLimits).WithClock(fixedClock(now))
	ctx := context.Background()
	id := AnonymousIdentity("device-1")

	days, err := p.DaysUntilReset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	_, err = p.Increment(ctx, id)
	require.NoError(t, err)
	devices.ttl = 3 * time.Hour

	st, err := p.Status(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, st.DaysUntilReset)
	require.NotNil(t, st.ResetAt)
	assert.Equal(t, now.Add(3*time.Hour), *st.ResetAt)
	assert.Equal(t, "anonymous", st.Tier)
	assert.Equal(t, 2, st.Remaining)
}

func TestPolicy_Account_FreeTier(t *testing.T) {
	tests := []struct {
		name          string
		usage         models.Usage
		wantRemaining int
		wantReached   bool
		wantDays      int
	}{
		{
			name:          "fresh account without reset date",
			usage:         models.Usage{Tier: models.TierFree},
			wantRemaining: 5,
			wantDays:      7,
		},
		{
			name:          "partially used",
			usage:         models.Usage{Tier: models.TierFree, Count: 2, ResetAt: ptr(now.Add(36 * time.Hour))},
			wantRemaining: 3,
			wantDays:      2,
		},
		{
			name:          "limit reached with reset in two days",
			usage:         models.Usage{Tier: models.TierFree, Count: 5, ResetAt: ptr(now.Add(48 * time.Hour))},
			wantRemaining: 0,
			wantReached:   true,
			wantDays:      2,
		},
		{
			name:          "count above limit clamps to zero",
			usage:         models.Usage{Tier: models.TierFree, Count: 9, ResetAt: ptr(now.Add(time.Hour))},
			wantRemaining: 0,
			wantReached:   true,
			wantDays:      1,
		},
		{
			name:          "elapsed reset date ignores stored count",
			usage:         models.Usage{Tier: models.TierFree, Count: 5, ResetAt: ptr(now.Add(-time.Minute))},
			wantRemaining: 5,
			wantDays:      7,
		},
		{
			name:          "reset date equal to now counts as elapsed",
			usage:         models.Usage{Tier: models.TierFree, Count: 5, ResetAt: ptr(now)},
			wantRemaining: 5,
			wantDays:      7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &fakeAccounts{usage: tt.usage}
			p := New(&fakeDevices{}, accounts, testLimits).WithClock(fixedClock(now))
			id := AccountIdentity("acc-1")

			st, err := p.Status(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemaining, st.Remaining)
			assert.Equal(t, tt.wantReached, st.Reached())
			assert.Equal(t, tt.wantDays, st.DaysUntilReset)
			assert.Equal(t, 5, st.Limit)
			assert.Zero(t, accounts.saves, "reads must not persist anything")
		})
	}
}

func TestPolicy_Account_IncrementAfterElapsedWindow(t *testing.T) {
	accounts := &fakeAccounts{usage: models.Usage{Tier: models.TierFree, Count: 5, ResetAt: ptr(now.Add(-time.Hour))}}
	p := New(&fakeDevices{}, accounts, testLimits).WithClock(fixedClock(now))
	ctx := context.Background()
	id := AccountIdentity("acc-1")

	reached, err := p.HasReachedLimit(ctx, id)
	require.NoError(t, err)
	assert.False(t, reached)

	count, err := p.Increment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, accounts.usage.Count)
	require.NotNil(t, accounts.usage.ResetAt)
	assert.Equal(t, now.Add(7*24*time.Hour), *accounts.usage.ResetAt)
}

func TestPolicy_Account_IncrementWithinWindowKeepsResetDate(t *testing.T) {
	reset := now.Add(3 * 24 * time.Hour)
	accounts := &fakeAccounts{usage: models.Usage{Tier: models.TierFree, Count: 2, ResetAt: ptr(reset)}}
	p := New(&fakeDevices{}, accounts, testLimits).WithClock(fixedClock(now))

	count, err := p.Increment(context.Background(), AccountIdentity("acc-1"))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, reset, *accounts.usage.ResetAt)
}

func TestPolicy_Account_FirstIncrementStartsWindow(t *testing.T) {
	accounts := &fakeAccounts{usage: models.Usage{Tier: models.TierFree}}
	p := New(&fakeDevices{}, accounts, testLimits).WithClock(fixedClock(now))

	count, err := p.Increment(context.Background(), AccountIdentity("acc-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, now.Add(7*24*time.Hour), *accounts.usage.ResetAt)
}

func TestPolicy_Account_Unlimited(t *testing.T) {
	accounts := &fakeAccounts{usage: models.Usage{Tier: models.TierUnlimited, Count: 42}}
	p := New(&fakeDevices{}, accounts, testLimits).WithClock(fixedClock(now))
	ctx := context.Background()
	id := AccountIdentity("acc-1")

	remaining, err := p.Remaining(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Unlimited, remaining)

	reached, err := p.HasReachedLimit(ctx, id)
	require.NoError(t, err)
	assert.False(t, reached)

	count, err := p.Increment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Unlimited, count)
	assert.Zero(t, accounts.saves)
	assert.Equal(t, 42, accounts.usage.Count)

	st, err := p.Status(ctx, id)
	require.NoError(t, err)
	assert.True(t, st.Unlimited())
	assert.Equal(t, Unlimited, st.Limit)
	assert.Equal(t, "unlimited", st.Tier)
}

func TestPolicy_LedgerErrors(t *testing.T) {
	boom := errors.New("boom")
	p := New(&fakeDevices{err: boom}, &fakeAccounts{err: boom}, testLimits)
	ctx := context.Background()

	_, err := p.HasReachedLimit(ctx, AnonymousIdentity("d"))
	assert.ErrorIs(t, err, boom)

	_, err = p.HasReachedLimit(ctx, AccountIdentity("a"))
	assert.ErrorIs(t, err, boom)

	_, err = p.Increment(ctx, AccountIdentity("a"))
	assert.ErrorIs(t, err, boom)

	_, err = p.Status(ctx, Identity{Kind: Kind(7)})
	assert.Error(t, err)
}
