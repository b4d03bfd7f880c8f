package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	k := Key{"partners", "detail", "7"}
	assert.Equal(t, "partners/detail/7", k.String())
	assert.True(t, k.Under("partners"))
	assert.True(t, k.Under("partners/detail"))
	assert.False(t, k.Under("partner"))
	assert.False(t, Key{"partnership"}.Under("partners"))
	assert.True(t, k.Equal(PartnerKey("7")))
}

func TestFetch_CachesSuccess(t *testing.T) {
	c := NewCache(nil)
	var calls int32
	fn := func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"a", "b"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), c, KeyPartners, fn)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.Equal(t, []string{"partners/list"}, c.Keys())
}

func TestFetch_DoesNotCacheErrors(t *testing.T) {
	c := NewCache(nil)
	var calls int32
	boom := errors.New("boom")
	fn := func(context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return 0, boom
		}
		return 42, nil
	}

	_, err := Fetch(context.Background(), c, KeyCoverage, fn)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, c.Keys())

	got, err := Fetch(context.Background(), c, KeyCoverage, fn)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestFetch_DeduplicatesConcurrentCallers(t *testing.T) {
	c := NewCache(nil)
	var calls int32
	release := make(chan struct{})
	fn := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "graph", nil
	}

	const callers = 10
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(context.Background(), c, KeyNetworkGraph, fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, "graph", r)
	}
}

func TestFetch_DistinctKeysDoNotShare(t *testing.T) {
	c := NewCache(nil)
	var calls int32
	fn := func(context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	a, _ := Fetch(context.Background(), c, SearchKey(searchParams("food")), fn)
	b, _ := Fetch(context.Background(), c, SearchKey(searchParams("shelter")), fn)
	assert.NotEqual(t, a, b)
	assert.EqualValues(t, 2, calls)
}

func TestFetch_CallerCancellationDoesNotFailOthers(t *testing.T) {
	c := NewCache(nil)
	release := make(chan struct{})
	fn := func(ctx context.Context) (string, error) {
		<-release
		return "ok", ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := Fetch(ctx, c, KeyGaps, fn)
		errCh <- err
	}()
	time.Sleep(10 * time.Millisecond)

	valCh := make(chan string, 1)
	go func() {
		v, err := Fetch(context.Background(), c, KeyGaps, fn)
		assert.NoError(t, err)
		valCh <- v
	}()
	time.Sleep(10 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	assert.Equal(t, "ok", <-valCh)
}

func TestInvalidate_DuringFlightDoesNotPopulate(t *testing.T) {
	c := NewCache(nil)
	var calls int32
	first := make(chan struct{})
	fn := func(context.Context) (int, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			<-first
		}
		return int(n), nil
	}

	done := make(chan int)
	go func() {
		v, _ := Fetch(context.Background(), c, KeyPartners, fn)
		done <- v
	}()
	time.Sleep(10 * time.Millisecond)

	c.Invalidate(FamilyPartners)

	// a caller after the invalidation starts its own fetch
	v, err := Fetch(context.Background(), c, KeyPartners, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	close(first)
	assert.Equal(t, 1, <-done)

	got, err := Fetch(context.Background(), c, KeyPartners, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, got, "stale in-flight result must not replace the fresh one")
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestInvalidate_ByFamily(t *testing.T) {
	c := NewCache(nil)
	ctx := context.Background()
	value := func(context.Context) (int, error) { return 1, nil }

	for _, k := range []Key{KeyPartners, PartnerKey("1"), KeyNetworkGraph, SearchKey(searchParams("x")), KeyDisasterDashboard, KeyCoverage} {
		_, err := Fetch(ctx, c, k, value)
		require.NoError(t, err)
	}

	c.Invalidate(PartnerMutation...)
	assert.Equal(t, []string{"analysis/coverage", "disaster/dashboard"}, c.Keys())
}

func TestMutate(t *testing.T) {
	c := NewCache(nil)
	ctx := context.Background()
	_, _ = Fetch(ctx, c, KeyMetricsSummary, func(context.Context) (int, error) { return 1, nil })

	_, err := Mutate(ctx, c, func(context.Context) (int, error) { return 0, errors.New("rejected") }, MetricMutation...)
	require.Error(t, err)
	assert.Equal(t, []string{"metrics/summary"}, c.Keys(), "failed mutation must not invalidate")

	v, err := Mutate(ctx, c, func(context.Context) (string, error) { return "m1", nil }, MetricMutation...)
	require.NoError(t, err)
	assert.Equal(t, "m1", v)
	assert.Empty(t, c.Keys(), "successful mutation invalidates before returning")
}
