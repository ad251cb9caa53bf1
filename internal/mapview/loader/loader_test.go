package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permitmap/internal/mapview/provider"
)

func await(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for loader result")
		return Result{}
	}
}

func TestSingleBootstrapAcrossConcurrentMounts(t *testing.T) {
	var bootstraps atomic.Int32
	release := make(chan struct{})

	boot := BootstrapperFunc(func(ctx context.Context, apiKey string) (provider.Provider, error) {
		bootstraps.Add(1)
		<-release
		return provider.NewHeadless(nil), nil
	})

	l := New(boot, "test-key")

	const mounts = 8
	results := make([]Result, mounts)
	var wg sync.WaitGroup
	for i := range mounts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, ch := l.EnsureLoaded()
			results[i] = await(t, ch)
		}(i)
	}

	// Let the subscriptions settle before resolving the bootstrap.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), bootstraps.Load())
	for _, r := range results {
		require.NoError(t, r.Err)
		require.NotNil(t, r.Provider)
	}
	assert.Equal(t, StateLoaded, l.State())
}

func TestSubscribeAfterResolutionDeliversImmediately(t *testing.T) {
	boot := BootstrapperFunc(func(ctx context.Context, apiKey string) (provider.Provider, error) {
		return provider.NewHeadless(nil), nil
	})
	l := New(boot, "test-key")

	_, ch := l.EnsureLoaded()
	require.NoError(t, await(t, ch).Err)

	_, late := l.Subscribe()
	r := await(t, late)
	require.NoError(t, r.Err)
	require.NotNil(t, r.Provider)
}

func TestMissingAPIKeyFailsWithoutBootstrapping(t *testing.T) {
	boot := BootstrapperFunc(func(ctx context.Context, apiKey string) (provider.Provider, error) {
		t.Fatal("bootstrapper must not run without an API key")
		return nil, nil
	})
	l := New(boot, "")

	_, ch := l.EnsureLoaded()
	r := await(t, ch)
	require.ErrorIs(t, r.Err, ErrMissingAPIKey)
	assert.Equal(t, StateFailed, l.State())
}

func TestBootstrapErrorPropagatesToAllSubscribers(t *testing.T) {
	bootErr := errors.New("script load failed")
	boot := BootstrapperFunc(func(ctx context.Context, apiKey string) (provider.Provider, error) {
		return nil, bootErr
	})
	l := New(boot, "test-key")

	_, ch1 := l.EnsureLoaded()
	_, ch2 := l.EnsureLoaded()

	require.ErrorIs(t, await(t, ch1).Err, bootErr)
	require.ErrorIs(t, await(t, ch2).Err, bootErr)
}

func TestNilProviderBecomesNotInitialized(t *testing.T) {
	boot := BootstrapperFunc(func(ctx context.Context, apiKey string) (provider.Provider, error) {
		return nil, nil
	})
	l := New(boot, "test-key")

	_, ch := l.EnsureLoaded()
	require.ErrorIs(t, await(t, ch).Err, ErrNotInitialized)
}

func TestBootstrapTimeout(t *testing.T) {
	boot := BootstrapperFunc(func(ctx context.Context, apiKey string) (provider.Provider, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	l := New(boot, "test-key", WithTimeout(20*time.Millisecond))

	_, ch := l.EnsureLoaded()
	require.ErrorIs(t, await(t, ch).Err, ErrLoadTimeout)
}

func TestAuthFailureResolvesLoad(t *testing.T) {
	release := make(chan struct{})
	boot := BootstrapperFunc(func(ctx context.Context, apiKey string) (provider.Provider, error) {
		<-release
		return provider.NewHeadless(nil), nil
	})
	l := New(boot, "test-key")

	_, ch := l.EnsureLoaded()
	l.AuthFailure("key rejected")
	r := await(t, ch)
	require.Error(t, r.Err)
	assert.Contains(t, r.Err.Error(), "authentication failed")
	assert.Equal(t, StateFailed, l.State())

	// The in-flight bootstrap must not overturn the auth failure.
	close(release)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StateFailed, l.State())
}

func TestUnsubscribeLeavesOtherListenersIntact(t *testing.T) {
	release := make(chan struct{})
	boot := BootstrapperFunc(func(ctx context.Context, apiKey string) (provider.Provider, error) {
		<-release
		return provider.NewHeadless(nil), nil
	})
	l := New(boot, "test-key")

	id1, ch1 := l.EnsureLoaded()
	_, ch2 := l.EnsureLoaded()

	l.Unsubscribe(id1)
	close(release)

	require.NoError(t, await(t, ch2).Err)

	// The removed listener never receives a result.
	select {
	case <-ch1:
		t.Fatal("unsubscribed listener received a result")
	case <-time.After(100 * time.Millisecond):
	}
}
