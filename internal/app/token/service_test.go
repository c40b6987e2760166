package token

import (
	"context"
	"errors"
	"fmt"
	"francoggm/coffeekiosk-mpesa/internal/models"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls   atomic.Int32
	fetchFn func(n int32) (*models.TokenResponse, error)
}

func (f *fakeFetcher) FetchToken(ctx context.Context) (*models.TokenResponse, error) {
	n := f.calls.Add(1)
	return f.fetchFn(n)
}

func tokenFetcher(expiresIn models.Seconds) *fakeFetcher {
	return &fakeFetcher{
		fetchFn: func(n int32) (*models.TokenResponse, error) {
			return &models.TokenResponse{
				AccessToken: fmt.Sprintf("token-%d", n),
				ExpiresIn:   expiresIn,
			}, nil
		},
	}
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestService(fetcher Fetcher, store Store, clock *fakeClock) *Service {
	svc := NewService(fetcher, store)
	svc.now = clock.Now
	return svc
}

func TestGet_CachedTokenMakesNoNetworkCall(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	fetcher := tokenFetcher(3599)
	svc := newTestService(fetcher, nil, clock)

	first, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "token-1", first.Value)
	require.Equal(t, clock.now.Add(3599*time.Second), first.ExpiresAt)

	clock.now = clock.now.Add(30 * time.Minute)

	second, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, int32(1), fetcher.calls.Load())
}

func TestGet_ExpiredTokenIsRefreshed(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	fetcher := tokenFetcher(60)
	svc := newTestService(fetcher, NewMemoryStore(), clock)

	_, err := svc.Get(context.Background())
	require.NoError(t, err)

	clock.now = clock.now.Add(60 * time.Second)

	token, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "token-2", token.Value)
	require.Equal(t, int32(2), fetcher.calls.Load())
}

func TestRefresh_AlwaysCallsGateway(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	fetcher := tokenFetcher(3599)
	svc := newTestService(fetcher, nil, clock)

	_, err := svc.Get(context.Background())
	require.NoError(t, err)

	token, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "token-2", token.Value)

	cached, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "token-2", cached.Value)
	require.Equal(t, int32(2), fetcher.calls.Load())
}

func TestGet_FetchFailureIsAuthenticationError(t *testing.T) {
	gatewayErr := errors.New("connection refused")
	fetcher := &fakeFetcher{
		fetchFn: func(int32) (*models.TokenResponse, error) {
			return nil, gatewayErr
		},
	}
	svc := newTestService(fetcher, nil, &fakeClock{now: time.Now()})

	_, err := svc.Get(context.Background())
	require.ErrorIs(t, err, ErrAuthentication)
	require.ErrorIs(t, err, gatewayErr)

	// No automatic retry.
	require.Equal(t, int32(1), fetcher.calls.Load())
}

func TestGet_UnreachableRedisFallsBackToGateway(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	fetcher := tokenFetcher(3599)
	svc := newTestService(fetcher, NewRedisStore(rdb), &fakeClock{now: time.Now()})

	token, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "token-1", token.Value)
	require.Equal(t, int32(1), fetcher.calls.Load())
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	require.False(t, ok)

	want := models.AccessToken{Value: "abc", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(context.Background(), want))

	got, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}
