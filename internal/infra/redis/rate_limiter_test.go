package redis

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRedisClient struct {
	counts      map[string]int64
	expirations map[string]time.Duration
	expireCalls int
	incrErr     error
	expireErr   error
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{
		counts:      map[string]int64{},
		expirations: map[string]time.Duration{},
	}
}

func (f *fakeRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if f.expireErr != nil {
		return f.expireErr
	}
	f.expireCalls++
	f.expirations[key] = expiration
	return nil
}

func (f *fakeRedisClient) Close() error { return nil }

func TestAllowUnderAndOverLimit(t *testing.T) {
	client := newFakeRedisClient()
	rl := NewRateLimiter(client)
	key := UserCommandKey(42, "message")

	for i := 0; i < 3; i++ {
		allowed, err := rl.Allow(context.Background(), key, 3, time.Minute)
		if err != nil {
			t.Fatalf("Allow call %d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("call %d denied below the limit", i+1)
		}
	}

	allowed, err := rl.Allow(context.Background(), key, 3, time.Minute)
	if err != nil {
		t.Fatalf("Allow over limit: %v", err)
	}
	if allowed {
		t.Fatal("call over the limit was allowed")
	}
}

func TestAllowSetsWindowOnlyOnFirstHit(t *testing.T) {
	client := newFakeRedisClient()
	rl := NewRateLimiter(client)
	key := UserCommandKey(42, "message")

	for i := 0; i < 5; i++ {
		if _, err := rl.Allow(context.Background(), key, 10, time.Minute); err != nil {
			t.Fatalf("Allow: %v", err)
		}
	}

	if client.expireCalls != 1 {
		t.Fatalf("Expire called %d times, want exactly 1 (fixed window)", client.expireCalls)
	}
	if client.expirations[key] != time.Minute {
		t.Fatalf("window = %v, want 1m", client.expirations[key])
	}
}

func TestAllowSurfacesRedisErrors(t *testing.T) {
	client := newFakeRedisClient()
	client.incrErr = errors.New("connection refused")
	rl := NewRateLimiter(client)

	allowed, err := rl.Allow(context.Background(), "k", 10, time.Minute)
	if err == nil {
		t.Fatal("expected error when redis is unavailable")
	}
	if allowed {
		t.Fatal("request allowed despite redis error; the caller decides fail-open")
	}

	client = newFakeRedisClient()
	client.expireErr = errors.New("connection reset")
	rl = NewRateLimiter(client)
	if _, err := rl.Allow(context.Background(), "k", 10, time.Minute); err == nil {
		t.Fatal("expected error when setting the window fails")
	}
}

func TestUserCommandKeyIsolation(t *testing.T) {
	a := UserCommandKey(1, "message")
	b := UserCommandKey(2, "message")
	c := UserCommandKey(1, "/stats")
	if a == b || a == c || b == c {
		t.Fatalf("keys collide: %q %q %q", a, b, c)
	}
}
