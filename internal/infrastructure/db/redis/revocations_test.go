package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// unreachable returns a client whose every command fails fast.
func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRevocations_ExpiredTokenIsNotStored(t *testing.T) {
	client := unreachable()
	defer client.Close()
	r := NewRevocations(client)

	if err := r.Revoke(context.Background(), "jti", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("expected expired token to be skipped without a store call, got %v", err)
	}
}

func TestRevocations_StoreErrorsPropagate(t *testing.T) {
	client := unreachable()
	defer client.Close()
	r := NewRevocations(client)

	if err := r.Revoke(context.Background(), "jti", time.Now().Add(time.Hour)); err == nil {
		t.Fatalf("expected revoke error from unreachable store")
	}
	if _, err := r.IsRevoked(context.Background(), "jti"); err == nil {
		t.Fatalf("expected lookup error from unreachable store")
	}
}

func TestRevocations_KeyFormat(t *testing.T) {
	r := NewRevocations(nil)
	if got := r.key("abc"); got != "revoked:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestNoopRevocations(t *testing.T) {
	var r NoopRevocations
	if err := r.Revoke(context.Background(), "jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err := r.IsRevoked(context.Background(), "jti")
	if err != nil || revoked {
		t.Fatalf("expected nothing revoked, got %v %v", revoked, err)
	}
}

func TestConfig_Options(t *testing.T) {
	opts := Config{Addr: "cache:6379", Password: "pw", DB: 2}.options()
	if opts.Addr != "cache:6379" || opts.Password != "pw" || opts.DB != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.DialTimeout != defaultDialTimeout || opts.ReadTimeout != commandTimeout {
		t.Fatalf("expected default timeouts, got dial=%s read=%s", opts.DialTimeout, opts.ReadTimeout)
	}
	if got := (Config{DialTimeout: time.Second}).options().DialTimeout; got != time.Second {
		t.Fatalf("expected explicit dial timeout, got %s", got)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	if err == nil {
		t.Fatalf("expected ping failure")
	}
}
