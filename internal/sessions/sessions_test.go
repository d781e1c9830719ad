package sessions

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRevoker()
	now := time.Now()
	m.now = func() time.Time { return now }

	if ok, _ := m.IsRevoked(ctx, "a"); ok {
		t.Fatal("unknown jti reported revoked")
	}
	_ = m.Revoke(ctx, "a", now.Add(time.Hour))
	if ok, _ := m.IsRevoked(ctx, "a"); !ok {
		t.Fatal("revoked jti not reported")
	}

	now = now.Add(2 * time.Hour)
	if ok, _ := m.IsRevoked(ctx, "a"); ok {
		t.Error("revocation should lapse once the token has expired")
	}
}

func TestNewRedisClientRequiresAddr(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), RedisOptions{}); err == nil {
		t.Fatal("expected error for empty addr")
	}
}
