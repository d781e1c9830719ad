package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store/memstore"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConnectRetriesWithExponentialBackoff(t *testing.T) {
	c := NewConnector(Options{Database: "test", Retries: 3, Backoff: 500 * time.Millisecond}, quietLogger())

	var attempts int
	boom := errors.New("connection refused")
	c.dial = func(context.Context, Options) (*mongo.Client, error) {
		attempts++
		return nil, boom
	}
	var delays []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, err := c.Connect(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Connect() error = %v, want wrapped last error", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	want := []time.Duration{500 * time.Millisecond, time.Second}
	if len(delays) != len(want) || delays[0] != want[0] || delays[1] != want[1] {
		t.Errorf("delays = %v, want %v", delays, want)
	}
	if _, err := c.Database(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Database() after failure = %v, want ErrNotConnected", err)
	}
}

func TestConnectSucceedsAfterTransientFailure(t *testing.T) {
	var inits int32
	c := NewConnector(Options{Database: "test", Retries: 3}, quietLogger(),
		func(context.Context, *mongo.Database) error {
			atomic.AddInt32(&inits, 1)
			return nil
		})

	client, err := mongo.NewClient()
	if err != nil {
		t.Fatal(err)
	}
	var attempts int
	c.dial = func(context.Context, Options) (*mongo.Client, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("not yet")
		}
		return client, nil
	}
	c.sleep = func(context.Context, time.Duration) error { return nil }

	db, err := c.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if db.Name() != "test" {
		t.Errorf("db = %s", db.Name())
	}

	// Cached: no further dials and init runs once.
	if _, err := c.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if inits != 1 {
		t.Errorf("init ran %d times, want 1", inits)
	}
}

func TestConnectRetriesAfterInitFailure(t *testing.T) {
	var inits int32
	bad := errors.New("index build failed")
	c := NewConnector(Options{Database: "test", Retries: 1}, quietLogger(),
		func(context.Context, *mongo.Database) error {
			if atomic.AddInt32(&inits, 1) == 1 {
				return bad
			}
			return nil
		})

	var dials int
	c.dial = func(context.Context, Options) (*mongo.Client, error) {
		dials++
		return mongo.NewClient()
	}

	if _, err := c.Connect(context.Background()); !errors.Is(err, bad) {
		t.Fatalf("first Connect() error = %v, want init failure", err)
	}
	if _, err := c.Database(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Database() after init failure = %v, want ErrNotConnected", err)
	}
	if err := c.Ping(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Ping() after init failure = %v, want ErrNotConnected", err)
	}

	if _, err := c.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect() error = %v", err)
	}
	if dials != 2 {
		t.Errorf("dials = %d, want 2", dials)
	}
	if inits != 2 {
		t.Errorf("init ran %d times, want 2", inits)
	}
}

func TestConnectStopsOnContextCancel(t *testing.T) {
	c := NewConnector(Options{Retries: 5}, quietLogger())
	c.dial = func(context.Context, Options) (*mongo.Client, error) { return nil, errors.New("down") }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Connect(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Connect() error = %v, want context.Canceled", err)
	}
}

func TestRecordSuperAdmin(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	if err := RecordSuperAdmin(ctx, s, quietLogger()); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Settings.Get(ctx, models.SettingSuperAdminCreated); v != false {
		t.Errorf("flag = %v, want false", v)
	}

	_ = s.Users.Create(ctx, &models.User{Email: "root@x.com", Role: models.RoleSuperAdmin})
	if err := RecordSuperAdmin(ctx, s, quietLogger()); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Settings.Get(ctx, models.SettingSuperAdminCreated); v != true {
		t.Errorf("flag = %v, want true", v)
	}
}
