package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/harentsoaR/dentaclinic-api/internal/config"
)

var ErrNotConnected = errors.New("database is not connected")

type Options struct {
	URI                    string
	Database               string
	Retries                int
	Backoff                time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		URI:                    cfg.MongoURI,
		Database:               cfg.MongoDatabase,
		Retries:                cfg.DBConnectRetries,
		Backoff:                cfg.DBConnectBackoff,
		ServerSelectionTimeout: cfg.DBServerSelectionTimeout,
		SocketTimeout:          cfg.DBSocketTimeout,
	}
}

// InitFunc runs once after the first successful connection.
type InitFunc func(ctx context.Context, db *mongo.Database) error

// Connector owns the process wide MongoDB client. It is built once at
// startup and handed to whatever needs the database.
type Connector struct {
	opts Options
	log  *slog.Logger
	init []InitFunc

	// dial is mongo.Connect followed by a ping; replaced in tests.
	dial  func(ctx context.Context, opts Options) (*mongo.Client, error)
	sleep func(ctx context.Context, d time.Duration) error

	mu          sync.Mutex
	client      *mongo.Client
	db          *mongo.Database
	initialized bool
}

func NewConnector(opts Options, log *slog.Logger, init ...InitFunc) *Connector {
	if opts.Retries < 1 {
		opts.Retries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	return &Connector{
		opts:  opts,
		log:   log,
		init:  init,
		dial:  dial,
		sleep: sleepCtx,
	}
}

// Connect returns the live database, dialing if needed. Concurrent callers
// wait on the same attempt. A failed attempt leaves no state behind, so the
// next call starts over.
func (c *Connector) Connect(ctx context.Context) (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}

	var lastErr error
	delay := c.opts.Backoff
	for attempt := 1; attempt <= c.opts.Retries; attempt++ {
		client, err := c.dial(ctx, c.opts)
		if err == nil {
			c.client = client
			c.db = client.Database(c.opts.Database)
			break
		}
		lastErr = err
		c.log.Warn("mongodb connection attempt failed",
			"attempt", attempt, "max_attempts", c.opts.Retries, "error", err)

		if attempt == c.opts.Retries {
			break
		}
		if err := c.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		delay *= 2
	}
	if c.db == nil {
		return nil, fmt.Errorf("connect mongodb after %d attempts: %w", c.opts.Retries, lastErr)
	}
	c.log.Info("connected to mongodb", "database", c.opts.Database)

	if !c.initialized {
		for _, fn := range c.init {
			if err := fn(ctx, c.db); err != nil {
				// Drop the half-initialized client so the next Connect starts over.
				_ = c.client.Disconnect(context.WithoutCancel(ctx))
				c.client, c.db = nil, nil
				return nil, fmt.Errorf("initialize database: %w", err)
			}
		}
		c.initialized = true
	}
	return c.db, nil
}

// Database returns the connected database without dialing.
func (c *Connector) Database() (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil, ErrNotConnected
	}
	return c.db, nil
}

func (c *Connector) Ping(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return ErrNotConnected
	}
	return client.Ping(ctx, readpref.Primary())
}

func (c *Connector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client, c.db = nil, nil
	return err
}

func dial(ctx context.Context, opts Options) (*mongo.Client, error) {
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(opts.ServerSelectionTimeout).
		SetSocketTimeout(opts.SocketTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
