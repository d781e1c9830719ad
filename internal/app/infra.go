package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/harentsoaR/dentaclinic-api/internal/authz"
	"github.com/harentsoaR/dentaclinic-api/internal/config"
	"github.com/harentsoaR/dentaclinic-api/internal/database"
	"github.com/harentsoaR/dentaclinic-api/internal/metrics"
	"github.com/harentsoaR/dentaclinic-api/internal/sessions"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
	"github.com/harentsoaR/dentaclinic-api/internal/store/mongostore"
	"github.com/harentsoaR/dentaclinic-api/internal/utils"
)

// InfraModule provides the database, session store, crypto and metrics.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideConnector),
	fx.Provide(ProvideStore),
	fx.Provide(ProvideRevoker),
	fx.Provide(ProvideTokenManager),
	fx.Provide(ProvidePasswordHasher),
	fx.Provide(authz.NewEnforcer),
	fx.Provide(metrics.New),
)

// ProvideConnector builds the MongoDB connector. Indexes, counters and the
// SuperAdmin flag are brought up to date on the first connection.
func ProvideConnector(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) *database.Connector {
	conn := database.NewConnector(database.OptionsFromConfig(cfg), log,
		database.EnsureIndexes,
		database.SeedCounters,
		database.CheckSuperAdmin(log),
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing MongoDB connection")
			return conn.Disconnect(ctx)
		},
	})
	return conn
}

func ProvideStore(cfg *config.Config, conn *database.Connector) (*store.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout(cfg))
	defer cancel()
	db, err := conn.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	return mongostore.New(db), nil
}

// connectTimeout leaves room for every retry with its backoff.
func connectTimeout(cfg *config.Config) time.Duration {
	per := cfg.DBServerSelectionTimeout + cfg.DBConnectBackoff<<cfg.DBConnectRetries
	return time.Duration(cfg.DBConnectRetries)*per + 5*time.Second
}

// ProvideRevoker uses Redis when REDIS_ADDR is set and an in-process map
// otherwise.
func ProvideRevoker(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (sessions.Revoker, error) {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, token revocation is kept in memory")
		return sessions.NewMemoryRevoker(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rdb, err := sessions.NewRedisClient(ctx, sessions.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return sessions.NewRedisRevoker(rdb), nil
}

func ProvideTokenManager(cfg *config.Config) (*utils.TokenManager, error) {
	return utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
}

func ProvidePasswordHasher(cfg *config.Config) *utils.PasswordHasher {
	return utils.NewPasswordHasher(cfg.BcryptCost)
}
