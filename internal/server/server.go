package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/fx"

	"github.com/harentsoaR/dentaclinic-api/internal/authz"
	"github.com/harentsoaR/dentaclinic-api/internal/config"
	"github.com/harentsoaR/dentaclinic-api/internal/database"
	"github.com/harentsoaR/dentaclinic-api/internal/handlers"
	"github.com/harentsoaR/dentaclinic-api/internal/metrics"
	"github.com/harentsoaR/dentaclinic-api/internal/middleware"
)

// Module provides the HTTP server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Log       *slog.Logger
	Handler   *handlers.Handler
	Enforcer  *authz.Enforcer
	Metrics   *metrics.Metrics
	DB        *database.Connector
}

func NewServer(p Params) *http.Server {
	srv := &http.Server{
		Addr:              ":" + p.Cfg.Port,
		Handler:           NewRouter(p.Cfg, p.Log, p.Handler, p.Enforcer, p.Metrics, p.DB),
		ReadHeaderTimeout: 10 * time.Second,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			p.Log.Info("starting HTTP server", "addr", srv.Addr)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Log.Error("HTTP server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Log.Info("shutting down HTTP server")
			return srv.Shutdown(ctx)
		},
	})
	return srv
}

// NewRouter builds the gin engine with the global middleware chain, the
// operational endpoints and the API routes.
func NewRouter(cfg *config.Config, log *slog.Logger, h *handlers.Handler, enf *authz.Enforcer, m *metrics.Metrics, db Pinger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(m.Middleware())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			log.Warn("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	h.RegisterRoutes(r, enf)
	return r
}

// corsConfig allows the configured origins. A "*" entry opens the API to any
// origin, without credentials.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || lo.Contains(origins, "*") {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
		return c
	}
	c.AllowOrigins = origins
	return c
}
