package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/luizFelippedev/portfolio-backend/internal/analytics"
	"github.com/luizFelippedev/portfolio-backend/internal/auth"
	"github.com/luizFelippedev/portfolio-backend/internal/config"
	"github.com/luizFelippedev/portfolio-backend/internal/database"
	"github.com/luizFelippedev/portfolio-backend/internal/geo"
	"github.com/luizFelippedev/portfolio-backend/internal/handler"
	"github.com/luizFelippedev/portfolio-backend/internal/ratelimit"
	"github.com/luizFelippedev/portfolio-backend/internal/realtime"
	"github.com/luizFelippedev/portfolio-backend/internal/router"
	"github.com/luizFelippedev/portfolio-backend/internal/service"
)

// API is the HTTP + WebSocket application. All long-lived services are
// constructed once here and injected; nothing hangs off package globals.
type API struct {
	cfg    *config.Config
	srv    *http.Server
	db     *gorm.DB
	rdb    *redis.Client
	hub    *realtime.Hub
	snap   *realtime.Snapshotter
	logger *zap.Logger
}

// NewAPI validates config, runs migrations, opens the stores and wires the
// service graph.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	logger, _ := zap.NewProduction()
	if cfg.AppEnv == "development" {
		logger, _ = zap.NewDevelopment()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	authSvc := auth.NewService(db, cfg.JWTSecret, cfg.JWTTTL, logger)
	sink := analytics.NewService(rdb, logger)
	hub := realtime.NewHub(authSvc, sink, geo.NewResolver(), logger)
	snap := realtime.NewSnapshotter(hub, cfg.SnapshotInterval, logger)
	dispatcher := realtime.NewDispatcher(hub, snap, logger)

	contactLimiter := ratelimit.NewLimiter(rdb, cfg.ContactRateLimit, cfg.ContactRateWindow, logger)

	projectSvc := service.NewProjectService(db)
	certSvc := service.NewCertificateService(db)
	contactSvc := service.NewContactService(db, hub)
	notifSvc := service.NewNotificationService(db, hub, logger)

	r := router.New(router.Deps{
		Auth:          authSvc,
		AuthHandler:   handler.NewAuthHandler(authSvc, logger),
		Portfolio:     handler.NewPortfolioHandler(projectSvc, certSvc, logger),
		Contacts:      handler.NewContactHandler(contactSvc, sink, logger),
		Notifications: handler.NewNotificationHandler(notifSvc, logger),
		Health:        handler.NewHealthHandler(),
		WS: handler.NewWSHandler(hub, dispatcher, handler.WSOptions{
			ReadBufferSize:  cfg.WSReadBufferSize,
			WriteBufferSize: cfg.WSWriteBufferSize,
			MaxMessageSize:  cfg.WSMaxMessageSize,
			MessagesPerSec:  cfg.WSMessagesPerSec,
			MessageBurst:    cfg.WSMessageBurst,
		}, logger),
		ContactLimit: contactLimiter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, srv: srv, db: db, rdb: rdb, hub: hub, snap: snap, logger: logger}, nil
}

// Run starts the snapshot loop and the HTTP server, blocks until ctx is
// cancelled, then shuts down gracefully: HTTP first, then the snapshot loop
// is already stopped by the shared context before Redis is closed.
func (a *API) Run(ctx context.Context) error {
	defer a.logger.Sync()

	go a.snap.Run(ctx)

	a.logger.Info("server listening",
		zap.String("addr", a.srv.Addr),
		zap.String("env", a.cfg.AppEnv))
	go func() {
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	<-a.snap.Done()
	if err := a.rdb.Close(); err != nil {
		a.logger.Warn("redis close failed", zap.Error(err))
	}
	a.logger.Info("server shut down")
	return nil
}
