// Package api implements app.Runner for the payment verifier process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/payment-verifier/pkg/app/http"
	"github.com/chainsafe/payment-verifier/pkg/auth"
	"github.com/chainsafe/payment-verifier/pkg/config"
	"github.com/chainsafe/payment-verifier/pkg/lock"
	"github.com/chainsafe/payment-verifier/pkg/network"
	paymentservice "github.com/chainsafe/payment-verifier/pkg/payment/service"
	"github.com/chainsafe/payment-verifier/pkg/paymentstore"
	"github.com/chainsafe/payment-verifier/pkg/pgutil"
	"github.com/chainsafe/payment-verifier/pkg/scheduler"
	"github.com/chainsafe/payment-verifier/pkg/verifier"
)

const defaultRequestTimeout = 60 * time.Second

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new api server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting payment verifier",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("store", cfg.Store),
	)

	store, closeStore, err := s.openStore(ctx, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	locker, closeLocker, err := s.openLocker(ctx, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	networks, err := s.loadNetworks(logger)
	if err != nil {
		return err
	}

	engine := verifier.New(store, networks, verifier.NewClientFactory(cfg.RPC, logger), cfg.Verification, logger)

	stopScheduler := s.startScheduler(store, engine, locker, logger)
	// Explicitly stopped after ServeAndWait returns; the defer covers early exits.
	defer stopScheduler()

	paymentSvc := paymentservice.NewService(
		store,
		networks,
		engine,
		locker,
		cfg.Payments,
		cfg.Verification.DefaultTolerance,
		logger,
	)

	router := s.setupRouter(paymentservice.NewLog(paymentSvc, logger), logger)

	err = apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)

	// Stop background verification before the store and locker close.
	stopScheduler()

	return err
}

func (s *Server) openStore(ctx context.Context, logger *zap.Logger) (paymentstore.Store, func(), error) {
	if s.cfg.Store == config.StoreMemory {
		logger.Warn("Using in-memory payment store; records are lost on restart")
		return paymentstore.NewMemoryStore(), func() {}, nil
	}

	db, err := pgutil.ConnectDB(ctx, &s.cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}
	logger.Info("Connected to database",
		zap.String("host", s.cfg.Database.Host),
		zap.String("database", s.cfg.Database.Database),
	)
	return paymentstore.NewStore(db), func() { _ = db.Close() }, nil
}

func (s *Server) openLocker(ctx context.Context, logger *zap.Logger) (lock.Locker, func(), error) {
	if !s.cfg.Redis.Enabled {
		logger.Info("Redis disabled; using in-process payment locks")
		return lock.NewLocalLocker(), func() {}, nil
	}

	client, err := lock.Connect(ctx, s.cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to redis", zap.String("addr", s.cfg.Redis.Addr))
	return lock.NewRedisLocker(client, s.cfg.Redis.LockTTL, logger), func() { _ = client.Close() }, nil
}

func (s *Server) loadNetworks(logger *zap.Logger) (*network.Registry, error) {
	networks := network.Builtin()
	if s.cfg.NetworksFile == "" {
		return networks, nil
	}

	overrides, err := network.LoadFile(s.cfg.NetworksFile)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded network overrides",
		zap.String("path", s.cfg.NetworksFile),
		zap.Strings("networks", overrides.Keys()),
	)
	return networks.Merge(overrides), nil
}

func (s *Server) startScheduler(
	store paymentstore.Store,
	engine *verifier.Engine,
	locker lock.Locker,
	logger *zap.Logger,
) func() {
	if !s.cfg.Scheduler.Enabled {
		logger.Info("Verification scheduler disabled")
		return func() {}
	}

	sched := scheduler.New(store, engine, locker, s.cfg.Scheduler, logger)
	sched.Start()

	// Return stopper for deterministic shutdown ordering.
	return sched.Stop
}

func (s *Server) setupRouter(paymentSvc paymentservice.Service, logger *zap.Logger) chi.Router {
	cfg := s.cfg

	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if cfg.Monitoring.Enabled {
		r.Handle(cfg.Monitoring.Path, promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", cfg.Monitoring.Path))
	}

	jwtValidator := auth.NewJWTValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	paymentservice.RegisterRoutes(r, paymentSvc, jwtValidator.Middleware, logger)

	return r
}
