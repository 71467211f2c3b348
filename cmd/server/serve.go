package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/station-vendor-service/internal/auth"
	"github.com/maxviazov/station-vendor-service/internal/cache"
	"github.com/maxviazov/station-vendor-service/internal/config"
	"github.com/maxviazov/station-vendor-service/internal/handler"
	"github.com/maxviazov/station-vendor-service/internal/repository"
	"github.com/maxviazov/station-vendor-service/internal/repository/postgres"
	"github.com/maxviazov/station-vendor-service/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func commandServe(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

// services is the wired application graph.
type services struct {
	repo     *repository.Repository
	cache    cache.Cache
	closeFns []func()

	auth      service.AuthService
	stations  service.StationService
	platforms service.PlatformService
	users     service.UserService
	licenses  service.LicenseService
	dashboard service.DashboardService
}

func (s *services) Close() {
	for i := len(s.closeFns) - 1; i >= 0; i-- {
		s.closeFns[i]()
	}
}

func wire(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*services, error) {
	repo, err := repository.New(ctx, cfg, &log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}
	s := &services{repo: repo, closeFns: []func(){repo.Close}}

	s.cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.cache = rc
		s.closeFns = append(s.closeFns, func() { _ = rc.Close() })
		log.Info().Str("addr", cfg.Redis.Addr).Msg("dashboard cache enabled")
	} else {
		log.Warn().Msg("redis.addr is empty, dashboard cache disabled")
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		s.Close()
		return nil, err
	}

	pool := repo.Pool()
	stationRepo := postgres.NewStationRepository(pool)
	platformRepo := postgres.NewPlatformRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	licenseRepo := postgres.NewLicenseRepository(pool)
	tx := postgres.NewTxManager(pool)

	s.auth = service.NewAuthService(userRepo, stationRepo, tokens, s.cache, log)
	s.stations = service.NewStationService(stationRepo, s.cache, log)
	s.platforms = service.NewPlatformService(platformRepo, stationRepo, s.cache, log)
	s.users = service.NewUserService(userRepo, tx, s.cache, log)
	s.licenses = service.NewLicenseService(licenseRepo, stationRepo, platformRepo, tx, s.cache, log)
	s.dashboard = service.NewDashboardService(postgres.NewDashboardRepository(pool), s.cache, cfg.Redis.CacheTTL, log)
	return s, nil
}

func runServe(ctx context.Context, configPath string) error {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	log.Info().Msg("✅ Logger initialized successfully")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := wire(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	handler.Register(engine, handler.Deps{
		Pinger:     postgres.NewPinger(s.repo.Pool()),
		Logger:     log,
		Pagination: cfg.Pagination,
		Auth:       s.auth,
		Stations:   s.stations,
		Platforms:  s.platforms,
		Users:      s.users,
		Licenses:   s.licenses,
		Dashboard:  s.dashboard,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: engine,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.App.Port).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.App.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
