package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cryptopulse/backend/internal/config"
	"github.com/cryptopulse/backend/internal/delivery/httpapi"
	"github.com/cryptopulse/backend/internal/infra/coingecko"
	"github.com/cryptopulse/backend/internal/infra/db"
	"github.com/cryptopulse/backend/internal/infra/expo"
	"github.com/cryptopulse/backend/internal/infra/log"
	"github.com/cryptopulse/backend/internal/scheduler"
	"github.com/cryptopulse/backend/internal/usecase"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type App struct {
	server    *http.Server
	jobs      *scheduler.Runner
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	userRepo := db.NewUserRepository(dbConn)
	tokenRepo := db.NewPushTokenRepository(dbConn)
	coinRepo := db.NewCoinRepository(dbConn)
	priceRepo := db.NewCoinPriceRepository(dbConn)
	favoriteRepo := db.NewFavoriteRepository(dbConn)
	logRepo := db.NewLogRepository(dbConn)
	notificationRepo := db.NewNotificationRepository(dbConn)

	pushClient := expo.NewClient(cfg.ExpoBaseURL, cfg.ExpoTimeout, cfg.ExpoBatchTimeout, logger)
	priceFeed := coingecko.NewClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoTimeout, rate.Limit(cfg.CoinGeckoRPS), logger)

	userUC := usecase.NewUserUsecase(userRepo, tokenRepo)
	coinUC := usecase.NewCoinUsecase(coinRepo, priceRepo)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo, userRepo, coinRepo, priceRepo)
	logUC := usecase.NewLogUsecase(logRepo, userRepo)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, userRepo, coinRepo)
	dispatcher := usecase.NewDispatcher(notificationRepo, userRepo, coinRepo, priceRepo, tokenRepo, pushClient, logger)
	refresher := usecase.NewPriceRefresher(coinRepo, priceRepo, priceFeed, logger)

	jobs := scheduler.New(dispatcher, refresher, cfg.DispatchInterval, cfg.RefreshInterval, logger)

	handlers := httpapi.NewHandlers(userUC, coinUC, favoriteUC, logUC, notificationUC, dispatcher, refresher, logger)
	router := httpapi.SetupRouter(handlers, cfg.CORSAllowOrigin)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanup := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &App{server: server, jobs: jobs, logger: logger, cleanupFn: cleanup}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("crypto pulse backend starting", zap.String("addr", a.server.Addr))
	a.jobs.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (a *App) Shutdown() {
	a.logger.Info("crypto pulse backend shutting down")
	a.jobs.Stop()
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
