package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	listingcache "artha-lending/internal/adapter/cache"
	httpadp "artha-lending/internal/adapter/http"
	"artha-lending/internal/adapter/middleware"
	"artha-lending/internal/adapter/payment"
	"artha-lending/internal/adapter/repository/gormrepo"
	"artha-lending/internal/adapter/repository/memory"
	"artha-lending/internal/config"
	"artha-lending/internal/domain/policy"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/infrastructure/cache"
	"artha-lending/internal/infrastructure/db"
	"artha-lending/internal/infrastructure/logger"
	"artha-lending/internal/usecase/collections"
	"artha-lending/internal/usecase/funding"
	"artha-lending/internal/usecase/loan"
	"artha-lending/internal/usecase/marketplace"
	"artha-lending/internal/usecase/portfolio"
	"artha-lending/internal/usecase/repayment"
	"artha-lending/internal/usecase/review"
	"artha-lending/internal/usecase/user"
	"artha-lending/pkg/clock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	checks := map[string]httpadp.Check{}

	store, closeStore, err := openStore(cfg, log, checks)
	if err != nil {
		log.Fatal("open store", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer closeStore()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("connect redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("close redis", zap.Error(err))
			}
		}()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn("REDIS_ADDR empty: idempotency replay and listing cache disabled")
	}

	var listings marketplace.Cache
	var mw []echo.MiddlewareFunc
	if rdb != nil {
		listings = listingcache.NewListingCache(rdb, cfg.MarketplaceCacheTTL, log)
		mw = append(mw, middleware.Idempotency(rdb, cfg.IdempotencyTTL(), log))
	}

	var (
		p   = policy.Default()
		clk = clock.System{}
		gw  = payment.WithTimeout(payment.StaticGateway{}, cfg.PaymentTimeout)
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.HTTPErrorHandler = httpadp.ErrorHandler(log)
	e.Use(echomw.RequestID(), middleware.RequestLogger(log), echomw.Recover())

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health:      httpadp.NewHandler(checks),
		Users:       httpadp.NewUserHandler(user.NewUsecase(store, p, clk, log), portfolio.NewUsecase(store)),
		Loans:       httpadp.NewLoanHandler(loan.NewUsecase(store, p, clk, log)),
		Review:      httpadp.NewReviewHandler(review.NewUsecase(store, clk, log)),
		Funding:     httpadp.NewFundingHandler(funding.NewUsecase(store, p, gw, clk, log)),
		Repayments:  httpadp.NewRepaymentHandler(repayment.NewUsecase(store, gw, clk, log)),
		Collections: httpadp.NewCollectionsHandler(collections.NewUsecase(store, clk, log)),
		Marketplace: httpadp.NewMarketplaceHandler(marketplace.NewUsecase(store, listings, log)),
	}, mw...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srvErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		srvErr <- e.Start(addr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
		return
	}
	log.Info("server exited cleanly")
}

// openStore picks the unit of work for DB_DRIVER and registers its health check.
func openStore(cfg *config.Config, log *zap.Logger, checks map[string]httpadp.Check) (uow.UnitOfWork, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		log.Warn("using in-memory store; state is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), log)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DBAutoMigrate {
		if err := gormrepo.Migrate(gdb); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	checks["database"] = sqlDB.PingContext
	return gormrepo.NewGormUoW(gdb), func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn("close database", zap.Error(err))
		}
	}, nil
}
