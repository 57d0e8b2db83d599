package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/shop-backend/internal/config"
	"github.com/iliyamo/shop-backend/internal/database"
	"github.com/iliyamo/shop-backend/internal/handler"
	"github.com/iliyamo/shop-backend/internal/logger"
	"github.com/iliyamo/shop-backend/internal/mail"
	"github.com/iliyamo/shop-backend/internal/middleware"
	"github.com/iliyamo/shop-backend/internal/repository"
	"github.com/iliyamo/shop-backend/internal/router"
	"github.com/iliyamo/shop-backend/internal/service"
	"github.com/iliyamo/shop-backend/internal/utils"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(cfg.Env); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(database.Options{
		User:            cfg.DBUser,
		Pass:            cfg.DBPass,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, running without cache and rate limiting")
	} else {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	clients := repository.NewClientRepo(db)
	products := repository.NewProductRepo(db)
	orders := repository.NewOrderRepo(db)
	stats := repository.NewStatisticsRepo(db)

	tx := func(ctx context.Context, fn func(service.Stores) error) error {
		return database.WithTx(ctx, db, func(tx database.DBTX) error {
			return fn(service.Stores{
				Users:  repository.NewUserRepo(tx),
				Tokens: repository.NewVerificationTokenRepo(tx),
			})
		})
	}

	codec := utils.NewTokenCodec([]byte(cfg.JWTSecret))
	tokens := service.NewTokenService(codec, users, service.TokenConfig{
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		Prefix:     cfg.TokenPrefix,
	})
	auth := service.NewAuthService(users, tokens)
	accounts := service.NewUserService(tx, users, mail.New(cfg.SMTP), service.UserConfig{
		BcryptCost:      cfg.BcryptCost,
		VerificationTTL: cfg.VerificationTTL,
		BaseURL:         cfg.BaseURL,
	})

	cacheCfg := config.LoadCacheConfig()
	e := router.New(router.Handlers{
		Auth:     handler.NewAuthHandler(auth, tokens, cfg.CookieMaxAge),
		Users:    handler.NewUserHandler(accounts),
		Clients:  handler.NewClientHandler(service.NewClientService(clients)),
		Products: handler.NewProductHandler(service.NewProductService(products)),
		Orders:   handler.NewOrderHandler(service.NewOrderService(orders, clients, products)),
		Shop:     handler.NewShopHandler(service.NewShopService(stats)),
	}, router.Options{
		Tokens:     tokens,
		RateLimit:  middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:      middleware.NewRedisCache(cacheCfg, rdb),
		Invalidate: middleware.NewCacheInvalidator(cacheCfg, rdb),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
