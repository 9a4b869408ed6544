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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-webinar-scheduler/config"
	"github.com/oksasatya/go-webinar-scheduler/internal/container"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/cache"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/generator"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/messaging"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/store"
	"github.com/oksasatya/go-webinar-scheduler/internal/interface/middleware"
	"github.com/oksasatya/go-webinar-scheduler/internal/router"
	"github.com/oksasatya/go-webinar-scheduler/pkg/helpers"
	"github.com/oksasatya/go-webinar-scheduler/pkg/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open webinar store")
	}
	defer st.Close()
	if st.Pool != nil {
		container.SetPGPool(st.Pool)
	}
	repo := st.Repo

	// Redis is optional: it backs the read cache and rate limiting
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			helpers.LogError(logger, "redis unavailable; cache and rate limiting disabled", err, logrus.Fields{"addr": cfg.RedisAddr})
		} else {
			container.SetRedis(rdb)
			repo = cache.NewWebinarRepository(repo, rdb, cfg.CacheTTL, logger)
		}
	}

	// RabbitMQ is optional: without it events are dropped
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQWebinarQueue)
		if err != nil {
			helpers.LogError(logger, "rabbitmq unavailable; webinar events disabled", err, nil)
		} else {
			defer pub.Close()
			container.SetEventPublisher(messaging.NewEventPublisher(pub))
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			helpers.LogError(logger, "elasticsearch client init failed; search disabled", err, nil)
		} else {
			container.SetES(es)
		}
	}

	// Provide singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetWebinarRepo(repo)
	container.SetIDGenerator(generator.NewUUIDGenerator())
	container.SetDateGenerator(generator.NewSystemDateGenerator())

	// Gin engine and global middleware
	r := gin.New()
	// forwarding headers count only when they come from a trusted proxy
	if err := r.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.WithError(err).Fatal("invalid TRUSTED_PROXIES")
	}
	r.TrustedPlatform = cfg.TrustedPlatform
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.UserIDHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) > 0 {
		r.Use(cors.New(corsCfg))
	}
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		helpers.LogInfo(logger, "server starting", logrus.Fields{"port": cfg.Port, "store": cfg.StoreDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
		return
	}
	logger.Info("server exited properly")
}
