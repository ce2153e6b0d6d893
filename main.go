package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gogotex/blog/handlers"
	"github.com/gogotex/blog/internal/bootstrap"
	"github.com/gogotex/blog/internal/config"
	"github.com/gogotex/blog/internal/post/handler"
	"github.com/gogotex/blog/internal/post/watch"
	"github.com/gogotex/blog/internal/site"
	"github.com/gogotex/blog/pkg/logger"
	"github.com/gogotex/blog/pkg/metrics"
	"github.com/gogotex/blog/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL is read before config so config loading itself can be traced.
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	if err := logger.SetFormat(cfg.Log.Format); err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Infof("config loaded: source=%s redis=%v rate_limit=%v", cfg.Posts.Source, cfg.Redis.Enabled(), cfg.RateLimit.Enabled)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := bootstrap.OpenSource(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open posts source: %v", err)
	}
	defer func() { _ = src.Close(context.Background()) }()

	rdb := bootstrap.OpenRedis(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	svc := bootstrap.NewService(cfg, src.Loader, rdb)
	if err := svc.Init(ctx); err != nil {
		// the service retries on first request; the listing stays unready until then
		logger.Err(err, "initial index build failed")
	}

	if cfg.Posts.Watch && src.Dir != "" {
		w, err := watch.New(src.Dir, svc, watch.DefaultDebounce)
		if err != nil {
			logger.Warnf("post watcher disabled: %v", err)
		} else {
			go w.Run(ctx)
		}
	}

	pages, err := site.New(bootstrap.SiteMeta(cfg), site.ServerLinks)
	if err != nil {
		logger.Fatalf("failed to parse templates: %v", err)
	}

	r := gin.New()

	// Lightweight CORS for the read-only API.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.RateLimit.Enabled {
		// Redis-backed when available so several instances share one budget.
		r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Window))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// ready only once the search indexes have been built
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{"index": svc.Ready()}
		if cfg.Redis.Enabled() {
			deps["redis"] = rdb != nil
		}
		uptime := time.Since(startTime).String()
		if !deps["index"] {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})

	handlers.RegisterPageRoutes(r, handlers.NewPages(svc, pages, cfg.Posts.Featured))
	handler.RegisterPostRoutes(r, handler.NewPostHandler(svc, cfg.Posts.Featured))
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting blog on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
