package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/net/netutil"

	"portlens/config"
	_ "portlens/docs"
	"portlens/logging"
	"portlens/scanner"
)

// Run loads configuration, wires dependencies and serves the API until SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Configure(os.Stdout, logging.ParseLevel(cfg.LogLevel))

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
	} else {
		logger.Warn("REDIS_ADDR not set, rate limiting disabled")
	}
	if cfg.APIKey == "" {
		logger.Warn("API_KEY not set, authentication disabled")
	}

	ctrl := scanner.NewController(scanner.Config{Workers: cfg.Workers, Timeout: cfg.Timeout}, scanner.WithLogger(logger))
	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(cfg, ctrl, redisClient, logger)

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
	}
	ln = netutil.LimitListener(ln, cfg.MaxConns)

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting portlens API server", "addr", ln.Addr().String(), "max_conns", cfg.MaxConns)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	_ = ctrl.Cancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewRouter builds the gin engine. Authentication is enabled when cfg.APIKey is
// set and rate limiting when redisClient is non-nil.
func NewRouter(cfg config.Config, ctrl *scanner.Controller, redisClient *redis.Client, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLoggingMiddleware(logger), SecurityHeadersMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	if cfg.APIKey != "" {
		v1.Use(AuthMiddleware(cfg.APIKey, logger))
	}
	if redisClient != nil {
		v1.Use(RateLimitMiddleware(redisClient, cfg.RateLimit, cfg.RateWindow, logger))
	}
	NewServer(ctrl, cfg.SummaryDir, logger).RegisterRoutes(v1)

	return router
}
