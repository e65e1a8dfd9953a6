// Package server exposes the lookup component over a gin engine.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/components/brlookup"
	"github.com/goliatone/go-formfill/internal/config"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the gin engine: recovery, request logging, CORS, a health
// probe and the lookup component under the configured base path. Extra
// options are applied after the ones derived from cfg.
func NewRouter(cfg *config.Config, logger *zap.Logger, extra ...brlookup.OptionFn) *gin.Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(corsMiddleware(cfg.Server.CORSOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	mount := brlookup.MountPath(cfg.Server.BasePath)
	fns := []brlookup.OptionFn{
		brlookup.WithRoutePath(mount),
		brlookup.WithBaseURL(cfg.Lookup.BaseURL),
		brlookup.WithTimeout(cfg.Lookup.Timeout),
		brlookup.WithChainPause(cfg.Lookup.ChainPause),
		brlookup.WithCoalescing(cfg.CoalesceLookups()),
		brlookup.WithLogger(logger.Named("brlookup")),
	}
	component := brlookup.New(append(fns, extra...)...)
	router.Any(mount+"/*rest", gin.WrapH(component.Handler()))

	logger.Info("lookup routes mounted", zap.String("mount", mount))
	return router
}

// Run serves router on cfg's address until ctx is cancelled, then drains
// in-flight requests.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger, router http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := false
	allowed := map[string]bool{}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
