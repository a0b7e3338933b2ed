package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/bcat-alignment/internal/analysis"
	"github.com/ZanzyTHEbar/bcat-alignment/internal/cache"
	"github.com/ZanzyTHEbar/bcat-alignment/internal/config"
	"github.com/ZanzyTHEbar/bcat-alignment/internal/errors"
	"github.com/ZanzyTHEbar/bcat-alignment/internal/monitoring"
	"github.com/ZanzyTHEbar/bcat-alignment/internal/security"
	"github.com/ZanzyTHEbar/bcat-alignment/internal/types"
)

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	r, err := setupRouter(cfg)
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// setupRouter wires the engine and all middleware into a gin router.
func setupRouter(cfg *config.Config) (*gin.Engine, error) {
	engine, err := analysis.NewEngine(cfg.Weights, cfg.Multipliers, toCatalog(cfg.Patterns))
	if err != nil {
		return nil, errors.WrapError(err, "building scoring engine")
	}

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	r := gin.New()

	// Monitoring first, to capture all requests
	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	securityMiddleware := security.NewSecurityMiddleware(security.SecurityConfig{
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
		RequestTimeout:    time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	})
	r.Use(securityMiddleware.SecurityHeaders)
	r.Use(securityMiddleware.RequestTimeout)
	r.Use(securityMiddleware.ValidateContentType)
	r.Use(securityMiddleware.RateLimitByIP)

	if cfg.CacheTTLSeconds > 0 {
		appCache := cache.New(time.Duration(cfg.CacheTTLSeconds) * time.Second)
		r.Use(appCache.Middleware(appMetrics))

		r.GET("/cache/stats", func(c *gin.Context) {
			c.JSON(http.StatusOK, appCache.Stats())
		})
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
			"patterns":  len(engine.Catalog()),
		})
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, appMetrics.GetStats())
	})

	r.POST("/score", scoreHandler(engine, appMetrics, appLogger))

	return r, nil
}

// scoreHandler serves single-pattern and best-of-catalog scoring.
func scoreHandler(engine *analysis.Engine, appMetrics *monitoring.Metrics, appLogger *monitoring.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req types.ScoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid request body", err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		ref, hasSelector, err := engine.ResolvePattern(req.PatternID, req.PatternName, req.Pattern)
		if err != nil {
			appErr := errors.NewValidationError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		appMetrics.IncrementScoreRequests()

		if hasSelector {
			res, err := engine.ScoreOne(req.Spiky, ref)
			if err != nil {
				appErr := errors.NewValidationError(err.Error())
				errors.LogError(c, appErr)
				c.JSON(appErr.HTTPStatus, appErr)
				return
			}

			appLogger.ScoreLogger(ref.Name, 1, res.AlignmentPct, time.Since(start), c.GetBool("cache_hit"))
			c.JSON(http.StatusOK, analysis.ScoreResponse{Best: res})
			return
		}

		appMetrics.IncrementCatalogSearches()

		resp, err := engine.ScoreAll(req.Spiky)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		appLogger.ScoreLogger(resp.Best.Pattern.Name, len(engine.Catalog()), resp.Best.AlignmentPct, time.Since(start), c.GetBool("cache_hit"))
		c.JSON(http.StatusOK, resp)
	}
}

func toCatalog(patterns []config.PatternEntry) []analysis.CatalogEntry {
	catalog := make([]analysis.CatalogEntry, len(patterns))
	for i, p := range patterns {
		catalog[i] = analysis.CatalogEntry{ID: p.ID, Name: p.Name, Order: p.Order}
	}
	return catalog
}
