package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/originlytics/originlytics/internal/analysis"
	"github.com/originlytics/originlytics/internal/cache"
	apperrors "github.com/originlytics/originlytics/internal/errors"
	"github.com/originlytics/originlytics/internal/middleware"
	"github.com/originlytics/originlytics/internal/modelclient"
	"github.com/originlytics/originlytics/internal/monitoring"
	"github.com/originlytics/originlytics/internal/ratelimit"
	"github.com/originlytics/originlytics/internal/resilience"
	"github.com/originlytics/originlytics/internal/security"
	"github.com/originlytics/originlytics/internal/types"
)

const version = "1.0.0"

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", value, "default", fallback)
	}
	return fallback
}

func main() {
	// .env is optional, real deployments configure through the environment
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	logger := monitoring.NewLogger()
	slog.SetDefault(logger.Logger)

	if getEnvOrDefault("GIN_MODE", "debug") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	appMetrics := monitoring.NewMetrics()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Memory monitoring feeds GC figures into the metrics endpoint
	gcThresholdMB := getEnvInt("GC_THRESHOLD_MB", 512)
	memMonitor := monitoring.NewMemoryMonitor(15*time.Second, uint64(gcThresholdMB)*1024*1024, logger, appMetrics)
	memMonitor.Start()
	defer memMonitor.Stop()
	monitoring.TuneGC(uint64(gcThresholdMB) * 1024 * 1024)

	tracer := monitoring.NewTracer("originlytics-api", logger)

	// Alerting evaluates live metrics once a minute
	monitoring.InitGlobalAlertManager(logger, appMetrics, time.Minute)
	if webhookURL := os.Getenv("SLACK_WEBHOOK_URL"); webhookURL != "" {
		monitoring.GetGlobalAlertManager().AddNotifier(monitoring.NewSlackNotifier(webhookURL))
	}
	monitoring.StartGlobalAlerting(rootCtx)

	// Model API client. Without configuration the service runs on local
	// metrics only.
	model := modelclient.NewClient(os.Getenv("MODEL_API_URL"), os.Getenv("MODEL_API_KEY"))
	if model.IsConfigured() {
		slog.Info("Model API client configured")
		resilience.RegisterService(modelclient.ServiceName, model.HealthCheck)
	} else {
		slog.Warn("MODEL_API_URL not set, analyses will use local metrics only")
	}
	resilience.StartHealthChecks(rootCtx)

	analyzer := analysis.NewAnalyzer(model)

	// Distributed rate limiting with in-memory fallback
	redisClient, err := ratelimit.NewRedisClient(
		os.Getenv("REDIS_ADDR"),
		os.Getenv("REDIS_PASSWORD"),
		getEnvInt("REDIS_DB", 0),
	)
	if err != nil {
		slog.Warn("Redis initialization failed", "error", err)
	}

	rlConfig := ratelimit.Config{
		IPLimitPerMin:      getEnvInt("RATE_LIMIT_IP_PER_MIN", 60),
		AnalyzeLimitPerMin: getEnvInt("RATE_LIMIT_ANALYZE_PER_MIN", 20),
		BurstMultiplier:    2,
	}
	limiter := ratelimit.NewRateLimiter(redisClient, rlConfig, appMetrics)

	secConfig := security.DefaultSecurityConfig()
	secConfig.MaxInputLength = analysis.MaxTextLength
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		secConfig.AllowedOrigins = strings.Split(origins, ",")
	}
	sm := security.NewSecurityMiddleware(secConfig)

	responseCache := cache.NewCache(time.Duration(getEnvInt("CACHE_TTL_MINUTES", 15)) * time.Minute)
	compression := middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig())

	r := gin.New()
	if err := r.SetTrustedProxies(secConfig.TrustedProxies); err != nil {
		slog.Warn("Failed to set trusted proxies", "error", err)
	}

	r.Use(monitoring.MonitoringMiddleware(appMetrics, logger))
	r.Use(monitoring.TracingMiddleware(tracer))
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())
	r.Use(sm.SecurityHeaders)
	r.Use(sm.RequestTimeout)
	r.Use(sm.ValidateContentType)
	r.Use(monitoring.SecurityMonitoringMiddleware(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     secConfig.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(compression.Handler())
	r.Use(limiter.IPRateLimitMiddleware())

	api := r.Group("/api/v1")
	api.POST("/analyze",
		limiter.EndpointRateLimitMiddleware("analyze", rlConfig.AnalyzeLimitPerMin),
		responseCache.Middleware(appMetrics),
		analyzeHandler(analyzer, sm, appMetrics, logger),
	)

	r.GET("/health", healthHandler(appMetrics))
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"application":  appMetrics.GetStats(),
			"memory":       memMonitor.GetStats(),
			"compression":  compression.GetStats(),
			"rate_limiter": limiter.GetStats(),
		})
	})
	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, responseCache.Stats())
	})
	r.GET("/alerts", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"active": monitoring.GetGlobalAlertManager().GetActiveAlerts(),
		})
	})

	if os.Getenv("ENABLE_PROFILING") == "true" {
		slog.Warn("Profiling endpoints enabled, do not expose publicly")
		r.GET("/debug/pprof/*name", func(c *gin.Context) {
			switch c.Param("name") {
			case "/cmdline":
				pprof.Cmdline(c.Writer, c.Request)
			case "/profile":
				pprof.Profile(c.Writer, c.Request)
			case "/symbol":
				pprof.Symbol(c.Writer, c.Request)
			case "/trace":
				pprof.Trace(c.Writer, c.Request)
			default:
				pprof.Index(c.Writer, c.Request)
			}
		})
	}

	port := getEnvOrDefault("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", port, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-rootCtx.Done()
	slog.Info("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}

	apperrors.SafeClose(model, "model API client")
	apperrors.SafeClose(redisClient, "redis client")

	slog.Info("Server stopped")
}

// analyzeHandler runs the detection pipeline for one text submission
func analyzeHandler(analyzer *analysis.Analyzer, sm *security.SecurityMiddleware, appMetrics *monitoring.Metrics, logger *monitoring.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req types.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := apperrors.NewValidationError("request body must be JSON with a non-empty text field")
			apperrors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		text := strings.TrimSpace(req.Text)
		if err := sm.ValidateInput(text); err != nil {
			appErr := apperrors.NewValidationError(err.Error())
			apperrors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		report, err := analyzer.Analyze(c.Request.Context(), text)
		if err != nil {
			appErr := apperrors.ToAppError(err)
			apperrors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		appMetrics.IncrementAnalyses()
		if report.ModelMetricsUsed {
			appMetrics.IncrementModelAPICalls()
			appMetrics.RecordExternalAPIRequest(modelclient.ServiceName, true)
		}

		logger.AnalysisLogger(len(text), report.WordCount, float64(report.OverallScore), float64(report.Confidence), report.ModelMetricsUsed, time.Since(start))

		c.JSON(http.StatusOK, report)
	}
}

// healthHandler reports service status. Any dependency in emergency
// state flips the response to 503 so load balancers stop routing here.
func healthHandler(appMetrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		services := resilience.GetAllServiceHealth()

		status := "ok"
		httpStatus := http.StatusOK
		serviceStates := make(map[string]interface{}, len(services))
		for name, health := range services {
			state := "ok"
			switch health.Level {
			case resilience.LevelDegraded:
				state = "degraded"
			case resilience.LevelCritical:
				state = "critical"
			case resilience.LevelEmergency:
				state = "emergency"
				status = "degraded"
				httpStatus = http.StatusServiceUnavailable
			}
			serviceStates[name] = gin.H{
				"state":      state,
				"error_rate": fmt.Sprintf("%.2f", health.ErrorRate),
				"requests":   health.TotalRequests,
			}
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
			"services":  serviceStates,
			"metrics": gin.H{
				"uptime_seconds": appMetrics.GetStats()["uptime_seconds"],
				"total_requests": appMetrics.GetStats()["total_requests"],
			},
		})
	}
}
