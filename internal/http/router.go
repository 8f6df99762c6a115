package http

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	authHTTP "github.com/allisson/bizdata/internal/auth/http"
	authService "github.com/allisson/bizdata/internal/auth/service"
	authUseCase "github.com/allisson/bizdata/internal/auth/usecase"
	"github.com/allisson/bizdata/internal/config"
	forexHTTP "github.com/allisson/bizdata/internal/forex/http"
	gstinHTTP "github.com/allisson/bizdata/internal/gstin/http"
	mandiHTTP "github.com/allisson/bizdata/internal/mandi/http"
	"github.com/allisson/bizdata/internal/metrics"
	ocrHTTP "github.com/allisson/bizdata/internal/ocr/http"
)

// ServiceName is reported by the root endpoint.
const ServiceName = "Indian Business Data API"

// docsPath lists the routes of the API.
const docsPath = "/docs"

// Handlers groups the route handlers of the API.
type Handlers struct {
	Session *authHTTP.SessionHandler
	APIKey  *authHTTP.APIKeyHandler
	GSTIN   *gstinHTTP.VerifyHandler
	Forex   *forexHTTP.ForexHandler
	Mandi   *mandiHTTP.MandiHandler
	OCR     *ocrHTTP.OCRHandler
}

// Authenticators holds what the session and API key middlewares need.
type Authenticators struct {
	SessionUseCase authUseCase.SessionUseCase
	APIKeyUseCase  authUseCase.APIKeyUseCase
	TokenService   authService.TokenService
}

// TierLimits converts the configured per-tier buckets for the rate limiter.
func TierLimits(cfg *config.Config) map[authDomain.Tier]authHTTP.TierLimit {
	toLimit := func(l config.TierLimit) authHTTP.TierLimit {
		return authHTTP.TierLimit{RequestsPerSec: l.RequestsPerSec, Burst: l.Burst}
	}
	return map[authDomain.Tier]authHTTP.TierLimit{
		authDomain.TierFree:       toLimit(cfg.TierFree),
		authDomain.TierPro:        toLimit(cfg.TierPro),
		authDomain.TierEnterprise: toLimit(cfg.TierEnterprise),
	}
}

// SetupRouter builds the gin engine with every route of the API.
//
// Middleware order: recovery, request ID, request logging, optional CORS,
// optional HTTP metrics. Data routes authenticate the API key before the
// tier rate limiter runs, so the limiter sees the key's tier.
func (s *Server) SetupRouter(
	cfg *config.Config,
	handlers Handlers,
	auth Authenticators,
	metricsProvider *metrics.Provider,
	version string,
) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		s.logger.Error("invalid trusted proxies, forwarding headers are ignored", slog.Any("error", err))
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":       "Welcome to the " + ServiceName,
			"version":       version,
			"documentation": docsPath,
		})
	})
	router.GET(docsPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"routes": listRoutes(router.Routes())})
	})
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	otp := v1.Group("/auth/otp")
	if cfg.RateLimitOTPEnabled {
		otp.Use(authHTTP.IPRateLimitMiddleware(cfg.RateLimitOTPRequestsPerSec, cfg.RateLimitOTPBurst, s.logger))
	}
	otp.POST("", handlers.Session.RequestOTPHandler)
	otp.POST("/verify", handlers.Session.VerifyOTPHandler)

	keys := v1.Group("/keys")
	keys.Use(authHTTP.SessionAuthMiddleware(auth.SessionUseCase, auth.TokenService, s.logger))
	keys.POST("", handlers.APIKey.CreateHandler)
	keys.GET("", handlers.APIKey.ListHandler)
	keys.DELETE("/:id", handlers.APIKey.RevokeHandler)

	data := v1.Group("")
	data.Use(authHTTP.APIKeyAuthMiddleware(auth.APIKeyUseCase, auth.TokenService, s.logger))
	if cfg.RateLimitEnabled {
		data.Use(authHTTP.TierRateLimitMiddleware(TierLimits(cfg), s.logger))
	}

	data.GET("/gst/verify/:gstin", handlers.GSTIN.VerifyHandler)
	data.POST("/gst/verify", handlers.GSTIN.VerifyBatchHandler)

	data.GET("/forex/usd-inr", handlers.Forex.USDINRHandler)
	data.GET("/forex/quote/:base/:target", handlers.Forex.QuoteHandler)
	data.GET("/forex/rates/:base", handlers.Forex.RatesHandler)

	data.GET("/mandi/snapshot", handlers.Mandi.SnapshotHandler)

	data.POST("/ocr/pdf-to-text",
		authHTTP.TierMiddleware(authDomain.TierPro, s.logger),
		handlers.OCR.PDFToTextHandler,
	)

	s.router = router
}

// RouteInfo describes one registered route.
type RouteInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// listRoutes returns the routes sorted by path then method.
func listRoutes(routes gin.RoutesInfo) []RouteInfo {
	result := make([]RouteInfo, 0, len(routes))
	for _, route := range routes {
		result = append(result, RouteInfo{Method: route.Method, Path: route.Path})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Path != result[j].Path {
			return result[i].Path < result[j].Path
		}
		return result[i].Method < result[j].Method
	})
	return result
}
