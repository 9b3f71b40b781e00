package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/countledger/countledger/internal/dbpool"
	"github.com/countledger/countledger/internal/middleware"
	"github.com/countledger/countledger/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool
	Hub         *ws.Hub
	Auth        AuthProvider
	Registrar   Registrar
	Audit       AuditRepository
	Settings    SettingsReader
	Sessions    middleware.SessionLookup
	CORSOrigins []string
	Version     string

	// TrailMaxLimit caps the trail page size; 0 means the default.
	TrailMaxLimit int
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB; audit payloads are small
	rateLimit   = 100     // requests per second per IP
	rateBurst   = 200     // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version)
	auth := NewAuthHandler(deps.Auth, deps.Registrar, log)
	audit := NewAuditHandler(deps.Audit, log, deps.TrailMaxLimit)
	settings := NewSettingsHandler(deps.Settings, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Registration and sign-in are the only other unauthenticated routes,
	// but they still go through the brute-force guard.
	bfGuard := middleware.NewBruteForceGuard(ctx, log)
	api.Use(middleware.BruteForceMiddleware(bfGuard))

	api.POST("/auth/register", auth.Register)
	api.POST("/auth/signin", auth.SignIn)

	// Everything below requires a valid session token.
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(middleware.NewCachedSessionLookup(ctx, deps.Sessions), log, bfGuard))

	authed.POST("/auth/signout", auth.SignOut)
	authed.GET("/auth/profile", auth.Profiles)

	// Audit trail.
	authed.POST("/audit/log", audit.Record)
	authed.GET("/audit/trail", audit.Trail)
	authed.DELETE("/audit", audit.Purge)

	// Tenant settings.
	authed.GET("/settings", settings.Get)

	// WebSocket endpoint for live trail updates.
	authed.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, deps.Sessions))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
