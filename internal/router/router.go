package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/stemsi/pathfinder-backend/internal/config"
	"github.com/stemsi/pathfinder-backend/internal/handler"
	"github.com/stemsi/pathfinder-backend/internal/middleware"
	"github.com/stemsi/pathfinder-backend/internal/response"
	"github.com/stemsi/pathfinder-backend/internal/service"
	"github.com/stemsi/pathfinder-backend/internal/telemetry"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Catalog    *handler.CatalogHandler
	Assessment *handler.AssessmentHandler
	Profile    *handler.ProfileHandler
	Admin      *handler.AdminHandler
	WS         *handler.WSHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by middlewares.
func SetupRouter(
	ctx context.Context,
	auth middleware.TokenValidator,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	if cfg.OTELEnabled {
		router.Use(otelgin.Middleware(telemetry.ServiceName))
	}
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		SkipPaths: []string{"/metrics", "/ws/"},
	}))

	// ─── System ────────────────────────────────────────────────────────
	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", handlers.System.Metrics())

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	publicAPI.Use(middleware.CacheControl(time.Hour))
	{
		publicAPI.GET("/catalog", handlers.Catalog.GetCatalog)
	}

	// Narrative generation calls a slow downstream service.
	narrativeLimiter := middleware.NewRateLimiter(ctx, 5, time.Minute)

	// ─── 1. Assessment Group (JWT) ─────────────────────────────────────
	assessments := router.Group("/api/v1/assessments/:assessment_id")
	assessments.Use(middleware.RequireJWT(auth), middleware.NoStore())
	{
		assessments.GET("/sections", handlers.Assessment.ListSections)
		assessments.PUT("/sections/:section_id", handlers.Assessment.SaveSection)
		assessments.POST("/process", handlers.Assessment.ProcessProfile)
	}

	// ─── 2. Profile Group (JWT) ────────────────────────────────────────
	profile := router.Group("/api/v1/profile")
	profile.Use(middleware.RequireJWT(auth), middleware.NoStore())
	{
		profile.GET("", handlers.Profile.GetProfile)
		profile.GET("/narratives", handlers.Profile.GetNarratives)
		profile.POST("/narratives", narrativeLimiter.Middleware(), handlers.Profile.GenerateNarratives)
	}

	// ─── 3. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(auth))
	{
		ws.GET("/assessments/:assessment_id/intake", handlers.WS.IntakeStream)
	}

	// ─── 4. Admin Group (JWT + Role) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireJWT(auth), middleware.RequireRole(service.RoleAdmin))
	{
		adminAPI.POST("/profiles/:user_id/reprocess", handlers.Admin.ReprocessProfile)
		adminAPI.POST("/profiles/backfill", handlers.Admin.Backfill)
		adminAPI.GET("/occupations/stats", handlers.Admin.OccupationStats)
		adminAPI.POST("/occupations/cache/purge", handlers.Admin.PurgeOccupationCache)
	}

	return router
}
