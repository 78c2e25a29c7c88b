package router

import (
	"time"

	"agrocrm/internal/config"
	"agrocrm/internal/handler"
	"agrocrm/internal/middleware"
	"agrocrm/internal/model"
	"agrocrm/internal/repository"
	"agrocrm/internal/service"
	"agrocrm/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb, cfg.NotifyEmail)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	leadSvc := service.NewLeadService(leadRepo, dispatcher, cfg.PriorityMinAreaHa)
	propertySvc := service.NewPropertyService(propertyRepo, leadRepo, cfg.LargeMinAreaHa)
	dashboardSvc := service.NewDashboardService(leadRepo, propertyRepo, cfg.PriorityMinAreaHa, cfg.NoContactDays)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	leadsH := handler.NewLeadsHandler(leadSvc)
	propertiesH := handler.NewPropertiesHandler(propertySvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/", jwtMW)
	{
		api.POST("/auth/register", middleware.RequireRole(model.RoleAdmin), authH.Register)

		leads := api.Group("/leads")
		{
			// Static segments before the :id wildcard
			leads.GET("/stats", leadsH.Stats)
			leads.GET("/stats/total", leadsH.StatsTotal)
			leads.GET("/stats/by-status", leadsH.StatsByStatus)
			leads.GET("/stats/by-city", leadsH.StatsByCity)
			leads.GET("/priority", leadsH.Priority)
			leads.GET("/recent", leadsH.Recent)
			leads.GET("/no-contact", leadsH.WithoutContact)
			leads.GET("/export", leadsH.Export)

			leads.GET("", leadsH.List)
			leads.POST("", leadsH.Create)
			leads.GET("/:id", leadsH.GetByID)
			leads.PUT("/:id", leadsH.Update)
			leads.DELETE("/:id", leadsH.Delete)
		}

		properties := api.Group("/properties")
		{
			properties.GET("/map", propertiesH.Map)
			properties.GET("/large", propertiesH.Large)
			properties.GET("/by-lead/:leadId", propertiesH.GetByLead)

			properties.GET("", propertiesH.List)
			properties.POST("", propertiesH.Create)
			properties.GET("/:id", propertiesH.GetByID)
			properties.PUT("/:id", propertiesH.Update)
			properties.DELETE("/:id", propertiesH.Delete)
		}

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/metrics", dashboardH.Metrics)
			dashboard.GET("/leads-by-status", dashboardH.LeadsByStatus)
			dashboard.GET("/leads-by-city", dashboardH.LeadsByCity)
			dashboard.GET("/area-by-crop-type", dashboardH.AreaByCropType)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
