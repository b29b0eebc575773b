package router

import (
	"time"

	"stocktrack/internal/config"
	"stocktrack/internal/handler"
	"stocktrack/internal/infra"
	"stocktrack/internal/middleware"
	"stocktrack/internal/model"
	"stocktrack/internal/repository"
	"stocktrack/internal/service"
	"stocktrack/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, files *infra.FileStore) *gin.Engine {
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
	unitRepo := repository.NewUnitRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	supplyRepo := repository.NewSupplyRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	unitSvc := service.NewUnitService(unitRepo)
	stockSvc := service.NewStockService(materialRepo, movementRepo, dispatcher)
	materialSvc := service.NewMaterialService(materialRepo, unitRepo, movementRepo, stockSvc, dispatcher)
	supplySvc := service.NewSupplyService(supplyRepo, stockSvc, files, dispatcher)
	notificationSvc := service.NewNotificationService(notificationRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	unitsH := handler.NewUnitsHandler(unitSvc)
	materialsH := handler.NewMaterialsHandler(materialSvc)
	suppliesH := handler.NewSuppliesHandler(supplySvc)
	notificationsH := handler.NewNotificationsHandler(notificationSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee)
	managers := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/units", anyRole, unitsH.List)

		// Materials — everyone reads and writes off; stock intake and catalog
		// changes need manager or admin
		v1.GET("/materials", anyRole, materialsH.List)
		v1.GET("/materials/low-stock", managers, materialsH.LowStock)
		v1.GET("/materials/:id", anyRole, materialsH.Get)
		v1.GET("/materials/:id/movements", anyRole, materialsH.Movements)
		v1.POST("/materials/:id/writeoff", anyRole, materialsH.Writeoff)
		materials := v1.Group("/materials", managers)
		{
			materials.POST("", materialsH.Create)
			materials.PUT("/:id", materialsH.Update)
			materials.DELETE("/:id", materialsH.Delete)
			materials.POST("/:id/add", materialsH.Add)
		}

		// Supplies — manager or admin only, including attachments
		supplies := v1.Group("/supplies", managers)
		{
			supplies.POST("", suppliesH.Create)
			supplies.GET("", suppliesH.List)
			supplies.GET("/:id", suppliesH.Get)
			supplies.PUT("/:id", suppliesH.Update)
			supplies.DELETE("/:id", suppliesH.Delete)
			supplies.POST("/:id/files", suppliesH.UploadFiles)
			supplies.GET("/:id/files/:fileId", suppliesH.DownloadFile)
			supplies.DELETE("/:id/files/:fileId", suppliesH.DeleteFile)
		}

		// Notifications — each user sees only their own
		notifications := v1.Group("/notifications", anyRole)
		{
			notifications.GET("", notificationsH.List)
			notifications.GET("/unread", notificationsH.Unread)
			notifications.PATCH("/:id/read", notificationsH.MarkRead)
			notifications.PATCH("/read-all", notificationsH.MarkAllRead)
			notifications.DELETE("/:id", notificationsH.Delete)
			notifications.DELETE("/read", notificationsH.ClearRead)
		}

		// User administration — admin only
		users := v1.Group("/users", middleware.RequireRole(model.RoleAdmin))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
