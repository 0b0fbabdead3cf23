package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	_ "github.com/hostelworks/hms-api/api/swagger"
	"github.com/hostelworks/hms-api/internal/handler"
	"github.com/hostelworks/hms-api/internal/middleware"
	"github.com/hostelworks/hms-api/internal/repository"
	"github.com/hostelworks/hms-api/internal/service"
	"github.com/hostelworks/hms-api/pkg/cache"
	"github.com/hostelworks/hms-api/pkg/config"
	"github.com/hostelworks/hms-api/pkg/database"
	"github.com/hostelworks/hms-api/pkg/logger"
	corsmiddleware "github.com/hostelworks/hms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hostelworks/hms-api/pkg/middleware/requestid"
)

// @title Hostel Management API
// @version 1.0.0
// @description Room admission, occupancy and hostel administration
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	// Repositories.
	admissionRepo := repository.NewAdmissionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	hostelRepo := repository.NewHostelRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	reportRepo := repository.NewReportRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.Enabled && redisClient != nil)
	admissionSvc := service.NewAdmissionService(admissionRepo, hostelRepo, cacheSvc, metricsSvc, validate, logr)
	occupancySvc := service.NewOccupancyService(roomRepo, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, cacheSvc, validate, logr)
	hostelSvc := service.NewHostelService(hostelRepo, validate, logr)
	feeSvc := service.NewFeeService(feeRepo, studentRepo, validate, logr)
	employeeSvc := service.NewEmployeeService(employeeRepo, hostelRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(reportRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:      cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "hms-api",
	})

	// Handlers.
	admissionHandler := handler.NewAdmissionHandler(admissionSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	roomHandler := handler.NewRoomHandler(roomSvc, occupancySvc)
	hostelHandler := handler.NewHostelHandler(hostelSvc)
	feeHandler := handler.NewFeeHandler(feeSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	authHandler := handler.NewAuthHandler(authSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "database"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	admissionLimit := middleware.RateLimit(rate.Limit(cfg.Admission.RateLimitPerSecond), cfg.Admission.RateLimitBurst)
	authRequired := middleware.JWT(authSvc)
	adminOnly := middleware.RequireRoles("admin", "warden")

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)

		v1.GET("/students", studentHandler.List)
		v1.GET("/students/:id", studentHandler.Get)
		v1.PUT("/students/:id", authRequired, adminOnly, studentHandler.Update)
		v1.DELETE("/students/:id", authRequired, adminOnly, admissionLimit, admissionHandler.Release)
		v1.PUT("/students/:id/reassign", authRequired, adminOnly, admissionLimit, admissionHandler.Reassign)

		v1.POST("/admissions", authRequired, adminOnly, admissionLimit, admissionHandler.Admit)

		v1.GET("/rooms", roomHandler.List)
		v1.GET("/rooms/:no", roomHandler.Get)
		v1.GET("/rooms/:no/occupancy", roomHandler.Occupancy)
		v1.POST("/rooms", authRequired, adminOnly, roomHandler.Create)
		v1.PUT("/rooms/:no", authRequired, adminOnly, roomHandler.Update)
		v1.DELETE("/rooms/:no", authRequired, adminOnly, roomHandler.Delete)

		v1.GET("/hostels", hostelHandler.List)
		v1.GET("/hostels/:id", hostelHandler.Get)
		v1.POST("/hostels", authRequired, adminOnly, hostelHandler.Create)
		v1.PUT("/hostels/:id", authRequired, adminOnly, hostelHandler.Update)
		v1.DELETE("/hostels/:id", authRequired, adminOnly, hostelHandler.Delete)

		v1.GET("/fees", authRequired, feeHandler.List)
		v1.POST("/fees", authRequired, adminOnly, feeHandler.Create)
		v1.PUT("/fees/:id/pay", authRequired, adminOnly, feeHandler.MarkPaid)
		v1.GET("/fees/summary", authRequired, feeHandler.Summary)
		v1.GET("/fees/report", authRequired, feeHandler.Report)

		v1.GET("/employees", authRequired, employeeHandler.List)
		v1.GET("/employees/:id", authRequired, employeeHandler.Get)
		v1.POST("/employees", authRequired, adminOnly, employeeHandler.Create)
		v1.PUT("/employees/:id", authRequired, adminOnly, employeeHandler.Update)
		v1.DELETE("/employees/:id", authRequired, adminOnly, employeeHandler.Delete)

		if cfg.Dashboard.Enabled {
			v1.GET("/dashboard/summary", authRequired, dashboardHandler.Summary)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
