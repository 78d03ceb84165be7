package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/msbhamoo/myark-admin-api/api/swagger"
	"github.com/msbhamoo/myark-admin-api/internal/handler"
	"github.com/msbhamoo/myark-admin-api/internal/middleware"
	"github.com/msbhamoo/myark-admin-api/internal/models"
	"github.com/msbhamoo/myark-admin-api/internal/repository"
	"github.com/msbhamoo/myark-admin-api/internal/service"
	"github.com/msbhamoo/myark-admin-api/internal/store"
	"github.com/msbhamoo/myark-admin-api/pkg/cache"
	"github.com/msbhamoo/myark-admin-api/pkg/config"
	"github.com/msbhamoo/myark-admin-api/pkg/database"
	"github.com/msbhamoo/myark-admin-api/pkg/logger"
	corsmiddleware "github.com/msbhamoo/myark-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/msbhamoo/myark-admin-api/pkg/middleware/requestid"
	"github.com/msbhamoo/myark-admin-api/pkg/storage"
)

// @title MyArk Admin API
// @version 0.1.0
// @description Admin backend for CSV bulk imports of opportunities, schools and organizers
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	var uploads *storage.LocalStorage
	if cfg.Imports.RetainUploads {
		uploads, err = storage.NewLocalStorage(cfg.Imports.UploadDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare upload directory", "error", err)
		}
		if cfg.Imports.UploadRetention > 0 {
			go func() {
				ticker := time.NewTicker(time.Hour)
				defer ticker.Stop()
				for range ticker.C {
					deleted, err := uploads.CleanupOlderThan(cfg.Imports.UploadRetention)
					if err != nil {
						logr.Sugar().Warnw("retained upload cleanup failed", "error", err)
						continue
					}
					if len(deleted) > 0 {
						logr.Sugar().Infow("removed expired retained uploads", "count", len(deleted))
					}
				}
			}()
		}
	}

	documents := store.NewPostgresStore(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	authSvc := service.NewAuthService(userRepo, validator.New(), logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "myark-admin-api",
	})
	importSvc := service.NewImportService(documents, cacheSvc, metricsSvc, uploads, userRepo, logr, service.ImportConfig{
		MaxRows:     cfg.Imports.MaxRows,
		TemplateTTL: cfg.Imports.TemplateCacheTTL,
	})
	exportSvc := service.NewExportService(documents, cacheSvc, metricsSvc, userRepo, logr, nil, nil)

	signer := storage.NewSignedURLSigner(cfg.Imports.UploadSecret, cfg.Imports.UploadURLTTL)

	authHandler := handler.NewAuthHandler(authSvc)
	importHandler := handler.NewImportHandler(importSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	uploadsHandler := handler.NewUploadFilesHandler(uploads, signer)

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
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/auth/me", authHandler.Me)

	imports := authed.Group("/admin/imports")
	imports.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleEditor))
	imports.GET("/:entity/template", importHandler.Template)
	imports.POST("/:entity/preview", importHandler.Preview)
	imports.POST("/:entity/commit", importHandler.Commit)

	if uploads != nil {
		retained := authed.Group("/retained-uploads")
		retained.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
		retained.GET("/:name/link", uploadsHandler.Link)
		retained.GET("/download", uploadsHandler.Download)
		retained.DELETE("/:name", uploadsHandler.Remove)
	}

	if cfg.Exports.Enabled {
		exports := authed.Group("/admin/exports")
		exports.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
		exports.GET("/:entity", exportHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
