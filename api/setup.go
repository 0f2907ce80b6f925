package api

import (
	_ "github.com/HealthResearchAuthority/rsp-usermanagement-service/api/docs"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/config"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/metrics"
	middlewarepkg "github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// @title RSP Users Service API
// @version 1.0
// @description 用户、角色、声明管理及用户审计记录
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// SetupRouter 设置并返回 Gin 路由
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middlewarepkg.RequestIDMiddleware())
	router.Use(RequestLogger())
	router.Use(CORS())
	router.Use(metrics.PrometheusMiddleware())

	router.GET("/health", HealthCheck())
	router.GET("/ready", ReadinessCheck(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	container := NewAppContainer(db, cfg, redisClient)
	RegisterRoutes(router, container, NewHandlers(container))

	return router
}
