package main

import (
	"github.com/domaingen/api/internal/handlers"
	"github.com/domaingen/api/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/domaingen/api/docs" // Swagger docs
)

func newRouter(generator handlers.Generator, model handlers.ModelChecker, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.Tracing())
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(corsOrigins))
	router.Use(middleware.Metrics())

	router.NoRoute(func(c *gin.Context) { middleware.NotFound(c, "Route not found") })
	router.NoMethod(middleware.MethodNotAllowed)

	// Swagger documentation
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	healthHandler := handlers.NewHealthHandler(model)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/deep", healthHandler.DeepHealth)

	generationHandler := handlers.NewGenerationHandler(generator, logger)
	router.POST("/generate", generationHandler.Generate)

	return router
}
