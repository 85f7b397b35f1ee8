package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "ba_api/docs" // swagger 文档
	_ "ba_api/internal/domain/blog"
	_ "ba_api/internal/domain/contact"
	_ "ba_api/internal/domain/idea"
	_ "ba_api/internal/domain/media"
	_ "ba_api/internal/domain/payment"
	_ "ba_api/internal/domain/study"
	_ "ba_api/internal/domain/user"

	"ba_api/internal/pkg/config"
	"ba_api/internal/pkg/middleware"
	"ba_api/internal/pkg/push"
	"ba_api/internal/pkg/registry"
	"ba_api/internal/pkg/uploader"
	"ba_api/pkg/database"
	"ba_api/pkg/logger"
	"ba_api/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Business Arabic API
// @version 1.0
// @description 双语内容与支付平台后端
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 配置
	config.LoadConfig()
	cfg := config.GlobalConfig

	// 2. 日志
	logger.InitLogger(cfg.App.Debug)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Log.Fatal("invalid config", zap.Error(err))
	}

	// 3. 基础设施
	db := database.InitDatabase()
	sqlxDB := database.InitSQLX()
	rdb := database.InitRedis()

	// 对象存储与推送按需启用，配置缺失时降级
	if cfg.OSS.Endpoint != "" {
		if err := uploader.InitUploader(); err != nil {
			logger.Log.Warn("oss uploader disabled", zap.Error(err))
		}
	}
	if cfg.Push.AccessKeyID != "" {
		if err := push.InitPushService(); err != nil {
			logger.Log.Warn("push service disabled", zap.Error(err))
		}
	}

	// 4. HTTP 服务
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TraceMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(metrics.GlobalCollector.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "Stripe-Signature")
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 5. 业务模块
	if err := registry.InitModules(&registry.ModuleContext{
		DB:     db,
		SQLX:   sqlxDB,
		Redis:  rdb,
		Router: router,
	}); err != nil {
		logger.Log.Fatal("failed to init modules", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	// 6. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}
	logger.Log.Info("server exited")
}
