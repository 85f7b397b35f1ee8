package user

import (
	"ba_api/internal/domain/user/handler"
	"ba_api/internal/domain/user/repository"
	"ba_api/internal/domain/user/service"
	"ba_api/internal/pkg/mailer"
	"ba_api/internal/pkg/middleware"
	"ba_api/internal/pkg/otp"
	"ba_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 用户模块优先级最高，其他模块依赖它的认证体系
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	otpService := otp.NewOTPService(ctx.Redis, mailer.NewMailer())
	userService := service.NewUserService(userRepo, otpService)
	userHandler := handler.NewUserHandler(userService)

	// 2. 路由注册
	setupRoutes(ctx.Router, userHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler) {
	// 公开路由
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password", h.ResetPassword)
	}

	// 受保护的路由
	userGroup := r.Group("/api/users")
	userGroup.Use(middleware.AuthMiddleware())
	{
		userGroup.GET("", middleware.AdminMiddleware(), h.GetUsers)
		userGroup.GET("/:id", h.GetUser)
		userGroup.PUT("/:id", h.UpdateUser)
		userGroup.DELETE("/:id", h.DeleteUser)
	}
}
