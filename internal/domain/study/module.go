package study

import (
	"ba_api/internal/domain/study/handler"
	"ba_api/internal/domain/study/repository"
	"ba_api/internal/domain/study/service"
	"ba_api/internal/pkg/middleware"
	"ba_api/internal/pkg/registry"
	"ba_api/pkg/cache"

	"github.com/gin-gonic/gin"
)

// StudyModule 可行性研究模块
type StudyModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&StudyModule{})
}

func (m *StudyModule) Name() string {
	return "study"
}

func (m *StudyModule) Priority() int {
	return 5
}

func (m *StudyModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewStudyRepository(ctx.DB)
	svc := service.NewStudyService(repo, cache.NewRedisCache(ctx.Redis))
	h := handler.NewStudyHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.StudyHandler) {
	group := r.Group("/api/studies")
	{
		// 读公开
		group.GET("", h.List)
		group.GET("/:id", h.Get)

		// 写需要管理员
		admin := group.Group("")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.POST("", h.Create)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
		}
	}
}
