package blog

import (
	"ba_api/internal/domain/blog/handler"
	"ba_api/internal/domain/blog/repository"
	"ba_api/internal/domain/blog/service"
	"ba_api/internal/pkg/middleware"
	"ba_api/internal/pkg/registry"
	"ba_api/pkg/cache"

	"github.com/gin-gonic/gin"
)

// BlogModule 博客模块
type BlogModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&BlogModule{})
}

func (m *BlogModule) Name() string {
	return "blog"
}

func (m *BlogModule) Priority() int {
	return 7
}

func (m *BlogModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewBlogRepository(ctx.DB)
	svc := service.NewBlogService(repo, cache.NewRedisCache(ctx.Redis))
	h := handler.NewBlogHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.BlogHandler) {
	group := r.Group("/api/blogs")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)

		admin := group.Group("")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.POST("", h.Create)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
		}
	}
}
