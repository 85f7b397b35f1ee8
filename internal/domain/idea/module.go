package idea

import (
	"ba_api/internal/domain/idea/handler"
	"ba_api/internal/domain/idea/repository"
	"ba_api/internal/domain/idea/service"
	"ba_api/internal/pkg/middleware"
	"ba_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// IdeaModule 商业点子模块
type IdeaModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&IdeaModule{})
}

func (m *IdeaModule) Name() string {
	return "idea"
}

func (m *IdeaModule) Priority() int {
	return 6
}

func (m *IdeaModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewIdeaRepository(ctx.DB)
	svc := service.NewIdeaService(repo)
	h := handler.NewIdeaHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.IdeaHandler) {
	group := r.Group("/api/ideas")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("/:id/like", h.Like)

		admin := group.Group("")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.POST("", h.Create)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
		}
	}
}
