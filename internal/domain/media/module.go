package media

import (
	"ba_api/internal/domain/media/handler"
	"ba_api/internal/pkg/middleware"
	"ba_api/internal/pkg/registry"
	"ba_api/internal/pkg/uploader"

	"github.com/gin-gonic/gin"
)

// MediaModule 媒体模块
type MediaModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&MediaModule{})
}

func (m *MediaModule) Name() string {
	return "media"
}

func (m *MediaModule) Priority() int {
	return 8
}

func (m *MediaModule) Init(ctx *registry.ModuleContext) error {
	h := handler.NewMediaHandler(uploader.GlobalUploader)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.MediaHandler) {
	group := r.Group("/api/media")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/upload", h.Upload)
	}
}
