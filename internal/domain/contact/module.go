package contact

import (
	"ba_api/internal/domain/contact/handler"
	"ba_api/internal/pkg/mailer"
	"ba_api/internal/pkg/middleware"
	"ba_api/internal/pkg/registry"
	"ba_api/internal/pkg/worker"

	"github.com/gin-gonic/gin"
)

// ContactModule 联系我们模块
type ContactModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&ContactModule{})
}

func (m *ContactModule) Name() string {
	return "contact"
}

func (m *ContactModule) Priority() int {
	return 9
}

func (m *ContactModule) Init(ctx *registry.ModuleContext) error {
	pool := worker.NewMailPool(mailer.NewMailer(), 2, 100)
	pool.Start()

	h := handler.NewContactHandler(pool)
	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ContactHandler) {
	// 公开接口，单独收紧限流防滥用
	limiter := middleware.NewIPRateLimiter(1, 5)
	r.POST("/api/contact", limiter.Middleware(), h.Submit)
}
