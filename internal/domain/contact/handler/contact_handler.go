package handler

import (
	"ba_api/internal/pkg/config"
	"ba_api/internal/pkg/mailer"
	"ba_api/internal/pkg/worker"
	"ba_api/pkg/response"

	"github.com/gin-gonic/gin"
)

// ContactHandler 联系我们接口
type ContactHandler struct {
	pool *worker.MailPool
}

// NewContactHandler 创建处理器
func NewContactHandler(pool *worker.MailPool) *ContactHandler {
	return &ContactHandler{pool: pool}
}

// ContactRequest 联系请求
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// Submit 提交联系表单
// @Summary 联系我们
// @Description 表单内容异步投递到管理员邮箱
// @Tags 联系
// @Accept json
// @Produce json
// @Param request body ContactRequest true "联系内容"
// @Success 200 {object} response.Response
// @Router /api/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	h.pool.AddTask(worker.MailTask{
		Email: mailer.Email{
			To:       config.GlobalConfig.SMTP.ReceiverEmail,
			ReplyTo:  req.Email,
			Subject:  "Contact Form Message from " + req.Name,
			HTMLBody: mailer.ContactHTML(req.Name, req.Email, req.Message),
		},
	})

	response.Success(c, gin.H{"message": "message received"})
}
