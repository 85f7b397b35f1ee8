package handler

import (
	"encoding/json"
	"errors"

	"ba_api/internal/domain/idea/service"
	"ba_api/pkg/response"
	"ba_api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// IdeaHandler 点子接口
type IdeaHandler struct {
	service service.IdeaService
}

// NewIdeaHandler 创建处理器
func NewIdeaHandler(svc service.IdeaService) *IdeaHandler {
	return &IdeaHandler{service: svc}
}

// IdeaRequest 创建/更新请求
type IdeaRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Content     json.RawMessage `json:"content"`
	Image       string          `json:"image"`
}

// ListQuery 列表查询参数
type ListQuery struct {
	utils.Pagination
	Keyword  string `form:"keyword"`
	Category string `form:"category"`
}

// List 列表
// @Summary 点子列表
// @Tags 点子
// @Produce json
// @Param page query int false "页码"
// @Param keyword query string false "关键字"
// @Success 200 {object} response.Response
// @Router /api/ideas [get]
func (h *IdeaHandler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ideas, total, err := h.service.List(c.Request.Context(), q.Pagination, q.Keyword, q.Category)
	if err != nil {
		response.ServerError(c, "failed to load ideas")
		return
	}

	response.Success(c, utils.PageResult{List: ideas, Total: total, Page: q.Page, Limit: q.Limit})
}

// Get 详情，阅读数 +1
// @Summary 点子详情
// @Tags 点子
// @Produce json
// @Param id path string true "点子 ID"
// @Success 200 {object} response.Response
// @Router /api/ideas/{id} [get]
func (h *IdeaHandler) Get(c *gin.Context) {
	idea, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrIdeaNotFound) {
			response.NotFound(c, "idea not found")
			return
		}
		response.ServerError(c, "failed to load idea")
		return
	}
	response.Success(c, idea)
}

// Create 新建（管理员）
// @Summary 新建点子
// @Tags 点子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body IdeaRequest true "点子内容"
// @Success 200 {object} response.Response
// @Router /api/ideas [post]
func (h *IdeaHandler) Create(c *gin.Context) {
	var req IdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	idea, err := h.service.Create(c.Request.Context(), service.IdeaInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Content:     req.Content,
		Image:       req.Image,
	})
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, idea)
}

// Update 更新（管理员）
// @Summary 更新点子
// @Tags 点子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "点子 ID"
// @Param request body IdeaRequest true "点子内容"
// @Success 200 {object} response.Response
// @Router /api/ideas/{id} [put]
func (h *IdeaHandler) Update(c *gin.Context) {
	var req IdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	idea, err := h.service.Update(c.Request.Context(), c.Param("id"), service.IdeaInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Content:     req.Content,
		Image:       req.Image,
	})
	switch {
	case err == nil:
		response.Success(c, idea)
	case errors.Is(err, service.ErrIdeaNotFound):
		response.NotFound(c, "idea not found")
	default:
		response.ServerError(c, "failed to update idea")
	}
}

// Delete 删除（管理员）
// @Summary 删除点子
// @Tags 点子
// @Produce json
// @Security BearerAuth
// @Param id path string true "点子 ID"
// @Success 200 {object} response.Response
// @Router /api/ideas/{id} [delete]
func (h *IdeaHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		response.Success(c, gin.H{"message": "idea deleted"})
	case errors.Is(err, service.ErrIdeaNotFound):
		response.NotFound(c, "idea not found")
	default:
		response.ServerError(c, "failed to delete idea")
	}
}

// Like 点赞
// @Summary 点赞
// @Tags 点子
// @Produce json
// @Param id path string true "点子 ID"
// @Success 200 {object} response.Response
// @Router /api/ideas/{id}/like [post]
func (h *IdeaHandler) Like(c *gin.Context) {
	err := h.service.Like(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		response.Success(c, gin.H{"message": "liked"})
	case errors.Is(err, service.ErrIdeaNotFound):
		response.NotFound(c, "idea not found")
	default:
		response.ServerError(c, "failed to like idea")
	}
}
