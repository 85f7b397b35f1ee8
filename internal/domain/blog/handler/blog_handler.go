package handler

import (
	"encoding/json"
	"errors"

	"ba_api/internal/domain/blog/service"
	"ba_api/pkg/response"
	"ba_api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BlogHandler 博客接口
type BlogHandler struct {
	service service.BlogService
}

// NewBlogHandler 创建处理器
func NewBlogHandler(svc service.BlogService) *BlogHandler {
	return &BlogHandler{service: svc}
}

// PostRequest 创建/更新请求
type PostRequest struct {
	Title        string          `json:"title"`
	Summary      string          `json:"summary"`
	Content      json.RawMessage `json:"content"`
	Image        string          `json:"image"`
	Category     string          `json:"category"`
	Tags         json.RawMessage `json:"tags"`
	AuthorName   string          `json:"authorName"`
	AuthorAvatar string          `json:"authorAvatar"`
	ReadTime     int             `json:"readTime"`
}

func (r *PostRequest) toInput() service.PostInput {
	return service.PostInput{
		Title:        r.Title,
		Summary:      r.Summary,
		Content:      r.Content,
		Image:        r.Image,
		Category:     r.Category,
		Tags:         r.Tags,
		AuthorName:   r.AuthorName,
		AuthorAvatar: r.AuthorAvatar,
		ReadTime:     r.ReadTime,
	}
}

// ListQuery 列表查询参数
type ListQuery struct {
	utils.Pagination
	Keyword  string `form:"keyword"`
	Category string `form:"category"`
}

// List 列表
// @Summary 博客列表
// @Tags 博客
// @Produce json
// @Param page query int false "页码"
// @Param keyword query string false "关键字"
// @Param category query string false "分类"
// @Success 200 {object} response.Response
// @Router /api/blogs [get]
func (h *BlogHandler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	posts, total, err := h.service.List(c.Request.Context(), q.Pagination, q.Keyword, q.Category)
	if err != nil {
		response.ServerError(c, "failed to load posts")
		return
	}

	response.Success(c, utils.PageResult{List: posts, Total: total, Page: q.Page, Limit: q.Limit})
}

// Get 详情
// @Summary 博客详情
// @Tags 博客
// @Produce json
// @Param id path string true "文章 ID"
// @Success 200 {object} response.Response
// @Router /api/blogs/{id} [get]
func (h *BlogHandler) Get(c *gin.Context) {
	post, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.ServerError(c, "failed to load post")
		return
	}
	response.Success(c, post)
}

// Create 新建（管理员）
// @Summary 新建博客
// @Tags 博客
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PostRequest true "文章内容"
// @Success 200 {object} response.Response
// @Router /api/blogs [post]
func (h *BlogHandler) Create(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.service.Create(c.Request.Context(), req.toInput())
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, post)
}

// Update 更新（管理员）
// @Summary 更新博客
// @Tags 博客
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "文章 ID"
// @Param request body PostRequest true "文章内容"
// @Success 200 {object} response.Response
// @Router /api/blogs/{id} [put]
func (h *BlogHandler) Update(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.service.Update(c.Request.Context(), c.Param("id"), req.toInput())
	switch {
	case err == nil:
		response.Success(c, post)
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, "post not found")
	default:
		response.ServerError(c, "failed to update post")
	}
}

// Delete 删除（管理员）
// @Summary 删除博客
// @Tags 博客
// @Produce json
// @Security BearerAuth
// @Param id path string true "文章 ID"
// @Success 200 {object} response.Response
// @Router /api/blogs/{id} [delete]
func (h *BlogHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		response.Success(c, gin.H{"message": "post deleted"})
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, "post not found")
	default:
		response.ServerError(c, "failed to delete post")
	}
}
