package handler

import (
	"errors"
	"net/http"

	"ba_api/internal/domain/study/service"
	"ba_api/pkg/response"
	"ba_api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StudyHandler 可行性研究接口
type StudyHandler struct {
	service service.StudyService
}

// NewStudyHandler 创建处理器
func NewStudyHandler(svc service.StudyService) *StudyHandler {
	return &StudyHandler{service: svc}
}

// StudyRequest 创建/更新请求
type StudyRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Image       string  `json:"image"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
}

// ListQuery 列表查询参数
type ListQuery struct {
	utils.Pagination
	Keyword  string `form:"keyword"`
	Category string `form:"category"`
}

// List 列表
// @Summary 研究列表
// @Tags 研究
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页条数"
// @Param keyword query string false "关键字"
// @Param category query string false "分类"
// @Success 200 {object} response.Response
// @Router /api/studies [get]
func (h *StudyHandler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	studies, total, err := h.service.List(c.Request.Context(), q.Pagination, q.Keyword, q.Category)
	if err != nil {
		response.ServerError(c, "failed to load studies")
		return
	}

	response.Success(c, utils.PageResult{
		List:  studies,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	})
}

// Get 详情
// @Summary 研究详情
// @Tags 研究
// @Produce json
// @Param id path string true "研究 ID"
// @Success 200 {object} response.Response
// @Router /api/studies/{id} [get]
func (h *StudyHandler) Get(c *gin.Context) {
	study, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrStudyNotFound) {
			response.NotFound(c, "study not found")
			return
		}
		response.ServerError(c, "failed to load study")
		return
	}
	response.Success(c, study)
}

// Create 新建（管理员）
// @Summary 新建研究
// @Tags 研究
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StudyRequest true "研究内容"
// @Success 200 {object} response.Response
// @Router /api/studies [post]
func (h *StudyHandler) Create(c *gin.Context) {
	var req StudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	study, err := h.service.Create(c.Request.Context(), service.StudyInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidStudy) {
			response.Error(c, http.StatusBadRequest, response.ErrContentInvalid, err.Error())
			return
		}
		response.ServerError(c, "failed to create study")
		return
	}
	response.Success(c, study)
}

// Update 更新（管理员）
// @Summary 更新研究
// @Tags 研究
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "研究 ID"
// @Param request body StudyRequest true "研究内容"
// @Success 200 {object} response.Response
// @Router /api/studies/{id} [put]
func (h *StudyHandler) Update(c *gin.Context) {
	var req StudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	study, err := h.service.Update(c.Request.Context(), c.Param("id"), service.StudyInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Category:    req.Category,
	})
	switch {
	case err == nil:
		response.Success(c, study)
	case errors.Is(err, service.ErrStudyNotFound):
		response.NotFound(c, "study not found")
	case errors.Is(err, service.ErrInvalidStudy):
		response.Error(c, http.StatusBadRequest, response.ErrContentInvalid, err.Error())
	default:
		response.ServerError(c, "failed to update study")
	}
}

// Delete 删除（管理员）
// @Summary 删除研究
// @Tags 研究
// @Produce json
// @Security BearerAuth
// @Param id path string true "研究 ID"
// @Success 200 {object} response.Response
// @Router /api/studies/{id} [delete]
func (h *StudyHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		response.Success(c, gin.H{"message": "study deleted"})
	case errors.Is(err, service.ErrStudyNotFound):
		response.NotFound(c, "study not found")
	default:
		response.ServerError(c, "failed to delete study")
	}
}
