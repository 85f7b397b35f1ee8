package handler

import (
	"errors"
	"net/http"

	"ba_api/internal/domain/user/service"
	"ba_api/internal/pkg/middleware"
	"ba_api/pkg/response"
	"ba_api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户接口
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建用户接口处理器
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UpdateUserRequest 资料更新请求
type UpdateUserRequest struct {
	FullName *string `json:"fullName"`
	Avatar   *string `json:"avatar"`
}

// Register 注册
// @Summary 用户注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} response.Response
// @Router /api/auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Register(c.Request.Context(), service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, response.ErrUserExists, "email already registered")
			return
		}
		response.ServerError(c, "registration failed")
		return
	}

	response.Success(c, result)
}

// Login 登录
// @Summary 用户登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Router /api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "invalid email or password")
			return
		}
		response.ServerError(c, "login failed")
		return
	}

	response.Success(c, result)
}

// ForgotPassword 发送重置验证码
// @Summary 找回密码
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "邮箱"
// @Success 200 {object} response.Response
// @Router /api/auth/forgot-password [post]
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.ServerError(c, "failed to send verification code")
		return
	}

	response.Success(c, gin.H{"message": "verification code sent if the email exists"})
}

// ResetPassword 重置密码
// @Summary 重置密码
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "重置信息"
// @Success 200 {object} response.Response
// @Router /api/auth/reset-password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidOTP) {
			response.Error(c, http.StatusBadRequest, response.ErrOTPInvalid, "invalid or expired verification code")
			return
		}
		response.ServerError(c, "password reset failed")
		return
	}

	response.Success(c, gin.H{"message": "password updated"})
}

// GetUsers 用户列表（管理员）
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页条数"
// @Success 200 {object} response.Response
// @Router /api/users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	offset, limit := p.GetPageOffset()
	page := offset/limit + 1

	users, total, err := h.service.GetUsers(page, limit)
	if err != nil {
		response.ServerError(c, "failed to load users")
		return
	}

	response.Success(c, utils.PageResult{
		List:  users,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetUser 查询单个用户
// @Summary 用户详情
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户 ID"
// @Success 200 {object} response.Response
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "user not found")
			return
		}
		response.ServerError(c, "failed to load user")
		return
	}
	response.Success(c, user)
}

// UpdateUser 更新资料
// @Summary 更新用户资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户 ID"
// @Param request body UpdateUserRequest true "更新内容"
// @Success 200 {object} response.Response
// @Router /api/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	callerID := middleware.GetUserID(c)
	role, _ := c.Get("role")
	roleStr, _ := role.(string)

	user, err := h.service.UpdateUser(callerID, roleStr, c.Param("id"), service.UpdateInput{
		FullName: req.FullName,
		Avatar:   req.Avatar,
	})
	switch {
	case err == nil:
		response.Success(c, user)
	case errors.Is(err, service.ErrPermissionDenied):
		response.Forbidden(c, "cannot modify another user")
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "user not found")
	default:
		response.ServerError(c, "update failed")
	}
}

// DeleteUser 删除用户
// @Summary 删除用户
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户 ID"
// @Success 200 {object} response.Response
// @Router /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	role, _ := c.Get("role")
	roleStr, _ := role.(string)

	err := h.service.DeleteUser(callerID, roleStr, c.Param("id"))
	switch {
	case err == nil:
		response.Success(c, gin.H{"message": "user deleted"})
	case errors.Is(err, service.ErrPermissionDenied):
		response.Forbidden(c, "cannot delete another user")
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "user not found")
	default:
		response.ServerError(c, "delete failed")
	}
}
