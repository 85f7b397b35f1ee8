package service

import (
	"context"
	"errors"

	"ba_api/internal/domain/user/model"
	"ba_api/internal/domain/user/repository"
	"ba_api/internal/pkg/otp"
	"ba_api/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 服务层错误
var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid email or password")
	ErrInvalidOTP       = errors.New("invalid or expired verification code")
	ErrPermissionDenied = errors.New("permission denied")
)

// RegisterInput 注册输入
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// UpdateInput 资料更新输入，nil 字段表示不修改
type UpdateInput struct {
	FullName *string
	Avatar   *string
}

// AuthResult 认证结果
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// UserService 用户服务
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	GetUser(id string) (*model.User, error)
	GetUsers(page, limit int) ([]model.User, int64, error)
	UpdateUser(callerID, callerRole, id string, in UpdateInput) (*model.User, error)
	DeleteUser(callerID, callerRole, id string) error
}

type userService struct {
	repo repository.UserRepository
	otp  otp.OTPService
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, otpService otp.OTPService) UserService {
	return &userService{repo: repo, otp: otpService}
}

// Register 注册新用户并签发 token
func (s *userService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if _, err := s.repo.GetByEmail(in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FullName: in.FullName,
		Email:    in.Email,
		Password: string(hash),
		Role:     model.RoleUser,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login 密码登录
func (s *userService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 不暴露邮箱是否存在
			return nil, ErrInvalidPassword
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// ForgotPassword 发送重置密码验证码
// 邮箱不存在时同样返回成功，避免枚举
func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.repo.GetByEmail(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.otp.Send(ctx, email)
}

// ResetPassword 验证码校验通过后重置密码
func (s *userService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidOTP
		}
		return err
	}

	if !s.otp.Verify(ctx, email, code) {
		return ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(user.ID, string(hash))
}

// GetUser 查询单个用户
func (s *userService) GetUser(id string) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetUsers 分页查询用户列表
func (s *userService) GetUsers(page, limit int) ([]model.User, int64, error) {
	offset := (page - 1) * limit
	return s.repo.GetList(offset, limit)
}

// UpdateUser 更新资料，本人或管理员可操作
func (s *userService) UpdateUser(callerID, callerRole, id string, in UpdateInput) (*model.User, error) {
	if callerID != id && callerRole != model.RoleAdmin {
		return nil, ErrPermissionDenied
	}

	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser 删除用户，本人或管理员可操作
func (s *userService) DeleteUser(callerID, callerRole, id string) error {
	if callerID != id && callerRole != model.RoleAdmin {
		return ErrPermissionDenied
	}

	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(user)
}
