package service

import (
	"context"
	"testing"

	"ba_api/internal/domain/user/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetList(offset, limit int) ([]model.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(id, hash string) error {
	args := m.Called(id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockOTPService is a mock of OTPService
type MockOTPService struct {
	mock.Mock
}

func (m *MockOTPService) Send(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockOTPService) Verify(ctx context.Context, email, code string) bool {
	args := m.Called(ctx, email, code)
	return args.Bool(0)
}

func createTestUser(id, email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		FullName: "Test User",
		Email:    email,
		Password: string(hash),
		Role:     model.RoleUser,
	}
	u.ID = id
	return u
}

func TestRegister(t *testing.T) {
	t.Run("new user registration success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockOTP := new(MockOTPService)
		svc := NewUserService(mockRepo, mockOTP)

		mockRepo.On("GetByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.MatchedBy(func(u *model.User) bool {
			// 密码必须存哈希而不是明文
			return u.Email == "new@example.com" && u.Password != "secret-password" && u.Role == model.RoleUser
		})).Return(nil)

		result, err := svc.Register(context.Background(), RegisterInput{
			FullName: "مستخدم جديد",
			Email:    "new@example.com",
			Password: "secret-password",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, new(MockOTPService))

		existing := createTestUser("u1", "taken@example.com", "pw")
		mockRepo.On("GetByEmail", "taken@example.com").Return(existing, nil)

		_, err := svc.Register(context.Background(), RegisterInput{
			FullName: "x", Email: "taken@example.com", Password: "password123",
		})

		assert.ErrorIs(t, err, ErrEmailTaken)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	t.Run("correct password returns token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, new(MockOTPService))

		user := createTestUser("u1", "user@example.com", "correct-password")
		mockRepo.On("GetByEmail", "user@example.com").Return(user, nil)

		result, err := svc.Login(context.Background(), "user@example.com", "correct-password")

		assert.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "u1", result.User.ID)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, new(MockOTPService))

		user := createTestUser("u1", "user@example.com", "correct-password")
		mockRepo.On("GetByEmail", "user@example.com").Return(user, nil)

		_, err := svc.Login(context.Background(), "user@example.com", "wrong-password")

		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("unknown email gives the same error as wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, new(MockOTPService))

		mockRepo.On("GetByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")

		assert.ErrorIs(t, err, ErrInvalidPassword)
	})
}

func TestForgotPassword(t *testing.T) {
	t.Run("existing email sends code", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockOTP := new(MockOTPService)
		svc := NewUserService(mockRepo, mockOTP)

		user := createTestUser("u1", "user@example.com", "pw")
		mockRepo.On("GetByEmail", "user@example.com").Return(user, nil)
		mockOTP.On("Send", mock.Anything, "user@example.com").Return(nil)

		err := svc.ForgotPassword(context.Background(), "user@example.com")

		assert.NoError(t, err)
		mockOTP.AssertExpectations(t)
	})

	t.Run("unknown email succeeds silently", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockOTP := new(MockOTPService)
		svc := NewUserService(mockRepo, mockOTP)

		mockRepo.On("GetByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		err := svc.ForgotPassword(context.Background(), "ghost@example.com")

		assert.NoError(t, err)
		mockOTP.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("valid code updates password hash", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockOTP := new(MockOTPService)
		svc := NewUserService(mockRepo, mockOTP)

		user := createTestUser("u1", "user@example.com", "old-password")
		mockRepo.On("GetByEmail", "user@example.com").Return(user, nil)
		mockOTP.On("Verify", mock.Anything, "user@example.com", "123456").Return(true)
		mockRepo.On("UpdatePassword", "u1", mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password")) == nil
		})).Return(nil)

		err := svc.ResetPassword(context.Background(), "user@example.com", "123456", "new-password")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid code rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockOTP := new(MockOTPService)
		svc := NewUserService(mockRepo, mockOTP)

		user := createTestUser("u1", "user@example.com", "pw")
		mockRepo.On("GetByEmail", "user@example.com").Return(user, nil)
		mockOTP.On("Verify", mock.Anything, "user@example.com", "000000").Return(false)

		err := svc.ResetPassword(context.Background(), "user@example.com", "000000", "new-password")

		assert.ErrorIs(t, err, ErrInvalidOTP)
		mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
	})
}

func TestUpdateUserPermission(t *testing.T) {
	t.Run("user cannot modify another user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, new(MockOTPService))

		name := "hacker"
		_, err := svc.UpdateUser("u1", model.RoleUser, "u2", UpdateInput{FullName: &name})

		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("admin can modify any user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, new(MockOTPService))

		user := createTestUser("u2", "target@example.com", "pw")
		mockRepo.On("GetByID", "u2").Return(user, nil)
		mockRepo.On("Update", mock.Anything).Return(nil)

		name := "Updated Name"
		updated, err := svc.UpdateUser("admin-1", model.RoleAdmin, "u2", UpdateInput{FullName: &name})

		assert.NoError(t, err)
		assert.Equal(t, "Updated Name", updated.FullName)
	})
}
