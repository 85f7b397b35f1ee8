package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"ba_api/internal/pkg/config"
	"ba_api/internal/pkg/mailer"
	"ba_api/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OTPService 重置密码验证码服务
type OTPService interface {
	Send(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) bool
}

type otpService struct {
	rdb    *redis.Client
	mailer mailer.Mailer
}

// NewOTPService 创建验证码服务
func NewOTPService(rdb *redis.Client, m mailer.Mailer) OTPService {
	return &otpService{rdb: rdb, mailer: m}
}

const (
	codeTTL      = 5 * time.Minute
	resendWindow = 60 * time.Second
)

func codeKey(email string) string   { return "otp:code:" + email }
func resendKey(email string) string { return "otp:resend:" + email }

// Send 生成并发送验证码
// 60 秒内只允许发送一次，验证码 5 分钟有效
func (s *otpService) Send(ctx context.Context, email string) error {
	// 1. 频率限制
	ok, err := s.rdb.SetNX(ctx, resendKey(email), 1, resendWindow).Result()
	if err != nil {
		return fmt.Errorf("otp: redis error: %w", err)
	}
	if !ok {
		return fmt.Errorf("otp: please wait before requesting another code")
	}

	// 2. 生成 6 位随机验证码
	code, err := randomCode()
	if err != nil {
		return err
	}

	// 开发环境用固定验证码方便联调
	if config.GlobalConfig.App.Env == "dev" && config.GlobalConfig.App.TestOTPCode != "" {
		code = config.GlobalConfig.App.TestOTPCode
	}

	// 3. 存入 Redis
	if err := s.rdb.Set(ctx, codeKey(email), code, codeTTL).Err(); err != nil {
		return fmt.Errorf("otp: redis error: %w", err)
	}

	// 4. 邮件发送
	if err := s.mailer.Send(mailer.Email{
		To:       email,
		Subject:  "Password Reset Code",
		HTMLBody: mailer.OTPCodeHTML(code),
	}); err != nil {
		logger.Log.Error("failed to send otp email", zap.String("email", email), zap.Error(err))
		return err
	}

	return nil
}

// Verify 校验验证码，校验成功后立即失效
func (s *otpService) Verify(ctx context.Context, email, code string) bool {
	stored, err := s.rdb.Get(ctx, codeKey(email)).Result()
	if err != nil || stored == "" {
		return false
	}
	if stored != code {
		return false
	}

	// 一次性使用
	s.rdb.Del(ctx, codeKey(email))
	return true
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("otp: rand error: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
