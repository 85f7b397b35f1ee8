package mailer

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"ba_api/internal/pkg/config"
)

// Email 待发送的邮件
type Email struct {
	To       string
	ReplyTo  string // 用户邮箱，管理员可直接回复
	Subject  string
	HTMLBody string
}

// Mailer 邮件服务接口
type Mailer interface {
	Send(e Email) error
}

// smtpMailer 基于 SMTP 的实现
type smtpMailer struct {
	host     string
	port     string
	user     string
	password string
	fromName string
	from     string
}

// NewMailer 创建 SMTP 邮件服务
func NewMailer() Mailer {
	cfg := config.GlobalConfig.SMTP
	return &smtpMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
		fromName: cfg.FromName,
		from:     cfg.ReceiverEmail,
	}
}

// Send 发送邮件
func (m *smtpMailer) Send(e Email) error {
	if e.To == "" {
		return fmt.Errorf("mailer: recipient required")
	}
	if e.Subject == "" {
		return fmt.Errorf("mailer: subject required")
	}

	msg := m.buildMessage(e)

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if m.user == "" {
		// 本地 relay 场景无需认证
		auth = nil
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{e.To}, []byte(msg)); err != nil {
		return fmt.Errorf("mailer: send failed: %w", err)
	}
	return nil
}

// buildMessage 构造 MIME 报文
// 非 ASCII 的主题和发件人名按 RFC2047 编码（阿拉伯语内容必需）
func (m *smtpMailer) buildMessage(e Email) string {
	var b strings.Builder

	from := m.from
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.fromName), m.from)
	}

	b.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", e.To))
	if e.ReplyTo != "" {
		b.WriteString(fmt.Sprintf("Reply-To: %s\r\n", e.ReplyTo))
	}
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", e.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(e.HTMLBody)

	return b.String()
}
