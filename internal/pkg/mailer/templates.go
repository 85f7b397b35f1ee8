package mailer

import (
	"fmt"
	"html"
)

// RefundRequestHTML 退款申请通知邮件正文（发给管理员）
func RefundRequestHTML(name, email, message, payNumber string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;background:#f1f5f9;font-family:-apple-system,'Segoe UI',Roboto,sans-serif;">
  <div style="max-width:600px;margin:0 auto;background:#ffffff;border-radius:12px;overflow:hidden;">
    <div style="background:#0f172a;color:#ffffff;padding:24px;">
      <p style="margin:0;font-size:12px;letter-spacing:2px;text-transform:uppercase;color:#94a3b8;">Business Arabic</p>
      <h1 style="margin:8px 0 0;font-size:20px;">New Refund Request</h1>
    </div>
    <div style="padding:24px;">
      <p style="color:#475569;">A user has submitted a refund request. Please review and process it.</p>
      <table style="width:100%%;border-collapse:collapse;">
        <tr><td style="padding:8px 0;color:#94a3b8;">Pay Number</td><td style="color:#0f172a;font-weight:600;">%s</td></tr>
        <tr><td style="padding:8px 0;color:#94a3b8;">Name</td><td style="color:#0f172a;font-weight:600;">%s</td></tr>
        <tr><td style="padding:8px 0;color:#94a3b8;">Email</td><td style="color:#2563eb;">%s</td></tr>
      </table>
      <div style="margin-top:16px;background:#f8fafc;border:1px solid #e2e8f0;border-radius:8px;padding:16px;color:#334155;">%s</div>
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(payNumber),
		html.EscapeString(name),
		html.EscapeString(email),
		html.EscapeString(message),
	)
}

// ContactHTML 联系我们通知邮件正文（发给管理员）
func ContactHTML(name, email, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;background:#f1f5f9;font-family:-apple-system,'Segoe UI',Roboto,sans-serif;">
  <div style="max-width:600px;margin:0 auto;background:#ffffff;border-radius:12px;overflow:hidden;">
    <div style="background:#0f172a;color:#ffffff;padding:24px;">
      <p style="margin:0;font-size:12px;letter-spacing:2px;text-transform:uppercase;color:#94a3b8;">Business Arabic</p>
      <h1 style="margin:8px 0 0;font-size:20px;">New Contact Message</h1>
    </div>
    <div style="padding:24px;">
      <table style="width:100%%;border-collapse:collapse;">
        <tr><td style="padding:8px 0;color:#94a3b8;">Name</td><td style="color:#0f172a;font-weight:600;">%s</td></tr>
        <tr><td style="padding:8px 0;color:#94a3b8;">Email</td><td style="color:#2563eb;">%s</td></tr>
      </table>
      <div style="margin-top:16px;background:#f8fafc;border:1px solid #e2e8f0;border-radius:8px;padding:16px;color:#334155;">%s</div>
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(name),
		html.EscapeString(email),
		html.EscapeString(message),
	)
}

// OTPCodeHTML 验证码邮件正文
func OTPCodeHTML(code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;background:#f1f5f9;font-family:-apple-system,'Segoe UI',Roboto,sans-serif;">
  <div style="max-width:480px;margin:0 auto;background:#ffffff;border-radius:12px;padding:32px;text-align:center;">
    <p style="color:#475569;">Your password reset code:</p>
    <p style="font-size:32px;letter-spacing:8px;font-weight:700;color:#0f172a;">%s</p>
    <p style="color:#94a3b8;font-size:13px;">This code expires in 5 minutes. If you did not request it, ignore this email.</p>
  </div>
</body>
</html>`, html.EscapeString(code))
}
