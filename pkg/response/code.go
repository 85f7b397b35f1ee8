package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists   = 10001
	ErrUserNotFound = 10002
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005
	ErrOTPInvalid   = 10006

	// 内容模块错误 200xx (可行性研究/创业点子/博客)
	ErrContentNotFound = 20001
	ErrContentInvalid  = 20002

	// 支付模块错误 300xx
	ErrPaymentNotFound  = 30001
	ErrPaymentInvalid   = 30002
	ErrPaymentNotOwned  = 30003
	ErrRefundNotAllowed = 30004
	ErrWebhookSignature = 30005
	ErrGatewayFailed    = 30006

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
	ErrEmailFailed     = 50004
)
