package model

// Status 支付状态
type Status string

const (
	StatusPending       Status = "pending"
	StatusPaid          Status = "paid"
	StatusFailed        Status = "failed"
	StatusRefundPending Status = "refund_pending"
	StatusCancelled     Status = "cancelled"

	// StatusRefundRequested 历史数据里存在的旧状态，
	// 仅在退款事件的兜底扫描里识别，新记录不再写入
	StatusRefundRequested Status = "refund_requested"
)

// EventKind 驱动状态流转的事件
type EventKind string

const (
	EventCheckoutCompleted EventKind = "checkout_completed" // 支付成功
	EventCheckoutFailed    EventKind = "checkout_failed"    // 异步支付失败
	EventChargeRefunded    EventKind = "charge_refunded"    // 渠道侧已实际退款
	EventRefundSucceeded   EventKind = "refund_succeeded"   // 退款单成功
	EventRefundFailed      EventKind = "refund_failed"      // 退款单失败，回到已支付
	EventRefundRequested   EventKind = "refund_requested"   // 用户发起退款申请
)

// Transition 纯状态转移函数
// 返回目标状态和是否允许流转；ok 为 false 时记录不应被修改。
// cancelled 是终态：任何事件都无法离开，回放 checkout.session.completed
// 也不会把已退款的记录拉回 paid。
func Transition(current Status, ev EventKind) (Status, bool) {
	if current == StatusCancelled {
		return current, false
	}

	switch ev {
	case EventCheckoutCompleted:
		if current == StatusPaid {
			return current, false // 幂等：重复送达无需改写
		}
		return StatusPaid, true

	case EventCheckoutFailed:
		if current == StatusFailed {
			return current, false
		}
		return StatusFailed, true

	case EventChargeRefunded, EventRefundSucceeded:
		return StatusCancelled, true

	case EventRefundFailed:
		// 退款失败，恢复为已支付
		return StatusPaid, true

	case EventRefundRequested:
		// 只有 paid 状态允许申请退款
		if current != StatusPaid {
			return current, false
		}
		return StatusRefundPending, true
	}

	return current, false
}
