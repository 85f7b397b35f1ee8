package repository

import (
	"ba_api/internal/domain/payment/model"

	"gorm.io/gorm"
)

// PaymentRepository 支付记录仓库
type PaymentRepository interface {
	Create(p *model.Payment) error
	GetByID(id string) (*model.Payment, error)
	GetBySessionID(sessionID string) (*model.Payment, error)
	GetByIntentID(intentID string) (*model.Payment, error)
	GetByRefundID(refundID string) (*model.Payment, error)
	ListByUser(userID string) ([]model.Payment, error)
	ListRecentByStatus(statuses []model.Status, limit int) ([]model.Payment, error)
	UpdateFields(id string, fields map[string]interface{}) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建仓库实例
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(p *model.Payment) error {
	return r.db.Create(p).Error
}

func (r *paymentRepository) GetByID(id string) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) GetBySessionID(sessionID string) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.Where("stripe_session_id = ?", sessionID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) GetByIntentID(intentID string) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.Where("stripe_payment_intent_id = ?", intentID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) GetByRefundID(refundID string) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.Where("refund_id = ?", refundID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser 用户的全部订单，新的在前
func (r *paymentRepository) ListByUser(userID string) ([]model.Payment, error) {
	var payments []model.Payment
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// ListRecentByStatus 按状态取最近的记录
// 退款事件缺少可直接匹配的键时，用这个有界窗口做兜底扫描
func (r *paymentRepository) ListRecentByStatus(statuses []model.Status, limit int) ([]model.Payment, error) {
	var payments []model.Payment
	if err := r.db.Where("status IN ?", statuses).
		Order("created_at DESC").
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) UpdateFields(id string, fields map[string]interface{}) error {
	return r.db.Model(&model.Payment{}).Where("id = ?", id).Updates(fields).Error
}
