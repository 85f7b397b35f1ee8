package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ba_api/internal/domain/payment/gateway"
	"ba_api/internal/domain/payment/model"
	"ba_api/internal/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockPaymentRepository is a mock of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(p *model.Payment) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(id string) (*model.Payment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetBySessionID(sessionID string) (*model.Payment, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByIntentID(intentID string) (*model.Payment, error) {
	args := m.Called(intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByRefundID(refundID string) (*model.Payment, error) {
	args := m.Called(refundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByUser(userID string) ([]model.Payment, error) {
	args := m.Called(userID)
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListRecentByStatus(statuses []model.Status, limit int) ([]model.Payment, error) {
	args := m.Called(statuses, limit)
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateFields(id string, fields map[string]interface{}) error {
	args := m.Called(id, fields)
	return args.Error(0)
}

// MockGateway is a mock of gateway.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(p gateway.CheckoutParams) (*gateway.CheckoutSession, error) {
	args := m.Called(p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.CheckoutSession), args.Error(1)
}

func (m *MockGateway) ParseWebhook(payload []byte, sigHeader string) (*gateway.WebhookEvent, error) {
	args := m.Called(payload, sigHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.WebhookEvent), args.Error(1)
}

func (m *MockGateway) GetSession(sessionID string) (*gateway.SessionInfo, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.SessionInfo), args.Error(1)
}

func (m *MockGateway) GetPaymentIntent(intentID string) (*gateway.IntentInfo, error) {
	args := m.Called(intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.IntentInfo), args.Error(1)
}

// MockMailer is a mock of mailer.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(e mailer.Email) error {
	args := m.Called(e)
	return args.Error(0)
}

func newTestService() (*MockPaymentRepository, *MockGateway, *MockMailer, PaymentService) {
	repo := new(MockPaymentRepository)
	gw := new(MockGateway)
	ml := new(MockMailer)
	return repo, gw, ml, NewPaymentService(repo, gw, ml)
}

func paidPayment(id, userID string) *model.Payment {
	p := &model.Payment{
		PayNumber:             "PAY-20260101000000-ABCD1234",
		UserID:                userID,
		ServiceID:             "svc-1",
		ServiceType:           "study",
		Amount:                500,
		StripeSessionID:       "cs_test_" + id,
		StripePaymentIntentID: "pi_" + id,
		Status:                model.StatusPaid,
	}
	p.ID = id
	return p
}

func TestCreateCheckoutSession(t *testing.T) {
	t.Run("success persists pending record", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		gw.On("CreateCheckoutSession", mock.AnythingOfType("gateway.CheckoutParams")).
			Return(&gateway.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/pay/cs_test_1"}, nil)
		repo.On("Create", mock.MatchedBy(func(p *model.Payment) bool {
			return p.Status == model.StatusPending &&
				p.StripeSessionID == "cs_test_1" &&
				p.Amount == 500 &&
				p.PayNumber != ""
		})).Return(nil)

		result, err := svc.CreateCheckoutSession(context.Background(), "user-1", CheckoutInput{
			ServiceID:   "svc-1",
			ServiceType: "study",
			Name:        "دراسة جدوى",
			Price:       500,
		})

		assert.NoError(t, err)
		assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", result.URL)
		assert.Equal(t, "cs_test_1", result.SessionID)
		gw.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("rejects non-positive price without calling gateway", func(t *testing.T) {
		_, gw, _, svc := newTestService()

		for _, price := range []float64{0, -10} {
			_, err := svc.CreateCheckoutSession(context.Background(), "user-1", CheckoutInput{
				ServiceID: "svc-1", ServiceType: "study", Name: "x", Price: price,
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
		gw.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything)
	})

	t.Run("rejects missing service fields", func(t *testing.T) {
		_, _, _, svc := newTestService()

		_, err := svc.CreateCheckoutSession(context.Background(), "user-1", CheckoutInput{
			Name: "x", Price: 100,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestHandleWebhook(t *testing.T) {
	t.Run("invalid signature produces no writes", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		gw.On("ParseWebhook", mock.Anything, "bad-sig").
			Return(nil, errors.New("signature mismatch"))

		_, err := svc.HandleWebhook(context.Background(), []byte("{}"), "bad-sig")

		assert.ErrorIs(t, err, ErrInvalidSignature)
		repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("checkout completed marks paid and stores intent", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		p := paidPayment("pay-1", "user-1")
		p.Status = model.StatusPending
		p.StripePaymentIntentID = ""

		gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
			Type:            "checkout.session.completed",
			Kind:            model.EventCheckoutCompleted,
			SessionID:       p.StripeSessionID,
			PaymentIntentID: "pi_new",
		}, nil)
		repo.On("GetBySessionID", p.StripeSessionID).Return(p, nil)
		repo.On("UpdateFields", "pay-1", mock.MatchedBy(func(f map[string]interface{}) bool {
			return f["status"] == model.StatusPaid && f["stripe_payment_intent_id"] == "pi_new"
		})).Return(nil)

		_, err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate completed event is idempotent", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		p := paidPayment("pay-1", "user-1")

		gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
			Type:      "checkout.session.completed",
			Kind:      model.EventCheckoutCompleted,
			SessionID: p.StripeSessionID,
		}, nil)
		repo.On("GetBySessionID", p.StripeSessionID).Return(p, nil)

		_, err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
	})

	t.Run("replayed completed event cannot resurrect a cancelled payment", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		p := paidPayment("pay-1", "user-1")
		p.Status = model.StatusCancelled

		gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
			Type:      "checkout.session.completed",
			Kind:      model.EventCheckoutCompleted,
			SessionID: p.StripeSessionID,
		}, nil)
		repo.On("GetBySessionID", p.StripeSessionID).Return(p, nil)

		_, err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
	})

	t.Run("unknown session is acknowledged without error", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
			Type:      "checkout.session.completed",
			Kind:      model.EventCheckoutCompleted,
			SessionID: "cs_unknown",
		}, nil)
		repo.On("GetBySessionID", "cs_unknown").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

		assert.NoError(t, err)
	})

	t.Run("charge refunded cancels via intent lookup", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		p := paidPayment("pay-1", "user-1")

		gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
			Type:            "charge.refunded",
			Kind:            model.EventChargeRefunded,
			PaymentIntentID: p.StripePaymentIntentID,
			RefundID:        "re_1",
			ChargeRefunded:  true,
			OccurredAt:      time.Now(),
		}, nil)
		repo.On("GetByIntentID", p.StripePaymentIntentID).Return(p, nil)
		repo.On("UpdateFields", "pay-1", mock.MatchedBy(func(f map[string]interface{}) bool {
			return f["status"] == model.StatusCancelled &&
				f["refund_id"] == "re_1" &&
				f["refunded_at"] != nil
		})).Return(nil)

		_, err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("charge refunded falls back to recent window scan", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		p := paidPayment("pay-1", "user-1")

		gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
			Type:            "charge.refunded",
			Kind:            model.EventChargeRefunded,
			PaymentIntentID: "pi_missing",
			ChargeRefunded:  true,
		}, nil)
		repo.On("GetByIntentID", "pi_missing").Return(nil, gorm.ErrRecordNotFound)
		repo.On("ListRecentByStatus", mock.Anything, 5).Return([]model.Payment{*p}, nil)
		gw.On("GetSession", p.StripeSessionID).Return(&gateway.SessionInfo{
			Paid:            true,
			PaymentIntentID: "pi_missing",
		}, nil)
		repo.On("UpdateFields", "pay-1", mock.MatchedBy(func(f map[string]interface{}) bool {
			return f["status"] == model.StatusCancelled
		})).Return(nil)

		_, err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
		gw.AssertExpectations(t)
	})

	t.Run("charge event without actual refund is ignored", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
			Type:           "charge.refund.updated",
			Kind:           model.EventChargeRefunded,
			ChargeRefunded: false,
		}, nil)

		_, err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "GetByIntentID", mock.Anything)
	})

	t.Run("refund failed restores paid", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		p := paidPayment("pay-1", "user-1")
		p.Status = model.StatusRefundPending
		p.RefundID = "re_1"

		gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
			Type:     "refund.updated",
			Kind:     model.EventRefundFailed,
			RefundID: "re_1",
		}, nil)
		repo.On("GetByRefundID", "re_1").Return(p, nil)
		repo.On("UpdateFields", "pay-1", mock.MatchedBy(func(f map[string]interface{}) bool {
			return f["status"] == model.StatusPaid
		})).Return(nil)

		_, err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unrecognized event type is acknowledged", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.WebhookEvent{
			Type: "invoice.created",
		}, nil)

		ev, err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

		assert.NoError(t, err)
		assert.Equal(t, "invoice.created", ev.Type)
		repo.AssertNotCalled(t, "GetBySessionID", mock.Anything)
	})
}

func TestRequestRefund(t *testing.T) {
	refundInput := RefundInput{
		Name:    "أحمد",
		Email:   "ahmed@example.com",
		Message: "أرغب في استرداد المبلغ",
	}

	t.Run("paid payment moves to refund_pending and emails admin", func(t *testing.T) {
		repo, _, ml, svc := newTestService()

		p := paidPayment("pay-1", "user-1")
		repo.On("GetByID", "pay-1").Return(p, nil)
		repo.On("UpdateFields", "pay-1", mock.MatchedBy(func(f map[string]interface{}) bool {
			return f["status"] == model.StatusRefundPending && f["refund_requested_at"] != nil
		})).Return(nil)
		ml.On("Send", mock.MatchedBy(func(e mailer.Email) bool {
			return e.ReplyTo == refundInput.Email
		})).Return(nil)

		err := svc.RequestRefund(context.Background(), "user-1", "pay-1", refundInput)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
		ml.AssertExpectations(t)
	})

	t.Run("rejects non-paid status naming the current status", func(t *testing.T) {
		repo, _, ml, svc := newTestService()

		p := paidPayment("pay-1", "user-1")
		p.Status = model.StatusPending
		repo.On("GetByID", "pay-1").Return(p, nil)

		err := svc.RequestRefund(context.Background(), "user-1", "pay-1", refundInput)

		assert.ErrorIs(t, err, ErrRefundNotAllowed)
		assert.Contains(t, err.Error(), "pending")
		repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
		ml.AssertNotCalled(t, "Send", mock.Anything)
	})

	t.Run("rejects another user's payment", func(t *testing.T) {
		repo, _, _, svc := newTestService()

		p := paidPayment("pay-1", "someone-else")
		repo.On("GetByID", "pay-1").Return(p, nil)

		err := svc.RequestRefund(context.Background(), "user-1", "pay-1", refundInput)

		assert.ErrorIs(t, err, ErrNotOwned)
	})

	t.Run("email failure surfaces but status stays refund_pending", func(t *testing.T) {
		repo, _, ml, svc := newTestService()

		p := paidPayment("pay-1", "user-1")
		repo.On("GetByID", "pay-1").Return(p, nil)
		repo.On("UpdateFields", "pay-1", mock.Anything).Return(nil).Once()
		ml.On("Send", mock.Anything).Return(errors.New("smtp: connection refused"))

		err := svc.RequestRefund(context.Background(), "user-1", "pay-1", refundInput)

		assert.ErrorIs(t, err, ErrEmailFailed)
		// 状态更新只发生一次，没有回滚写
		repo.AssertNumberOfCalls(t, "UpdateFields", 1)
	})

	t.Run("missing payment", func(t *testing.T) {
		repo, _, _, svc := newTestService()

		repo.On("GetByID", "nope").Return(nil, gorm.ErrRecordNotFound)

		err := svc.RequestRefund(context.Background(), "user-1", "nope", refundInput)

		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})
}

func TestSyncStatus(t *testing.T) {
	t.Run("pending record synced to paid", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		p := paidPayment("pay-1", "user-1")
		p.Status = model.StatusPending
		p.StripePaymentIntentID = ""
		synced := paidPayment("pay-1", "user-1")

		repo.On("GetByID", "pay-1").Return(p, nil).Once()
		gw.On("GetSession", p.StripeSessionID).Return(&gateway.SessionInfo{
			Paid:            true,
			PaymentIntentID: "pi_pay-1",
		}, nil)
		repo.On("UpdateFields", "pay-1", mock.MatchedBy(func(f map[string]interface{}) bool {
			return f["status"] == model.StatusPaid && f["stripe_payment_intent_id"] == "pi_pay-1"
		})).Return(nil)
		gw.On("GetPaymentIntent", "pi_pay-1").Return(&gateway.IntentInfo{ChargeRefunded: false}, nil)
		repo.On("GetByID", "pay-1").Return(synced, nil).Once()

		result, err := svc.SyncStatus(context.Background(), "user-1", "pay-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPaid, result.Status)
		repo.AssertExpectations(t)
		gw.AssertExpectations(t)
	})

	t.Run("refunded on channel cancels with manual fallback refund id", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		p := paidPayment("pay-1", "user-1")
		cancelled := paidPayment("pay-1", "user-1")
		cancelled.Status = model.StatusCancelled

		repo.On("GetByID", "pay-1").Return(p, nil).Once()
		gw.On("GetSession", p.StripeSessionID).Return(&gateway.SessionInfo{
			Paid:            true,
			PaymentIntentID: p.StripePaymentIntentID,
		}, nil)
		gw.On("GetPaymentIntent", p.StripePaymentIntentID).Return(&gateway.IntentInfo{
			ChargeRefunded: true,
		}, nil)
		repo.On("UpdateFields", "pay-1", mock.MatchedBy(func(f map[string]interface{}) bool {
			return f["status"] == model.StatusCancelled && f["refund_id"] == "manual_refund"
		})).Return(nil)
		repo.On("GetByID", "pay-1").Return(cancelled, nil).Once()

		result, err := svc.SyncStatus(context.Background(), "user-1", "pay-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, result.Status)
		repo.AssertExpectations(t)
	})

	t.Run("sync is idempotent when states already agree", func(t *testing.T) {
		repo, gw, _, svc := newTestService()

		p := paidPayment("pay-1", "user-1")
		repo.On("GetByID", "pay-1").Return(p, nil)
		gw.On("GetSession", p.StripeSessionID).Return(&gateway.SessionInfo{
			Paid:            true,
			PaymentIntentID: p.StripePaymentIntentID,
		}, nil)
		gw.On("GetPaymentIntent", p.StripePaymentIntentID).Return(&gateway.IntentInfo{
			ChargeRefunded: false,
		}, nil)

		result, err := svc.SyncStatus(context.Background(), "user-1", "pay-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPaid, result.Status)
		repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
	})

	t.Run("rejects another user's payment", func(t *testing.T) {
		repo, _, _, svc := newTestService()

		p := paidPayment("pay-1", "someone-else")
		repo.On("GetByID", "pay-1").Return(p, nil)

		_, err := svc.SyncStatus(context.Background(), "user-1", "pay-1")

		assert.ErrorIs(t, err, ErrNotOwned)
	})
}

func TestGetUserOrders(t *testing.T) {
	repo, _, _, svc := newTestService()

	orders := []model.Payment{*paidPayment("pay-1", "user-1"), *paidPayment("pay-2", "user-1")}
	repo.On("ListByUser", "user-1").Return(orders, nil)

	result, err := svc.GetUserOrders(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Len(t, result, 2)
}
