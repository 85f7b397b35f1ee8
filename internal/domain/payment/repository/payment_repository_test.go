package repository

import (
	"testing"
	"time"

	"ba_api/internal/domain/payment/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (PaymentRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	return NewPaymentRepository(gdb), mock
}

func paymentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "deleted_at",
		"pay_number", "user_id", "service_id", "service_type", "amount",
		"stripe_session_id", "stripe_payment_intent_id", "refund_id",
		"status", "refund_requested_at", "refunded_at",
	})
}

func TestGetBySessionID(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE stripe_session_id = \$1`).
		WithArgs("cs_test_1", 1).
		WillReturnRows(paymentRows().AddRow(
			"pay-1", now, now, nil,
			"PAY-1", "user-1", "svc-1", "study", int64(500),
			"cs_test_1", "pi_1", "",
			"paid", nil, nil,
		))

	p, err := repo.GetBySessionID("cs_test_1")

	assert.NoError(t, err)
	assert.Equal(t, "pay-1", p.ID)
	assert.Equal(t, model.StatusPaid, p.Status)
	assert.Equal(t, int64(500), p.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySessionIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WithArgs("cs_missing", 1).
		WillReturnRows(paymentRows())

	_, err := repo.GetBySessionID("cs_missing")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListRecentByStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	rows := paymentRows().
		AddRow("pay-2", now, now, nil, "PAY-2", "user-1", "svc-1", "study", int64(300),
			"cs_2", "pi_2", "", "refund_pending", &now, nil).
		AddRow("pay-1", now.Add(-time.Hour), now, nil, "PAY-1", "user-2", "svc-2", "idea", int64(500),
			"cs_1", "pi_1", "", "paid", nil, nil)

	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE status IN \(\$1,\$2,\$3\)`).
		WithArgs("paid", "refund_pending", "refund_requested", 5).
		WillReturnRows(rows)

	payments, err := repo.ListRecentByStatus([]model.Status{
		model.StatusPaid, model.StatusRefundPending, model.StatusRefundRequested,
	}, 5)

	assert.NoError(t, err)
	assert.Len(t, payments, 2)
	assert.Equal(t, "pay-2", payments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFields(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateFields("pay-1", map[string]interface{}{
		"status": model.StatusPaid,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(paymentRows().AddRow(
			"pay-1", now, now, nil, "PAY-1", "user-1", "svc-1", "study", int64(500),
			"cs_1", "pi_1", "", "paid", nil, nil,
		))

	payments, err := repo.ListByUser("user-1")

	assert.NoError(t, err)
	assert.Len(t, payments, 1)
	assert.Equal(t, "user-1", payments[0].UserID)
}
