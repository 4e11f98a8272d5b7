package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	model "uniportal_backend/internals/features/finance/payments/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestMapGatewayStatus(t *testing.T) {
	tests := []struct {
		name              string
		transactionStatus string
		fraudStatus       string
		want              string
	}{
		{"settlement is successful", "settlement", "", model.PaymentStatusSuccessful},
		{"capture accepted is successful", "capture", "accept", model.PaymentStatusSuccessful},
		{"capture challenged stays pending", "capture", "challenge", model.PaymentStatusPending},
		{"capture denied fails", "capture", "deny", model.PaymentStatusFailed},
		{"pending stays pending", "pending", "", model.PaymentStatusPending},
		{"deny fails", "deny", "", model.PaymentStatusFailed},
		{"cancel fails", "cancel", "", model.PaymentStatusFailed},
		{"expire fails", "expire", "", model.PaymentStatusFailed},
		{"failure fails", "failure", "", model.PaymentStatusFailed},
		{"refund fails", "refund", "", model.PaymentStatusFailed},
		{"unknown status stays pending", "some_new_status", "", model.PaymentStatusPending},
		{"case and whitespace are normalized", " SETTLEMENT ", "", model.PaymentStatusSuccessful},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapGatewayStatus(tt.transactionStatus, tt.fraudStatus))
		})
	}
}

func paymentRows(reference, status, paymentType string, appID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"payment_id", "payment_user_id", "payment_application_id",
		"payment_reference", "payment_type", "payment_status", "payment_amount",
	}).AddRow(uuid.New(), uuid.New(), appID, reference, paymentType, status, 5000)
}

func TestFinalize_UnknownReference(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewPaymentLedger(db)

	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"payment_id"}))

	_, err := ledger.Finalize(context.Background(), "PAY-MISSING", model.PaymentStatusSuccessful, nil, nil, time.Now())
	assert.ErrorIs(t, err, ErrUnknownReference)
}

func TestFinalize_PendingStatusIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewPaymentLedger(db)

	appID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(paymentRows("PAY-1", model.PaymentStatusPending, model.PaymentTypeFormPurchase, appID))

	got, err := ledger.Finalize(context.Background(), "PAY-1", model.PaymentStatusPending, nil, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, got.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalize_SuccessfulFormPurchaseMarksFormPaid(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewPaymentLedger(db)

	appID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(paymentRows("PAY-1", model.PaymentStatusPending, model.PaymentTypeFormPurchase, appID))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE applications`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(paymentRows("PAY-1", model.PaymentStatusSuccessful, model.PaymentTypeFormPurchase, appID))

	got, err := ledger.Finalize(context.Background(), "PAY-1", model.PaymentStatusSuccessful, nil, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSuccessful, got.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalize_SideEffectFailureRollsBackForRetry(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewPaymentLedger(db)

	appID := uuid.New()
	now := time.Now()

	// First delivery: the payment row flips, but marking the application
	// paid fails. The whole finalize must roll back so the payment is
	// still pending for the next delivery.
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(paymentRows("PAY-1", model.PaymentStatusPending, model.PaymentTypeFormPurchase, appID))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE applications`).
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	_, err := ledger.Finalize(context.Background(), "PAY-1", model.PaymentStatusSuccessful, nil, nil, now)
	require.Error(t, err)

	// Retry: the rollback left the row pending, so the guarded UPDATE
	// matches again and the side effect lands this time.
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(paymentRows("PAY-1", model.PaymentStatusPending, model.PaymentTypeFormPurchase, appID))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE applications`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(paymentRows("PAY-1", model.PaymentStatusSuccessful, model.PaymentTypeFormPurchase, appID))

	got, err := ledger.Finalize(context.Background(), "PAY-1", model.PaymentStatusSuccessful, nil, nil, now)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSuccessful, got.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalize_RetryAfterSettlementIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewPaymentLedger(db)

	appID := uuid.New()

	// The row was settled by an earlier delivery, so the guarded UPDATE
	// matches nothing and no side effects run.
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(paymentRows("PAY-1", model.PaymentStatusSuccessful, model.PaymentTypeFormPurchase, appID))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payments`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(paymentRows("PAY-1", model.PaymentStatusSuccessful, model.PaymentTypeFormPurchase, appID))

	got, err := ledger.Finalize(context.Background(), "PAY-1", model.PaymentStatusSuccessful, nil, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSuccessful, got.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalize_AcceptanceAfterExpiryFlagsReview(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewPaymentLedger(db)

	appID := uuid.New()
	now := time.Now()
	deadline := now.Add(-24 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(paymentRows("PAY-2", model.PaymentStatusPending, model.PaymentTypeAcceptanceFee, appID))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payments`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Offer guard misses; reload shows the deadline already passed.
	mock.ExpectExec(`UPDATE admission_offers`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "admission_offers"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"admission_offer_id", "admission_offer_application_id",
			"admission_offer_status", "admission_offer_acceptance_fee_paid",
			"admission_offer_deadline",
		}).AddRow(uuid.New(), appID, "offered", false, deadline))

	// Payment stays successful but gets the review flag.
	mock.ExpectExec(`UPDATE "payments" SET "payment_needs_review"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(paymentRows("PAY-2", model.PaymentStatusSuccessful, model.PaymentTypeAcceptanceFee, appID))

	got, err := ledger.Finalize(context.Background(), "PAY-2", model.PaymentStatusSuccessful, nil, nil, now)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSuccessful, got.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}
