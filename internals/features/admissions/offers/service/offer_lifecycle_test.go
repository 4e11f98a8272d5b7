package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	model "uniportal_backend/internals/features/admissions/offers/model"
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

func tp(t time.Time) *time.Time { return &t }

func TestCheckAcceptancePayment(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   string
		feePaid  bool
		deadline *time.Time
		wantErr  error
	}{
		{
			name:     "open offer before deadline",
			status:   model.OfferStatusOffered,
			deadline: tp(now.Add(24 * time.Hour)),
			wantErr:  nil,
		},
		{
			name:     "open offer with no deadline",
			status:   model.OfferStatusOffered,
			deadline: nil,
			wantErr:  nil,
		},
		{
			name:     "deadline passed",
			status:   model.OfferStatusOffered,
			deadline: tp(now.Add(-time.Minute)),
			wantErr:  ErrOfferExpired,
		},
		{
			name:     "already swept to expired",
			status:   model.OfferStatusExpired,
			deadline: tp(now.Add(-time.Hour)),
			wantErr:  ErrOfferExpired,
		},
		{
			name:    "declined offer cannot be paid",
			status:  model.OfferStatusDeclined,
			wantErr: ErrOfferInvalidTransition,
		},
		{
			name:     "paid offer is always a no-op, even when marked expired",
			status:   model.OfferStatusExpired,
			feePaid:  true,
			deadline: tp(now.Add(-time.Hour)),
			wantErr:  nil,
		},
		{
			name:    "paid and accepted is a no-op",
			status:  model.OfferStatusAccepted,
			feePaid: true,
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAcceptancePayment(tt.status, tt.feePaid, tt.deadline, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestMarkAcceptanceFeePaid_FlipsOpenOffer(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOfferLifecycle(db)

	appID := uuid.New()
	now := time.Now()

	mock.ExpectExec(`UPDATE admission_offers`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.MarkAcceptanceFeePaid(context.Background(), appID, now)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAcceptanceFeePaid_Idempotent(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOfferLifecycle(db)

	appID := uuid.New()
	now := time.Now()

	// Guard matches nothing; reload shows the fee was already paid.
	mock.ExpectExec(`UPDATE admission_offers`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "admission_offers"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"admission_offer_id", "admission_offer_application_id",
			"admission_offer_status", "admission_offer_acceptance_fee_paid",
		}).AddRow(uuid.New(), appID, model.OfferStatusAccepted, true))

	err := svc.MarkAcceptanceFeePaid(context.Background(), appID, now)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAcceptanceFeePaid_Expired(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOfferLifecycle(db)

	appID := uuid.New()
	now := time.Now()
	deadline := now.Add(-48 * time.Hour)

	mock.ExpectExec(`UPDATE admission_offers`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "admission_offers"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"admission_offer_id", "admission_offer_application_id",
			"admission_offer_status", "admission_offer_acceptance_fee_paid",
			"admission_offer_deadline",
		}).AddRow(uuid.New(), appID, model.OfferStatusOffered, false, deadline))

	err := svc.MarkAcceptanceFeePaid(context.Background(), appID, now)
	assert.ErrorIs(t, err, ErrOfferExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAcceptanceFeePaid_Unknown(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOfferLifecycle(db)

	mock.ExpectExec(`UPDATE admission_offers`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "admission_offers"`).
		WillReturnRows(sqlmock.NewRows([]string{"admission_offer_id"}))

	err := svc.MarkAcceptanceFeePaid(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestSweepExpired_ReturnsCount(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOfferLifecycle(db)

	mock.ExpectExec(`UPDATE admission_offers`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := svc.SweepExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestSweepExpired_SecondRunFindsNothing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOfferLifecycle(db)

	mock.ExpectExec(`UPDATE admission_offers`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := svc.SweepExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}
