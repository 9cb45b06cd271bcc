package repository

//go:generate go run go.uber.org/mock/mockgen -source=./reservation.go -destination=../mocks/reservation_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"courtbook/infras/otel"
	"courtbook/infras/postgres"
	"courtbook/internal/domains/booking/model"
	"courtbook/shared/constant"
	"courtbook/shared/logger"
)

type Reservation interface {
	GetBooked(ctx context.Context, courtID string, date time.Time) ([]model.Reservation, error)
	GetBookedForUpdateTx(ctx context.Context, tx *sqlx.Tx, courtID string, date time.Time) ([]model.Reservation, error)
	GetByBookingID(ctx context.Context, bookingID string) (model.Reservation, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, reservation model.Reservation) error
	ReleaseTx(ctx context.Context, tx *sqlx.Tx, bookingID string) error
	InsertHistoryTx(ctx context.Context, tx *sqlx.Tx, history model.ReservationHistory) error
}

type reservationRepositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func NewReservation(db *postgres.Connection, otel otel.Otel) Reservation {
	return &reservationRepositoryImpl{
		db:   db,
		otel: otel,
	}
}

const selectBookedQuery = `
SELECT id, court_id, booking_id, reservation_date, time_from, time_to, status, created_at
FROM reservations
WHERE court_id = $1 AND reservation_date = $2 AND status = $3
ORDER BY time_from`

// GetBooked returns the booked reservations for a court and date. The read
// replica is good enough for the advisory availability view; the write path
// uses GetBookedForUpdateTx instead.
func (repo *reservationRepositoryImpl) GetBooked(ctx context.Context, courtID string, date time.Time) (res []model.Reservation, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.GetBooked")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, selectBookedQuery)

	err = repo.db.Read.SelectContext(ctx, &res, selectBookedQuery, courtID, date, model.ReservationStatusBooked)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get booked reservations: %w", err)
	}

	return res, nil
}

// GetBookedForUpdateTx locks every booked reservation row for the court and
// date inside the caller's transaction. A concurrent create for the same
// court and date blocks here until the first writer commits, so the second
// writer always sees the winning row.
func (repo *reservationRepositoryImpl) GetBookedForUpdateTx(ctx context.Context, tx *sqlx.Tx, courtID string, date time.Time) (res []model.Reservation, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.GetBookedForUpdateTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := selectBookedQuery + " FOR UPDATE"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = tx.SelectContext(ctx, &res, query, courtID, date, model.ReservationStatusBooked)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to lock booked reservations: %w", err)
	}

	return res, nil
}

func (repo *reservationRepositoryImpl) GetByBookingID(ctx context.Context, bookingID string) (res model.Reservation, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.GetByBookingID")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `
SELECT id, court_id, booking_id, reservation_date, time_from, time_to, status, created_at
FROM reservations
WHERE booking_id = $1`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.GetContext(ctx, &res, query, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get reservation by booking: %w", err)
	}

	return res, nil
}

func (repo *reservationRepositoryImpl) InsertTx(ctx context.Context, tx *sqlx.Tx, reservation model.Reservation) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.InsertTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `
INSERT INTO reservations (id, court_id, booking_id, reservation_date, time_from, time_to, status, created_at)
VALUES (:id, :court_id, :booking_id, :reservation_date, :time_from, :time_to, :status, :created_at)`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err = tx.NamedExecContext(ctx, query, reservation)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert reservation: %w", err)
	}

	return nil
}

// ReleaseTx flips the booked reservation of a booking to available. The
// history entry is the caller's responsibility.
func (repo *reservationRepositoryImpl) ReleaseTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ReleaseTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `UPDATE reservations SET status = $1 WHERE booking_id = $2 AND status = $3`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err = tx.ExecContext(ctx, query, model.ReservationStatusAvailable, bookingID, model.ReservationStatusBooked)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to release reservation: %w", err)
	}

	return nil
}

func (repo *reservationRepositoryImpl) InsertHistoryTx(ctx context.Context, tx *sqlx.Tx, history model.ReservationHistory) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.InsertHistoryTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `
INSERT INTO reservation_history (id, reservation_id, booking_id, status, actor, created_at)
VALUES (:id, :reservation_id, :booking_id, :status, :actor, :created_at)`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err = tx.NamedExecContext(ctx, query, history)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert reservation history: %w", err)
	}

	return nil
}
