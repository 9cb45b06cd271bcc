package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"courtbook/infras/otel"
	"courtbook/infras/postgres"
	"courtbook/internal/domains/booking/model"
	"courtbook/shared/constant"
	gDto "courtbook/shared/dto"
	"courtbook/shared/logger"
	gRepo "courtbook/shared/repository"
	"courtbook/shared/timeslot"
	"courtbook/shared/timezone"
)

// ErrSlotTaken is returned when a reservation cannot be made because the
// requested range overlaps one that is already booked, whether detected by
// the row lock check or by the database exclusion constraint.
var ErrSlotTaken = errors.New("time slot already reserved")

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Reserve(ctx context.Context, booking model.Booking, actor string) error
	Cancel(ctx context.Context, updatedFields map[string]any, filter gDto.FilterGroup, booking model.Booking, actor string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	reservations Reservation
	db           *postgres.Connection
	otel         otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository:   gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		reservations: NewReservation(db, otel),
		db:           db,
		otel:         otel,
	}
}

// Reserve inserts the booking and its reservation atomically. Every booked
// reservation for the court and date is locked with FOR UPDATE first, so two
// concurrent writers for the same slot serialize here and the loser sees the
// winner's row. The exclusion constraint on reservations backstops the
// check for anything the lock scan misses.
func (repo *repositoryImpl) Reserve(ctx context.Context, booking model.Booking, actor string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Reserve")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin reservation transaction: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}

		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.ErrorWithStack(rbErr)
		}
	}()

	locked, err := repo.reservations.GetBookedForUpdateTx(ctx, tx, booking.CourtID, booking.BookingDate)
	if err != nil {
		return err
	}

	for _, reservation := range locked {
		if timeslot.Overlaps(booking.Range(), reservation.Range()) {
			return ErrSlotTaken
		}
	}

	if err = repo.InsertTx(ctx, tx, booking); err != nil {
		if IsConflict(err) {
			return ErrSlotTaken
		}

		return err
	}

	reservation := model.Reservation{
		ID:              uuid.NewString(),
		CourtID:         booking.CourtID,
		BookingID:       booking.ID,
		ReservationDate: booking.BookingDate,
		TimeFrom:        booking.TimeFrom,
		TimeTo:          booking.TimeTo,
		Status:          model.ReservationStatusBooked,
		CreatedAt:       timezone.Now(),
	}

	if err = repo.reservations.InsertTx(ctx, tx, reservation); err != nil {
		if IsConflict(err) {
			return ErrSlotTaken
		}

		return err
	}

	history := model.ReservationHistory{
		ID:            uuid.NewString(),
		ReservationID: reservation.ID,
		BookingID:     booking.ID,
		Status:        model.ReservationStatusBooked,
		Actor:         actor,
		CreatedAt:     timezone.Now(),
	}

	if err = repo.reservations.InsertHistoryTx(ctx, tx, history); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		if IsConflict(err) {
			return ErrSlotTaken
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit reservation transaction: %w", err)
	}

	return nil
}

// Cancel applies the booking's cancellation fields and releases its booked
// reservation in one transaction.
func (repo *repositoryImpl) Cancel(ctx context.Context, updatedFields map[string]any, filter gDto.FilterGroup, booking model.Booking, actor string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := repo.reservations.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return err
	}

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin cancellation transaction: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}

		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.ErrorWithStack(rbErr)
		}
	}()

	if err = repo.UpdateTx(ctx, tx, updatedFields, filter); err != nil {
		return err
	}

	if err = repo.reservations.ReleaseTx(ctx, tx, booking.ID); err != nil {
		return err
	}

	if reservation.ID != constant.Empty {
		history := model.ReservationHistory{
			ID:            uuid.NewString(),
			ReservationID: reservation.ID,
			BookingID:     booking.ID,
			Status:        model.ReservationStatusAvailable,
			Actor:         actor,
			CreatedAt:     timezone.Now(),
		}

		if err = repo.reservations.InsertHistoryTx(ctx, tx, history); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit cancellation transaction: %w", err)
	}

	return nil
}

// IsConflict reports whether err is a unique or exclusion constraint
// violation, meaning a concurrent writer committed an overlapping
// reservation first.
func IsConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	code := string(pqErr.Code)

	return code == constant.PqErrorCodeUniqueViolation || code == constant.PqErrorCodeExclusionViolation
}
