package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"courtbook/infras/otel"
	"courtbook/shared/constant"
	"courtbook/shared/timezone"
)

const (
	TypeBookingCreated   = "booking_created"
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingCancelled = "booking_cancelled"
	TypeBookingCompleted = "booking_completed"
)

// Event describes one booking lifecycle transition.
type Event struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	CourtID    string    `json:"court_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType, bookingID, courtID, userID, status string) Event {
	return Event{
		Type:       eventType,
		BookingID:  bookingID,
		CourtID:    courtID,
		UserID:     userID,
		Status:     status,
		OccurredAt: timezone.Now(),
	}
}

type Listener interface {
	Handle(ctx context.Context, event Event) error
}

// Dispatcher fans an event out to every registered listener. A failing
// listener is logged and skipped so one broken integration cannot block the
// booking flow or the other listeners.
type Dispatcher interface {
	Register(listener Listener)
	Dispatch(ctx context.Context, event Event)
}

type dispatcherImpl struct {
	listeners []Listener
	otel      otel.Otel
}

func NewDispatcher(otel otel.Otel) Dispatcher {
	return &dispatcherImpl{otel: otel}
}

func (d *dispatcherImpl) Register(listener Listener) {
	d.listeners = append(d.listeners, listener)
}

func (d *dispatcherImpl) Dispatch(ctx context.Context, event Event) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Dispatch")
	defer scope.End()

	scope.AddEvent(event.Type)

	for _, listener := range d.listeners {
		err := listener.Handle(ctx, event)
		if err != nil {
			log.Error().Err(err).Str("type", event.Type).Str("bookingID", event.BookingID).Msg("Event listener failed")
		}
	}
}
