package events

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"courtbook/config"
	"courtbook/infras/kafka"
)

// notificationListener publishes booking lifecycle events to the
// notifications topic for downstream consumers (email, push, reporting).
type notificationListener struct {
	kafka  kafka.Client
	config *config.Config
}

func NewNotificationListener(kafkaClient kafka.Client, config *config.Config) Listener {
	return &notificationListener{
		kafka:  kafkaClient,
		config: config,
	}
}

func (l *notificationListener) Handle(ctx context.Context, event Event) error {
	message := kafka.Message{
		Key:   event.BookingID,
		Value: event,
	}

	err := l.kafka.SendMessages(ctx, l.config.Kafka.Topics.Notifications, message)
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("Failed to publish notification event")

		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	return nil
}
