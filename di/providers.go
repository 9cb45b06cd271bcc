package di

import (
	"courtbook/config"
	"courtbook/infras/kafka"
	"courtbook/infras/otel"
	"courtbook/internal/events"
)

// ProvideDispatcher wires every event listener into the dispatcher.
func ProvideDispatcher(kafkaClient kafka.Client, cfg *config.Config, ot otel.Otel) events.Dispatcher {
	dispatcher := events.NewDispatcher(ot)
	dispatcher.Register(events.NewNotificationListener(kafkaClient, cfg))

	return dispatcher
}
