//go:build wireinject
// +build wireinject

package di

import (
	"courtbook/config"
	"courtbook/infras/extsched"
	"courtbook/infras/jwt"
	"courtbook/infras/kafka"
	"courtbook/infras/otel"
	"courtbook/infras/postgres"
	"courtbook/infras/redis"
	"courtbook/permissions"
	"courtbook/shared/cache"
	"courtbook/transport/http"
	"courtbook/transport/http/middleware"
	"courtbook/transport/http/router"

	"github.com/google/wire"

	authService "courtbook/internal/domains/auth/service"
	availabilityService "courtbook/internal/domains/availability/service"
	bookingRepository "courtbook/internal/domains/booking/repository"
	bookingService "courtbook/internal/domains/booking/service"
	courtRepository "courtbook/internal/domains/court/repository"
	courtService "courtbook/internal/domains/court/service"
	reportService "courtbook/internal/domains/report/service"
	userRepository "courtbook/internal/domains/user/repository"
	authHandler "courtbook/internal/handlers/auth"
	bookingHandler "courtbook/internal/handlers/booking"
	courtHandler "courtbook/internal/handlers/court"
	reportHandler "courtbook/internal/handlers/report"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	extsched.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var eventing = wire.NewSet(
	ProvideDispatcher,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var courtDomain = wire.NewSet(
	courtRepository.New,
	courtRepository.NewAddon,
	courtService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingRepository.NewReservation,
	bookingService.New,
)

var availabilityDomain = wire.NewSet(
	availabilityService.New,
)

var reportDomain = wire.NewSet(
	reportService.New,
)

var domains = wire.NewSet(
	authDomain,
	courtDomain,
	bookingDomain,
	availabilityDomain,
	reportDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	courtHandler.New,
	bookingHandler.New,
	reportHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		eventing,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
