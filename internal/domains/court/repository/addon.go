package repository

//go:generate go run go.uber.org/mock/mockgen -source=./addon.go -destination=../mocks/addon_mock.go -package=mocks

import (
	"context"
	"courtbook/infras/otel"
	"courtbook/infras/postgres"
	"courtbook/internal/domains/court/model"
	gDto "courtbook/shared/dto"
	gRepo "courtbook/shared/repository"
)

type Addon interface {
	Insert(ctx context.Context, model model.Addon) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Addon, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Addon, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type addonRepositoryImpl struct {
	gRepo.Repository[model.Addon]
	db   *postgres.Connection
	otel otel.Otel
}

func NewAddon(db *postgres.Connection, otel otel.Otel) Addon {
	return &addonRepositoryImpl{
		Repository: gRepo.NewRepository[model.Addon](model.AddonEntityName, model.AddonTableName, model.FieldAddonID, db, otel),
		db:         db,
		otel:       otel,
	}
}
