package service

import (
	"context"
	"fmt"

	"courtbook/config"
	"courtbook/infras/otel"
	"courtbook/internal/domains/court/model"
	"courtbook/internal/domains/court/model/dto"
	"courtbook/internal/domains/court/repository"
	"courtbook/shared"
	"courtbook/shared/cache"
	"courtbook/shared/constant"
	gDto "courtbook/shared/dto"
	"courtbook/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetCourt    = "court:get"
	cacheGetAllCourt = "court:gets"
	cacheCountCourt  = "court:count"
	cacheCourtAddons = "court:addons"
)

type Court interface {
	Create(ctx context.Context, req dto.CreateCourtRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCourtsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.CourtResponse, error)
	Update(ctx context.Context, req dto.UpdateCourtRequest, id string) error
	Delete(ctx context.Context, id string) error
	CreateAddon(ctx context.Context, req dto.CreateAddonRequest, courtID string) error
	GetAddons(ctx context.Context, courtID string) (dto.GetAddonsResponse, error)
	DeleteAddon(ctx context.Context, courtID, addonID string) error
}

type serviceImpl struct {
	repo      repository.Court
	addonRepo repository.Addon
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Court, addonRepo repository.Addon, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Court {
	return &serviceImpl{
		repo:      repo,
		addonRepo: addonRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCourtRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	court := req.ToModel(user)
	if court.PeakEndHour <= court.PeakStartHour {
		return failure.BadRequestFromString("peak window end must be after its start") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, court); err != nil {
		log.Error().Err(err).Msg("failed to create court")

		return fmt.Errorf("failed to create court: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllCourt)
		shared.InvalidateCaches(c, s.cache, cacheCountCourt)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCourtsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCourt, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for courts")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count courts")

		return res, fmt.Errorf("failed to count courts: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get courts")

		return res, fmt.Errorf("failed to get courts: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save courts to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountCourt, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for court count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count courts")

		return res, fmt.Errorf("failed to count courts: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save court count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CourtResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetCourt, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for court")

		return res, nil
	}

	court, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get court")

		return res, fmt.Errorf("failed to get court: %w", err)
	}

	if court.ID == constant.Empty {
		return res, failure.NotFound("court not found") // nolint:wrapcheck
	}

	res.FromModel(court)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save court to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateCourtRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check court existence")

		return fmt.Errorf("failed to check court existence: %w", err)
	}

	if !exist {
		log.Error().Msg("court not found")

		return failure.NotFound("court not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if hours := req.WeeklyHoursModel(); hours != nil {
		updatedFields[model.FieldWeeklyHours] = *hours
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update court")

		return fmt.Errorf("failed to update court: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetCourt, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete court cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllCourt)
		shared.InvalidateCaches(c, s.cache, cacheCountCourt)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if court exists")

		return fmt.Errorf("failed to check if court exists: %w", err)
	}

	if !exist {
		log.Error().Msg("court not found")

		return failure.NotFound("court not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete court")

		return fmt.Errorf("failed to delete court: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetCourt, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete court from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllCourt)
		shared.InvalidateCaches(c, s.cache, cacheCountCourt)
	}()

	return nil
}

func (s *serviceImpl) CreateAddon(ctx context.Context, req dto.CreateAddonRequest, courtID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateAddon")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(courtID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if court exists")

		return fmt.Errorf("failed to check if court exists: %w", err)
	}

	if !exist {
		return failure.NotFound("court not found") // nolint:wrapcheck
	}

	if err = s.addonRepo.Insert(ctx, req.ToModel(courtID, user)); err != nil {
		log.Error().Err(err).Msg("failed to create addon")

		return fmt.Errorf("failed to create addon: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheCourtAddons, courtID))
	}()

	return nil
}

func (s *serviceImpl) GetAddons(ctx context.Context, courtID string) (res dto.GetAddonsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAddons")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheCourtAddons, courtID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for court addons")

		return res, nil
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByID(courtID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if court exists")

		return res, fmt.Errorf("failed to check if court exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("court not found") // nolint:wrapcheck
	}

	addons, err := s.addonRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByID(courtID, model.FieldAddonCourt, model.AddonTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get addons")

		return res, fmt.Errorf("failed to get addons: %w", err)
	}

	res.FromModels(addons)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save addons to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) DeleteAddon(ctx context.Context, courtID, addonID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteAddon")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldAddonID,
				Operator: gDto.FilterOperatorEq,
				Value:    addonID,
				Table:    model.AddonTableName,
			},
			gDto.Filter{
				ArgName:  "addon_court_id",
				Field:    model.FieldAddonCourt,
				Operator: gDto.FilterOperatorEq,
				Value:    courtID,
				Table:    model.AddonTableName,
			},
		},
	}

	exist, err := s.addonRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if addon exists")

		return fmt.Errorf("failed to check if addon exists: %w", err)
	}

	if !exist {
		return failure.NotFound("addon not found") // nolint:wrapcheck
	}

	if err := s.addonRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete addon")

		return fmt.Errorf("failed to delete addon: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheCourtAddons, courtID))
	}()

	return nil
}
