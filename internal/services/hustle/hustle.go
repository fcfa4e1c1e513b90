// Package hustle связывает квоту и генерацию в один пользовательский сценарий:
// проверка лимита, генерация, учёт только успешной генерации.
package hustle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/metrics"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
	"github.com/magabrotheeeer/hustlefinder/internal/services/generation"
	"github.com/magabrotheeeer/hustlefinder/internal/services/quota"
)

// ErrQuotaUnavailable не удалось проверить квоту. Генерация блокируется.
var ErrQuotaUnavailable = errors.New("quota check unavailable")

// QuotaPolicy учёт генераций.
type QuotaPolicy interface {
	Status(ctx context.Context, id quota.Identity) (quota.Status, error)
	Increment(ctx context.Context, id quota.Identity) (int, error)
}

// Generator источник идей.
type Generator interface {
	Generate(ctx context.Context, profile models.HustleProfile) (generation.Result, error)
}

// Result идеи вместе с состоянием квоты после запроса.
type Result struct {
	Ideas    []models.Idea
	Provider string
	Fallback bool
	Usage    quota.Status
}

// Service сценарий генерации.
type Service struct {
	quota     QuotaPolicy
	generator Generator
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// New создаёт Service.
func New(log *slog.Logger, q QuotaPolicy, g Generator, m *metrics.Metrics) *Service {
	return &Service{
		quota:     q,
		generator: g,
		log:       log,
		metrics:   m,
	}
}

// Generate проверяет лимит, генерирует идеи и учитывает генерацию.
// Квота расходуется только на ответ провайдера; шаблонные идеи и ошибки её не тратят.
func (s *Service) Generate(ctx context.Context, id quota.Identity, profile models.HustleProfile) (Result, error) {
	const op = "hustle.Generate"
	log := s.log.With(sl.Op(op), slog.String("identity", id.Kind.String()))

	before, err := s.quota.Status(ctx, id)
	if err != nil {
		log.Error("quota check failed", sl.Err(err))
		return Result{}, fmt.Errorf("%s: %w: %w", op, ErrQuotaUnavailable, err)
	}
	if before.Reached() {
		s.metrics.QuotaDenied(id.Kind.String())
		log.Info("generation blocked by quota", slog.Int("days_until_reset", before.DaysUntilReset))
		return Result{Usage: before}, fmt.Errorf("%s: %w", op, quota.ErrLimitReached)
	}

	res, err := s.generator.Generate(ctx, profile)
	if err != nil {
		return Result{Usage: before}, fmt.Errorf("%s: %w", op, err)
	}

	out := Result{
		Ideas:    res.Ideas,
		Provider: res.Provider,
		Fallback: res.Fallback,
		Usage:    before,
	}
	if res.Fallback {
		log.Info("served static ideas", slog.String("provider", res.Provider))
	}

	if _, err = s.quota.Increment(ctx, id); err != nil {
		log.Error("failed to record generation", sl.Err(err))
		return out, nil
	}
	after, err := s.quota.Status(ctx, id)
	if err != nil {
		log.Warn("failed to reload quota status", sl.Err(err))
		return out, nil
	}
	out.Usage = after
	return out, nil
}

// Usage возвращает состояние квоты.
func (s *Service) Usage(ctx context.Context, id quota.Identity) (quota.Status, error) {
	const op = "hustle.Usage"
	st, err := s.quota.Status(ctx, id)
	if err != nil {
		return quota.Status{}, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}
