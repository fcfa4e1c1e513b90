// Package generation превращает профиль пользователя в три идеи подработки,
// последовательно опрашивая упорядоченный список провайдеров.
//
// Провайдеры вызываются по одному, каждый со своим таймаутом. Первый ответ,
// который удалось разобрать и нормализовать до трёх идей, возвращается.
// Если все провайдеры отказали, используется статический каталог, если он задан.
package generation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/metrics"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

// DefaultCallTimeout ограничение на один вызов провайдера.
const DefaultCallTimeout = 30 * time.Second

// Provider источник идей по текстовому запросу.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) ([]models.Idea, error)
}

// StaticSource последний источник идей, не зависящий от внешних сервисов.
type StaticSource interface {
	Ideas(profile models.HustleProfile) []models.Idea
}

// Result набор идей и источник, который его выдал.
type Result struct {
	Ideas    []models.Idea
	Provider string
	Fallback bool
}

// Orchestrator цепочка провайдеров.
type Orchestrator struct {
	providers   []Provider
	static      StaticSource
	callTimeout time.Duration
	budget      time.Duration
	log         *slog.Logger
	metrics     *metrics.Metrics
}

// Option настраивает Orchestrator.
type Option func(*Orchestrator)

// WithStaticFallback задаёт каталог, используемый когда все провайдеры отказали.
func WithStaticFallback(s StaticSource) Option {
	return func(o *Orchestrator) { o.static = s }
}

// WithCallTimeout задаёт таймаут одного вызова провайдера.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// WithBudget ограничивает суммарное время опроса провайдеров.
// По истечении бюджета оставшиеся провайдеры пропускаются и выдаётся статический каталог,
// поэтому бюджет должен быть меньше таймаута записи HTTP-сервера.
func WithBudget(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.budget = d
		}
	}
}

// WithMetrics включает учёт попыток.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// NewOrchestrator создаёт цепочку из провайдеров в порядке приоритета.
func NewOrchestrator(log *slog.Logger, providers []Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		providers:   providers,
		callTimeout: DefaultCallTimeout,
		log:         log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate возвращает ровно три нормализованные идеи.
// Ошибка всегда имеет тип *Error.
func (o *Orchestrator) Generate(ctx context.Context, profile models.HustleProfile) (Result, error) {
	const op = "generation.Generate"
	log := o.log.With(sl.Op(op))

	resolved := profile.Resolved()
	prompt := BuildPrompt(resolved)

	chainCtx, cancel := ctx, context.CancelFunc(func() {})
	if o.budget > 0 {
		chainCtx, cancel = context.WithTimeout(ctx, o.budget)
	}
	defer cancel()

	var (
		lastErr     error
		lastName    string
		allNotConfd = true
	)
	for _, p := range o.providers {
		ideas, err := o.call(chainCtx, p, prompt)
		if err == nil {
			o.metrics.Generation(p.Name(), "success")
			log.Debug("ideas generated", slog.String("provider", p.Name()))
			return Result{Ideas: ideas, Provider: p.Name()}, nil
		}

		kind := classify(err)
		o.metrics.Generation(p.Name(), kind.String())
		log.Warn("provider failed, trying next",
			slog.String("provider", p.Name()),
			slog.String("kind", kind.String()),
			sl.Err(err),
		)
		if kind != KindNotConfigured {
			allNotConfd = false
		}
		lastErr, lastName = err, p.Name()

		if chainCtx.Err() != nil {
			if ctx.Err() == nil {
				log.Warn("generation budget exhausted", slog.Duration("budget", o.budget))
			}
			break
		}
	}

	if o.static != nil && ctx.Err() == nil {
		ideas, err := Normalize(o.static.Ideas(resolved))
		if err == nil {
			o.metrics.Generation("static", "success")
			log.Info("serving static fallback ideas")
			return Result{Ideas: ideas, Provider: "static", Fallback: true}, nil
		}
		log.Error("static fallback produced invalid batch", sl.Err(err))
	}

	if lastErr == nil {
		lastErr = ErrNotConfigured
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			allNotConfd = false
		}
	}
	kind := KindUpstream
	if allNotConfd {
		kind = KindNotConfigured
	}
	return Result{}, &Error{Kind: kind, Provider: lastName, Err: lastErr}
}

func (o *Orchestrator) call(ctx context.Context, p Provider, prompt string) ([]models.Idea, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	ideas, err := p.Generate(callCtx, prompt)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, errors.Join(ErrUnavailable, err)
		}
		return nil, err
	}
	return Normalize(ideas)
}

type notConfigured string

// NotConfigured провайдер-заглушка для источника без учётных данных.
func NotConfigured(name string) Provider {
	return notConfigured(name)
}

func (n notConfigured) Name() string { return string(n) }

func (n notConfigured) Generate(context.Context, string) ([]models.Idea, error) {
	return nil, ErrNotConfigured
}
