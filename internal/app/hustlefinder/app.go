// Package hustlefinder собирает HTTP API сервиса: хранилище, кэш, провайдеры
// генерации, биллинг, уведомления и маршруты.
package hustlefinder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/hustlefinder/internal/cache"
	"github.com/magabrotheeeer/hustlefinder/internal/config"
	"github.com/magabrotheeeer/hustlefinder/internal/grpc/server"
	"github.com/magabrotheeeer/hustlefinder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/jwt"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/signature"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/smtp"
	"github.com/magabrotheeeer/hustlefinder/internal/metrics"
	"github.com/magabrotheeeer/hustlefinder/internal/migrations"
	"github.com/magabrotheeeer/hustlefinder/internal/paymentprovider"
	"github.com/magabrotheeeer/hustlefinder/internal/rabbitmq"
	"github.com/magabrotheeeer/hustlefinder/internal/services/auth"
	"github.com/magabrotheeeer/hustlefinder/internal/services/billing"
	"github.com/magabrotheeeer/hustlefinder/internal/services/generation"
	"github.com/magabrotheeeer/hustlefinder/internal/services/generation/fallback"
	"github.com/magabrotheeeer/hustlefinder/internal/services/generation/provider/groq"
	"github.com/magabrotheeeer/hustlefinder/internal/services/generation/provider/vertex"
	"github.com/magabrotheeeer/hustlefinder/internal/services/hustle"
	"github.com/magabrotheeeer/hustlefinder/internal/services/notification"
	"github.com/magabrotheeeer/hustlefinder/internal/services/quota"
	"github.com/magabrotheeeer/hustlefinder/internal/services/scheduler"
	"github.com/magabrotheeeer/hustlefinder/internal/services/sender"
	"github.com/magabrotheeeer/hustlefinder/internal/storage/repository"
)

const (
	shutdownTimeout = 15 * time.Second
	healthInterval  = 10 * time.Second
	eventBuffer     = 64
)

// App HTTP API и фоновые задачи процесса.
type App struct {
	server   *http.Server
	health   *server.HealthServer
	grpcAddr string
	logger   *slog.Logger
	db       *repository.Storage
	cache    *cache.Cache
	broker   *auth.Broker
	notifier *notification.Service
	digest   *scheduler.Service
	metrics  *metrics.Metrics
	closers  []func() error
}

// New подключает зависимости и собирает маршруты.
// Отсутствие ключей биллинга, AI или почты не ошибка: функция сообщает "не настроено".
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.hustlefinder.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a := &App{
		grpcAddr: cfg.AddressGRPC,
		logger:   logger,
		db:       db,
		closers:  []func() error{db.Close},
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.closers = append(a.closers, a.cache.Close)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(reg)

	orchestrator, err := a.newOrchestrator(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	policy := quota.New(cache.NewDeviceLedger(a.cache, cfg.Quota.AnonWindow), db, quota.Limits{
		AnonLimit:  cfg.Quota.AnonLimit,
		AnonWindow: cfg.Quota.AnonWindow,
		FreeLimit:  cfg.Quota.FreeLimit,
		FreeWindow: cfg.Quota.FreeWindow,
	})
	hustleService := hustle.New(logger, policy, orchestrator, a.metrics)

	a.broker = auth.NewBroker(logger)
	authService := auth.NewService(logger, db, a.cache, jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL), a.broker, cfg.RefreshAfter)

	a.notifier, err = a.newNotifier(cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.digest = scheduler.New(db, a.cache, a.notifier, logger)

	billingOpts := []billing.Option{billing.WithNotifier(a.notifier), billing.WithMetrics(a.metrics)}
	if cfg.BillingConfigured() {
		billingOpts = append(billingOpts, billing.WithGateway(paymentprovider.NewClient(cfg.Stripe.SecretKey)))
	} else {
		logger.Warn("billing is not configured")
	}
	if cfg.Stripe.WebhookSecret != "" {
		billingOpts = append(billingOpts, billing.WithVerifier(signature.NewVerifier(cfg.Stripe.WebhookSecret, cfg.Stripe.Tolerance)))
	}
	billingService := billing.New(logger, db, a.cache, billing.Config{
		PriceID:     cfg.Stripe.PriceID,
		FrontendURL: cfg.Stripe.FrontendURL,
	}, billingOpts...)

	a.health = server.NewHealthServer(logger, map[string]server.Pinger{
		"postgres": db,
		"redis":    a.cache,
	}, healthInterval)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Auth:          authService,
		Hustle:        hustleService,
		Store:         db,
		Billing:       billingService,
		Mail:          a.notifier,
		Health:        a.health,
		Metrics:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AuthLimit:     middlewarectx.NewRateLimiter(10, 5),
		GenerateLimit: middlewarectx.NewRateLimiter(20, 5),
		AllowedOrigin: cfg.CORS.AllowedOrigin,
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

// newOrchestrator строит цепочку: Groq, затем Vertex AI, затем шаблонные идеи.
func (a *App) newOrchestrator(ctx context.Context, cfg *config.Config) (*generation.Orchestrator, error) {
	gen := cfg.Generation
	providers := make([]generation.Provider, 0, 2)

	if gen.GroqAPIKey != "" {
		providers = append(providers, groq.New(gen.GroqAPIKey, groq.WithBaseURL(gen.GroqBaseURL), groq.WithModel(gen.GroqModel)))
	} else {
		providers = append(providers, generation.NotConfigured("groq"))
	}

	vp, err := vertex.New(ctx, vertex.Config{
		Project:         gen.VertexProject,
		Location:        gen.VertexLocation,
		Model:           gen.VertexModel,
		CredentialsFile: gen.CredentialsFile,
	})
	switch {
	case errors.Is(err, generation.ErrNotConfigured):
		providers = append(providers, generation.NotConfigured("vertex"))
	case err != nil:
		a.logger.Warn("vertex provider unavailable", sl.Err(err))
		providers = append(providers, generation.NotConfigured("vertex"))
	default:
		providers = append(providers, vp)
		a.closers = append(a.closers, vp.Close)
	}

	opts := []generation.Option{
		generation.WithCallTimeout(gen.CallTimeout),
		generation.WithBudget(cfg.GenerationBudget()),
		generation.WithMetrics(a.metrics),
	}
	if !gen.DisableStaticFallback {
		catalog, err := fallback.Load()
		if err != nil {
			return nil, err
		}
		opts = append(opts, generation.WithStaticFallback(catalog))
	}
	return generation.NewOrchestrator(a.logger, providers, opts...), nil
}

// newNotifier выбирает доставку писем: очередь RabbitMQ, прямой SMTP или пропуск.
func (a *App) newNotifier(cfg *config.Config) (*notification.Service, error) {
	var (
		publisher notification.Publisher
		mailer    notification.Mailer
	)
	switch {
	case cfg.RabbitMQURL != "":
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		a.closers = append(a.closers, closeAMQP(ch, conn))
		publisher = rabbitmq.NewEmailPublisher(ch)
	case cfg.MailConfigured():
		mailer = sender.New(a.logger, smtp.NewTransport(cfg.SMTP, a.logger))
	default:
		a.logger.Warn("email delivery is not configured, notifications will be skipped")
	}
	return notification.New(a.logger, publisher, mailer, a.metrics), nil
}

func closeAMQP(ch *amqp.Channel, conn *amqp.Connection) func() error {
	return func() error {
		return errors.Join(ch.Close(), conn.Close())
	}
}

// Run запускает HTTP и gRPC серверы и подписчиков событий до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	signups, unsubscribeWelcome := a.broker.Subscribe(eventBuffer)
	authEvents, unsubscribeMetrics := a.broker.Subscribe(eventBuffer)
	defer unsubscribeWelcome()
	defer unsubscribeMetrics()
	go a.notifier.WelcomeOnSignUp(ctx, signups)
	go countAuthEvents(ctx, a.metrics, authEvents)
	go a.health.Run(ctx)
	if a.notifier.Configured() {
		go a.digest.Run(ctx, scheduler.DefaultInterval)
	}

	errCh := make(chan error, 2)
	if a.grpcAddr != "" {
		lis, err := net.Listen("tcp", a.grpcAddr)
		if err != nil {
			return fmt.Errorf("app.hustlefinder.Run: %w", err)
		}
		go func() {
			errCh <- a.health.Serve(lis)
		}()
	}

	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down HTTP server gracefully")
	if err := a.server.Shutdown(timeoutCtx); err != nil && runErr == nil {
		runErr = err
	}
	a.health.Stop()
	a.broker.Close()
	a.close()
	return runErr
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}

func countAuthEvents(ctx context.Context, m *metrics.Metrics, events <-chan auth.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			m.AuthEvent(string(e.Type))
		}
	}
}
