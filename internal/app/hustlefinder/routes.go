package hustlefinder

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/auth/session"
	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/auth/signin"
	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/auth/signout"
	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/billing/checkout"
	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/billing/portal"
	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/billing/webhook"
	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/db"
	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/health"
	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/hustle/generate"
	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/hustle/usage"
	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/notify/sendemail"
	"github.com/magabrotheeeer/hustlefinder/internal/http/handlers/profile"
	"github.com/magabrotheeeer/hustlefinder/internal/http/middlewarectx"
)

// AuthService операции сессий, нужные маршрутам.
type AuthService interface {
	signup.Service
	signin.Service
	session.Service
	signout.Service
	middlewarectx.Authenticator
}

// HustleService генерация и чтение квоты.
type HustleService interface {
	generate.Service
	usage.Service
}

// BillingService оплата, портал и вебхук.
type BillingService interface {
	checkout.Service
	portal.Service
	webhook.Service
}

// Deps зависимости маршрутов.
type Deps struct {
	Auth          AuthService
	Hustle        HustleService
	Store         db.Store
	Billing       BillingService
	Mail          sendemail.Service
	Health        health.Prober
	Metrics       http.Handler
	AuthLimit     *middlewarectx.RateLimiter
	GenerateLimit *middlewarectx.RateLimiter
	AllowedOrigin string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{d.AllowedOrigin},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", middlewarectx.DeviceHeader, "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	r.Get("/health", health.New(logger, d.Health).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки с ограничением частоты
		r.Group(func(r chi.Router) {
			r.Use(d.AuthLimit.Middleware(logger))
			r.Post("/auth/sign-up", signup.New(logger, d.Auth).ServeHTTP)
			r.Post("/auth/sign-in", signin.New(logger, d.Auth).ServeHTTP)
		})
		r.Post("/auth/session", session.New(logger, d.Auth).ServeHTTP)
		r.Post("/auth/sign-out", signout.New(logger, d.Auth).ServeHTTP)

		// Квота считается по аккаунту или по устройству
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.ResolveIdentity(d.Auth, logger))
			r.With(d.GenerateLimit.Middleware(logger)).Post("/generate-hustles", generate.New(logger, d.Hustle).ServeHTTP)
			r.Get("/usage", usage.New(logger, d.Hustle).ServeHTTP)
		})

		// Группа с обязательным токеном
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireAccount(d.Auth, logger))
			r.Get("/profile", profile.New(logger, d.Store).ServeHTTP)
			r.Post("/db/select", db.NewSelect(logger, d.Store).ServeHTTP)
			r.Post("/db/update", db.NewUpdate(logger, d.Store).ServeHTTP)
			r.Post("/db/upsert", db.NewUpsert(logger, d.Store).ServeHTTP)
			r.Post("/create-checkout-session", checkout.New(logger, d.Billing).ServeHTTP)
			r.Post("/create-portal-session", portal.New(logger, d.Billing).ServeHTTP)
			r.Post("/send-email", sendemail.New(logger, d.Mail).ServeHTTP)
		})

		// Вебхук проверяется подписью, без токена
		r.Post("/stripe-webhook", webhook.New(logger, d.Billing).ServeHTTP)
	})

	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
