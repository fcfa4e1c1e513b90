// Package billing связывает аккаунты с платёжным провайдером: оформление подписки,
// клиентский портал и обработка вебхуков, меняющих тариф аккаунта.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/hustlefinder/internal/lib/signature"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/metrics"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
	"github.com/magabrotheeeer/hustlefinder/internal/paymentprovider"
)

var (
	// ErrNotConfigured ключи или цена провайдера не заданы.
	ErrNotConfigured = errors.New("billing is not configured")
	// ErrNoCustomer у аккаунта нет покупателя на стороне провайдера.
	ErrNoCustomer = errors.New("account has no billing customer")
	// ErrInvalidSignature подпись вебхука не прошла проверку.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrInvalidPayload тело вебхука не является событием.
	ErrInvalidPayload = errors.New("invalid webhook payload")
)

// eventTTL сколько помнить обработанные события. Провайдер повторяет доставку до трёх суток.
const eventTTL = 72 * time.Hour

// Gateway операции платёжного провайдера.
type Gateway interface {
	FindOrCreateCustomer(ctx context.Context, email, accountID string) (paymentprovider.Customer, error)
	CreateCheckoutSession(ctx context.Context, req paymentprovider.CheckoutRequest) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

// AccountStore аккаунты и их подписки.
type AccountStore interface {
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByStripeCustomer(ctx context.Context, customerID string) (*models.Account, error)
	SetSubscription(ctx context.Context, id string, sub models.Subscription) error
	SetStripeCustomer(ctx context.Context, id, customerID string) error
}

// EventLog запоминает обработанные события вебхука.
type EventLog interface {
	MarkEventProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
}

// Notifier уведомляет владельца аккаунта.
type Notifier interface {
	NotifyAccount(ctx context.Context, account *models.Account, msg models.Email) (bool, error)
}

// Config настройки биллинга.
type Config struct {
	PriceID     string
	FrontendURL string
}

// Service операции биллинга.
type Service struct {
	log      *slog.Logger
	gateway  Gateway
	accounts AccountStore
	events   EventLog
	notifier Notifier
	verifier *signature.Verifier
	cfg      Config
	metrics  *metrics.Metrics
}

// Option настраивает Service.
type Option func(*Service)

// WithGateway подключает платёжного провайдера. Без него оформление и портал недоступны.
func WithGateway(g Gateway) Option {
	return func(s *Service) { s.gateway = g }
}

// WithVerifier подключает проверку подписи. Без неё вебхуки отклоняются.
func WithVerifier(v *signature.Verifier) Option {
	return func(s *Service) { s.verifier = v }
}

// WithNotifier подключает письма о смене тарифа.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithMetrics подключает счётчики.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New создаёт Service.
func New(log *slog.Logger, accounts AccountStore, events EventLog, cfg Config, opts ...Option) *Service {
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	s := &Service{
		log:      log,
		accounts: accounts,
		events:   events,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCheckoutSession возвращает ссылку на оформление подписки для аккаунта.
// Покупатель создаётся при первом оформлении и запоминается в аккаунте.
func (s *Service) CreateCheckoutSession(ctx context.Context, accountID string) (string, error) {
	const op = "billing.CreateCheckoutSession"
	log := s.log.With(sl.Op(op), slog.String("account_id", accountID))

	if s.gateway == nil || s.cfg.PriceID == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	customerID := account.StripeCustomerID
	if customerID == "" {
		customer, err := s.gateway.FindOrCreateCustomer(ctx, account.Email, account.ID)
		if err != nil {
			log.Error("failed to prepare billing customer", sl.Err(err))
			return "", fmt.Errorf("%s: %w", op, err)
		}
		customerID = customer.ID
		if err := s.accounts.SetStripeCustomer(ctx, account.ID, customerID); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		log.Info("billing customer linked", slog.String("customer_id", customerID))
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, paymentprovider.CheckoutRequest{
		CustomerID: customerID,
		AccountID:  account.ID,
		PriceID:    s.cfg.PriceID,
		SuccessURL: s.cfg.FrontendURL + "/dashboard?upgraded=true",
		CancelURL:  s.cfg.FrontendURL + "/pricing",
	})
	if err != nil {
		log.Error("failed to create checkout session", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return url, nil
}

// CreatePortalSession возвращает ссылку на клиентский портал.
// returnURL принимается только внутри фронтенда, иначе используется страница кабинета.
func (s *Service) CreatePortalSession(ctx context.Context, accountID, returnURL string) (string, error) {
	const op = "billing.CreatePortalSession"

	if s.gateway == nil {
		return "", fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if account.StripeCustomerID == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNoCustomer)
	}

	url, err := s.gateway.CreatePortalSession(ctx, account.StripeCustomerID, s.returnURL(returnURL))
	if err != nil {
		s.log.Error("failed to create portal session", sl.Op(op), sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return url, nil
}

func (s *Service) returnURL(requested string) string {
	fallback := s.cfg.FrontendURL + "/dashboard"
	if requested == "" || s.cfg.FrontendURL == "" {
		return fallback
	}
	if requested == s.cfg.FrontendURL || strings.HasPrefix(requested, s.cfg.FrontendURL+"/") {
		return requested
	}
	return fallback
}
