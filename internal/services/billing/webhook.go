package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
	"github.com/magabrotheeeer/hustlefinder/internal/paymentprovider"
	"github.com/magabrotheeeer/hustlefinder/internal/services/auth"
	"github.com/magabrotheeeer/hustlefinder/internal/services/notification"
	"github.com/magabrotheeeer/hustlefinder/internal/storage/repository"
	"github.com/stripe/stripe-go/v79"
)

const (
	eventCheckoutCompleted   = "checkout.session.completed"
	eventSubscriptionCreated = "customer.subscription.created"
	eventSubscriptionUpdated = "customer.subscription.updated"
	eventSubscriptionDeleted = "customer.subscription.deleted"
	checkoutModeSubscription = "subscription"
	outcomeRejected          = "rejected"
	outcomeUnknownEventType  = "unknown"
)

// Исходы обработки события.
const (
	OutcomeApplied   = "applied"
	OutcomeIgnored   = "ignored"
	OutcomeUnmatched = "unmatched"
)

// WebhookResult итог обработки одного события.
type WebhookResult struct {
	EventID string `json:"event_id"`
	Type    string `json:"type"`
	Outcome string `json:"outcome"`
}

// HandleWebhook проверяет подпись и применяет событие к тарифу аккаунта.
// До успешной проверки подписи состояние не меняется. Запись тарифа идемпотентна,
// поэтому повторная доставка того же события безопасна.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, header string) (WebhookResult, error) {
	const op = "billing.HandleWebhook"

	if s.verifier == nil {
		return WebhookResult{}, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}
	if err := s.verifier.Verify(payload, header); err != nil {
		s.metrics.WebhookEvent(outcomeUnknownEventType, outcomeRejected)
		s.log.Warn("webhook signature rejected", sl.Op(op), sl.Err(err))
		return WebhookResult{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidSignature, err)
	}

	var evt stripe.Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return WebhookResult{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidPayload, err)
	}
	if evt.ID == "" || evt.Data == nil || len(evt.Data.Raw) == 0 {
		return WebhookResult{}, fmt.Errorf("%s: %w", op, ErrInvalidPayload)
	}

	res := WebhookResult{EventID: evt.ID, Type: string(evt.Type)}
	log := s.log.With(sl.Op(op), slog.String("event_id", evt.ID), slog.String("event_type", res.Type))

	var err error
	switch res.Type {
	case eventCheckoutCompleted:
		res.Outcome, err = s.onCheckoutCompleted(ctx, log, &evt)
	case eventSubscriptionCreated, eventSubscriptionUpdated, eventSubscriptionDeleted:
		res.Outcome, err = s.onSubscriptionChanged(ctx, log, &evt, res.Type == eventSubscriptionDeleted)
	default:
		res.Outcome = OutcomeIgnored
	}
	if err != nil {
		s.metrics.WebhookEvent(res.Type, "error")
		log.Error("webhook event failed", sl.Err(err))
		return res, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.WebhookEvent(res.Type, res.Outcome)
	log.Info("webhook event handled", slog.String("outcome", res.Outcome))
	return res, nil
}

func (s *Service) onCheckoutCompleted(ctx context.Context, log *slog.Logger, evt *stripe.Event) (string, error) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(evt.Data.Raw, &sess); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if sess.Mode != "" && string(sess.Mode) != checkoutModeSubscription {
		return OutcomeIgnored, nil
	}

	customerID := ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}
	email := sess.CustomerEmail
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		email = sess.CustomerDetails.Email
	}

	account, err := s.resolveAccount(ctx,
		byID(sess.Metadata[paymentprovider.MetadataAccountID]),
		byID(sess.ClientReferenceID),
		byCustomer(customerID),
		byEmail(email),
	)
	if err != nil {
		return "", err
	}
	if account == nil {
		log.Warn("checkout completed for unknown account", slog.String("customer_id", customerID))
		return OutcomeUnmatched, nil
	}

	sub := models.Subscription{Tier: models.TierUnlimited, StripeCustomerID: customerID}
	if sess.Subscription != nil {
		sub.StripeSubscriptionID = sess.Subscription.ID
	}
	return OutcomeApplied, s.applySubscription(ctx, log, evt.ID, account, sub)
}

func (s *Service) onSubscriptionChanged(ctx context.Context, log *slog.Logger, evt *stripe.Event, deleted bool) (string, error) {
	var subscription stripe.Subscription
	if err := json.Unmarshal(evt.Data.Raw, &subscription); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	customerID := ""
	if subscription.Customer != nil {
		customerID = subscription.Customer.ID
	}

	account, err := s.resolveAccount(ctx,
		byCustomer(customerID),
		byID(subscription.Metadata[paymentprovider.MetadataAccountID]),
	)
	if err != nil {
		return "", err
	}
	if account == nil {
		log.Warn("subscription change for unknown customer", slog.String("customer_id", customerID))
		return OutcomeUnmatched, nil
	}

	sub := models.Subscription{
		Tier:                 TierForStatus(subscription.Status, deleted),
		StripeCustomerID:     customerID,
		StripeSubscriptionID: subscription.ID,
	}
	return OutcomeApplied, s.applySubscription(ctx, log, evt.ID, account, sub)
}

// TierForStatus тариф для статуса подписки. Активная, пробная и просроченная
// подписки сохраняют безлимит, остальные статусы и удаление возвращают бесплатный тариф.
func TierForStatus(status stripe.SubscriptionStatus, deleted bool) models.Tier {
	if deleted {
		return models.TierFree
	}
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing, stripe.SubscriptionStatusPastDue:
		return models.TierUnlimited
	default:
		return models.TierFree
	}
}

// applySubscription записывает тариф и один раз на событие уведомляет о смене тарифа.
func (s *Service) applySubscription(ctx context.Context, log *slog.Logger, eventID string, account *models.Account, sub models.Subscription) error {
	if err := s.accounts.SetSubscription(ctx, account.ID, sub); err != nil {
		return err
	}
	log.Info("subscription tier applied",
		slog.String("account_id", account.ID),
		slog.String("from", string(account.Tier)),
		slog.String("to", string(sub.Tier)),
	)

	if account.Tier == sub.Tier || s.notifier == nil {
		return nil
	}
	first, err := s.events.MarkEventProcessed(ctx, eventID, eventTTL)
	if err != nil {
		log.Warn("event dedup unavailable, skipping notification", sl.Err(err))
		return nil
	}
	if !first {
		return nil
	}

	msg := notification.DowngradeEmail(account)
	if sub.Tier == models.TierUnlimited {
		msg = notification.UpgradeEmail(account)
	}
	if _, err := s.notifier.NotifyAccount(ctx, account, msg); err != nil {
		log.Warn("tier change notification failed", sl.Err(err))
	}
	return nil
}

type lookup func(ctx context.Context, accounts AccountStore) (*models.Account, error)

func byID(id string) lookup {
	return func(ctx context.Context, accounts AccountStore) (*models.Account, error) {
		if _, err := uuid.Parse(id); err != nil {
			return nil, nil
		}
		return accounts.GetAccountByID(ctx, id)
	}
}

func byCustomer(customerID string) lookup {
	return func(ctx context.Context, accounts AccountStore) (*models.Account, error) {
		if customerID == "" {
			return nil, nil
		}
		return accounts.GetAccountByStripeCustomer(ctx, customerID)
	}
}

func byEmail(email string) lookup {
	return func(ctx context.Context, accounts AccountStore) (*models.Account, error) {
		if email == "" {
			return nil, nil
		}
		return accounts.GetAccountByEmail(ctx, auth.NormalizeEmail(email))
	}
}

// resolveAccount пробует способы поиска по порядку. (nil, nil) значит, что аккаунт не найден.
func (s *Service) resolveAccount(ctx context.Context, lookups ...lookup) (*models.Account, error) {
	for _, find := range lookups {
		account, err := find(ctx, s.accounts)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if account != nil {
			return account, nil
		}
	}
	return nil, nil
}
