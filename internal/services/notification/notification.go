// Package notification доставляет письма пользователям: через очередь RabbitMQ,
// напрямую по SMTP или никак, если почта не настроена.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/metrics"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

// ErrEmptyRecipient у письма нет адресата.
var ErrEmptyRecipient = errors.New("email has no recipient")

// Исходы доставки для логов и метрик.
const (
	OutcomeQueued   = "queued"
	OutcomeSent     = "sent"
	OutcomeSkipped  = "skipped"
	OutcomeOptedOut = "opted_out"
	OutcomeFailed   = "failed"
)

// Publisher кладёт сообщение в очередь писем.
type Publisher interface {
	Publish(ctx context.Context, message any) error
}

// Mailer отправляет письмо синхронно.
type Mailer interface {
	Send(msg models.Email) error
}

// Service выбирает способ доставки. Очередь имеет приоритет над прямой отправкой.
type Service struct {
	log       *slog.Logger
	publisher Publisher
	mailer    Mailer
	metrics   *metrics.Metrics
}

// New создаёт Service. publisher и mailer могут быть nil.
func New(log *slog.Logger, publisher Publisher, mailer Mailer, m *metrics.Metrics) *Service {
	return &Service{
		log:       log,
		publisher: publisher,
		mailer:    mailer,
		metrics:   m,
	}
}

// Configured сообщает, есть ли хоть один способ доставки.
func (s *Service) Configured() bool {
	return s.publisher != nil || s.mailer != nil
}

// Send доставляет письмо. skipped == true, если почта не настроена и письмо отброшено.
func (s *Service) Send(ctx context.Context, msg models.Email) (bool, error) {
	const op = "notification.Send"
	log := s.log.With(sl.Op(op))

	msg.To = strings.TrimSpace(msg.To)
	if msg.To == "" {
		return false, fmt.Errorf("%s: %w", op, ErrEmptyRecipient)
	}

	switch {
	case s.publisher != nil:
		if err := s.publisher.Publish(ctx, msg); err != nil {
			s.metrics.Notification(OutcomeFailed)
			log.Error("failed to queue email", sl.Err(err))
			return false, fmt.Errorf("%s: %w", op, err)
		}
		s.metrics.Notification(OutcomeQueued)
		log.Debug("email queued", slog.String("subject", msg.Subject))
		return false, nil
	case s.mailer != nil:
		if err := s.mailer.Send(msg); err != nil {
			s.metrics.Notification(OutcomeFailed)
			log.Error("failed to send email", sl.Err(err))
			return false, fmt.Errorf("%s: %w", op, err)
		}
		s.metrics.Notification(OutcomeSent)
		log.Debug("email sent", slog.String("subject", msg.Subject))
		return false, nil
	default:
		s.metrics.Notification(OutcomeSkipped)
		log.Info("email provider not configured, skipping", slog.String("subject", msg.Subject))
		return true, nil
	}
}

// NotifyAccount отправляет письмо владельцу аккаунта с учётом его настройки email-уведомлений.
func (s *Service) NotifyAccount(ctx context.Context, account *models.Account, msg models.Email) (bool, error) {
	if account == nil || !account.Notifications.Email {
		s.metrics.Notification(OutcomeOptedOut)
		return true, nil
	}
	msg.To = account.Email
	return s.Send(ctx, msg)
}
