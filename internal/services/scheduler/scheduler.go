// Package scheduler периодически рассылает еженедельные советы подписанным аккаунтам.
// Повторная отправка за ту же неделю отсекается по отметке в Redis, поэтому
// планировщик можно запускать на нескольких экземплярах API.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
	"github.com/magabrotheeeer/hustlefinder/internal/services/notification"
)

const (
	// DefaultInterval период проверки.
	DefaultInterval = 12 * time.Hour
	markTTL         = 8 * 24 * time.Hour
)

// Tips советы по кругу, номер недели выбирает совет.
var Tips = []string{
	"Start with the skills you already have. Your first customers are often people who already know your work.",
	"Price by outcome, not by hour. Clients pay for the result they get.",
	"Track every hour and every dollar for a month before deciding whether a hustle is worth scaling.",
	"Ask your first three customers for a short testimonial. Social proof sells the next ten.",
	"Block the same two hours every week for your side hustle. Consistency beats bursts of effort.",
	"Keep startup costs low until someone has paid you. Validate demand before buying tools.",
}

// RecipientRepository источник адресатов.
type RecipientRepository interface {
	ListDigestRecipients(ctx context.Context) ([]*models.Account, error)
}

// SentLog отметки об отправке за период.
type SentLog interface {
	MarkDigestSent(ctx context.Context, accountID, period string, ttl time.Duration) (bool, error)
}

// Notifier отправка письма аккаунту с учётом его настроек.
type Notifier interface {
	NotifyAccount(ctx context.Context, account *models.Account, msg models.Email) (bool, error)
}

// Service рассылка советов.
type Service struct {
	repo     RecipientRepository
	sent     SentLog
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// New создаёт Service.
func New(repo RecipientRepository, sent SentLog, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		sent:     sent,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Run выполняет рассылку сразу и затем с периодом interval до отмены контекста.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s.SendWeeklyTips(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SendWeeklyTips(ctx)
		}
	}
}

// SendWeeklyTips отправляет совет недели всем подписанным, кому он ещё не уходил.
// Возвращает число отправленных писем.
func (s *Service) SendWeeklyTips(ctx context.Context) int {
	const op = "scheduler.SendWeeklyTips"
	log := s.log.With(sl.Op(op))

	recipients, err := s.repo.ListDigestRecipients(ctx)
	if err != nil {
		log.Error("failed to list digest recipients", sl.Err(err))
		return 0
	}
	if len(recipients) == 0 {
		log.Debug("no digest recipients")
		return 0
	}

	period, tip := s.currentTip()
	sent := 0
	for _, account := range recipients {
		first, err := s.sent.MarkDigestSent(ctx, account.ID, period, markTTL)
		if err != nil {
			log.Error("failed to mark digest", slog.String("account_id", account.ID), sl.Err(err))
			continue
		}
		if !first {
			continue
		}
		skipped, err := s.notifier.NotifyAccount(ctx, account, notification.WeeklyTipsEmail(account, tip))
		if err != nil {
			log.Error("failed to send weekly tip", slog.String("account_id", account.ID), sl.Err(err))
			continue
		}
		if !skipped {
			sent++
		}
	}
	log.Info("weekly tips processed", slog.String("period", period), slog.Int("recipients", len(recipients)), slog.Int("sent", sent))
	return sent
}

func (s *Service) currentTip() (string, string) {
	year, week := s.now().UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week), Tips[week%len(Tips)]
}
