package notification

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/services/auth"
)

// WelcomeOnSignUp отправляет приветственное письмо на каждое событие регистрации.
// Возвращается, когда канал закрыт или контекст отменён.
func (s *Service) WelcomeOnSignUp(ctx context.Context, events <-chan auth.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if e.Type != auth.EventSignedUp {
				continue
			}
			if _, err := s.Send(ctx, WelcomeEmail(e.Email, "")); err != nil {
				s.log.Warn("welcome email failed", slog.String("account_id", e.AccountID), sl.Err(err))
			}
		}
	}
}
