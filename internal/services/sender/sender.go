// Package sender доставляет письма уведомлений через SMTP.
package sender

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/smtp"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

// ErrEmptyRecipient у письма нет адресата.
var ErrEmptyRecipient = errors.New("email has no recipient")

// Service отправляет письма через SMTP-транспорт.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, transport smtp.TransportInterface) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// HandleDelivery разбирает сообщение из очереди и отправляет письмо.
func (s *Service) HandleDelivery(body []byte) error {
	const op = "sender.HandleDelivery"

	var msg models.Email
	if err := json.Unmarshal(body, &msg); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Op(op), sl.Err(err))
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}
	return s.Send(msg)
}

// Send отправляет одно письмо.
func (s *Service) Send(msg models.Email) error {
	const op = "sender.Send"
	log := s.log.With(sl.Op(op), slog.String("to", msg.To))

	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyRecipient)
	}

	from := s.transport.GetSMTPUser()
	raw := strings.Join([]string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		msg.Body,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		log.Error("failed to connect to SMTP server", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = client.Close()
	}()

	if err = client.Mail(from); err != nil {
		log.Error("failed to set MAIL FROM", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = client.Rcpt(msg.To); err != nil {
		log.Error("failed to set RCPT TO", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	wc, err := client.Data()
	if err != nil {
		log.Error("failed to get data writer", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = wc.Write([]byte(raw)); err != nil {
		log.Error("failed to write email body", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = wc.Close(); err != nil {
		log.Error("failed to close data writer", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = client.Quit(); err != nil {
		log.Error("failed to quit SMTP client", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("email sent")
	return nil
}
