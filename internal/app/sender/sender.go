// Package sender собирает процесс, который читает очередь писем и отправляет их через SMTP.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/hustlefinder/internal/config"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/smtp"
	"github.com/magabrotheeeer/hustlefinder/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/hustlefinder/internal/services/sender"
)

// ErrNotConfigured не задан адрес очереди или SMTP-сервер.
var ErrNotConfigured = errors.New("rabbitmq url and smtp host are required")

// App потребитель очереди писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключается к RabbitMQ и готовит SMTP-транспорт.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.sender.New"

	if cfg.RabbitMQURL == "" || !cfg.MailConfigured() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.New(logger, transport),
		logger:        logger,
	}, nil
}

// Run обрабатывает очередь до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.QueueEmail, a.senderService.HandleDelivery)
	if err != nil {
		a.logger.Error("failed to start email queue consumer", sl.Err(err))
		return err
	}
	a.logger.Info("consuming email queue", slog.String("queue", rabbitmq.QueueEmail))

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
