package sender

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hustlefinder/internal/config"
)

func TestNew_RequiresQueueAndSMTP(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{name: "nothing configured"},
		{name: "queue only", cfg: config.Config{RabbitMQ: config.RabbitMQ{RabbitMQURL: "amqp://localhost"}}},
		{name: "smtp only", cfg: config.Config{SMTP: config.SMTP{SMTPHost: "smtp.example.com"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := New(&tt.cfg, log)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotConfigured)
			assert.Nil(t, app)
		})
	}
}
