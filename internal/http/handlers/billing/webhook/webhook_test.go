package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/hustlefinder/internal/services/billing"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) HandleWebhook(ctx context.Context, payload []byte, header string) (billing.WebhookResult, error) {
	args := m.Called(ctx, payload, header)
	return args.Get(0).(billing.WebhookResult), args.Error(1)
}

func TestWebhookHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	payload := `{"id":"evt_1","type":"checkout.session.completed"}`

	tests := []struct {
		name       string
		result     billing.WebhookResult
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "applied",
			result:     billing.WebhookResult{EventID: "evt_1", Type: "checkout.session.completed", Outcome: billing.OutcomeApplied},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"OK","received":true,"outcome":"applied"}`,
		},
		{
			name:       "ignored event still acknowledged",
			result:     billing.WebhookResult{EventID: "evt_1", Type: "invoice.paid", Outcome: billing.OutcomeIgnored},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"OK","received":true,"outcome":"ignored"}`,
		},
		{
			name:       "bad signature",
			err:        fmt.Errorf("billing.HandleWebhook: %w", billing.ErrInvalidSignature),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"Error","error":"invalid signature"}`,
		},
		{
			name:       "bad payload",
			err:        billing.ErrInvalidPayload,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"Error","error":"invalid payload"}`,
		},
		{
			name:       "not configured",
			err:        billing.ErrNotConfigured,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"Error","error":"billing is not configured"}`,
		},
		{
			name:       "store failure asks for redelivery",
			err:        errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"status":"Error","error":"webhook processing failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("HandleWebhook", mock.Anything, []byte(payload), "t=1,v1=abc").Return(tt.result, tt.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/api/stripe-webhook", bytes.NewBufferString(payload))
			req.Header.Set(SignatureHeader, "t=1,v1=abc")
			rec := httptest.NewRecorder()
			New(log, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}

	t.Run("oversized body", func(t *testing.T) {
		svc := new(ServiceMock)
		body := strings.Repeat("a", maxBodyBytes+1)
		rec := httptest.NewRecorder()
		New(log, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stripe-webhook", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "HandleWebhook", mock.Anything, mock.Anything, mock.Anything)
	})
}
