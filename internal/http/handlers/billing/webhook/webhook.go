// Package webhook реализует HTTP-обработчик вебхука платёжного провайдера.
// Авторизации по токену нет: запрос проверяется по подписи.
package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/services/billing"
)

// SignatureHeader заголовок подписи события.
const SignatureHeader = "Stripe-Signature"

const maxBodyBytes = 64 << 10

// Response итог обработки события.
type Response struct {
	response.Response
	Received bool   `json:"received"`
	Outcome  string `json:"outcome"`
}

// Service описывает обработку события.
type Service interface {
	HandleWebhook(ctx context.Context, payload []byte, header string) (billing.WebhookResult, error)
}

// Handler обрабатывает вебхук.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Вебхук платежей
// @Description Проверяет подпись события и применяет изменение тарифа. Повторная доставка безопасна.
// @Tags Billing
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Подпись события"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /api/stripe-webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get(SignatureHeader))
	switch {
	case errors.Is(err, billing.ErrInvalidSignature):
		log.Warn("webhook signature rejected", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid signature")
		return
	case errors.Is(err, billing.ErrInvalidPayload):
		log.Warn("webhook payload rejected", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid payload")
		return
	case errors.Is(err, billing.ErrNotConfigured):
		log.Warn("webhook received but billing is not configured")
		response.WriteError(w, r, http.StatusServiceUnavailable, "billing is not configured")
		return
	case err != nil:
		// 5xx заставляет провайдера повторить доставку
		log.Error("webhook processing failed", slog.String("event_id", res.EventID), sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "webhook processing failed")
		return
	}

	log.Info("webhook processed",
		slog.String("event_id", res.EventID),
		slog.String("type", res.Type),
		slog.String("outcome", res.Outcome),
	)
	render.JSON(w, r, Response{Response: response.OK(), Received: true, Outcome: res.Outcome})
}
