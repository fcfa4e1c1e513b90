// Package checkout реализует HTTP-обработчик создания сессии оплаты подписки.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hustlefinder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/services/billing"
)

// Response ссылка на страницу оплаты.
type Response struct {
	response.Response
	URL string `json:"url"`
}

// Service описывает создание сессии оплаты.
type Service interface {
	CreateCheckoutSession(ctx context.Context, accountID string) (string, error)
}

// Handler обрабатывает создание сессии оплаты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Оплата подписки
// @Description Создаёт сессию оплаты тарифа Unlimited и возвращает ссылку на неё.
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /api/create-checkout-session [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.checkout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claims, ok := middlewarectx.ClaimsFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, http.StatusUnauthorized, "authorization required")
		return
	}

	url, err := h.service.CreateCheckoutSession(r.Context(), claims.UserID)
	if errors.Is(err, billing.ErrNotConfigured) {
		log.Warn("checkout requested but billing is not configured")
		response.WriteError(w, r, http.StatusServiceUnavailable, "billing is not configured")
		return
	}
	if err != nil {
		log.Error("failed to create checkout session", sl.Err(err))
		response.WriteError(w, r, http.StatusBadGateway, "failed to create checkout session")
		return
	}

	log.Info("checkout session created")
	render.JSON(w, r, Response{Response: response.OK(), URL: url})
}
