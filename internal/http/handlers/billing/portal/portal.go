// Package portal реализует HTTP-обработчик перехода в портал управления подпиской.
package portal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hustlefinder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/services/billing"
)

const maxBodyBytes = 4 << 10

// Request необязательный адрес возврата из портала.
type Request struct {
	ReturnURL string `json:"returnUrl,omitempty"`
}

// Response ссылка на портал.
type Response struct {
	response.Response
	URL string `json:"url"`
}

// Service описывает создание сессии портала.
type Service interface {
	CreatePortalSession(ctx context.Context, accountID, returnURL string) (string, error)
}

// Handler обрабатывает создание сессии портала.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Портал подписки
// @Description Возвращает ссылку на портал управления подпиской. Нужен покупатель, созданный при оплате.
// @Tags Billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request false "Адрес возврата"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /api/create-portal-session [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.portal"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claims, ok := middlewarectx.ClaimsFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, http.StatusUnauthorized, "authorization required")
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	url, err := h.service.CreatePortalSession(r.Context(), claims.UserID, req.ReturnURL)
	switch {
	case errors.Is(err, billing.ErrNotConfigured):
		response.WriteError(w, r, http.StatusServiceUnavailable, "billing is not configured")
		return
	case errors.Is(err, billing.ErrNoCustomer):
		response.WriteError(w, r, http.StatusBadRequest, "no subscription to manage")
		return
	case err != nil:
		log.Error("failed to create portal session", sl.Err(err))
		response.WriteError(w, r, http.StatusBadGateway, "failed to create portal session")
		return
	}

	render.JSON(w, r, Response{Response: response.OK(), URL: url})
}
