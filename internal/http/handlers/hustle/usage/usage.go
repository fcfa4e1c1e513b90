// Package usage реализует HTTP-обработчик состояния квоты генераций.
package usage

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hustlefinder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/services/quota"
)

// Response состояние квоты.
type Response struct {
	response.Response
	Usage quota.Status `json:"usage"`
}

// Service описывает чтение квоты.
type Service interface {
	Usage(ctx context.Context, id quota.Identity) (quota.Status, error)
}

// Handler обрабатывает запрос состояния квоты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Остаток генераций
// @Description Возвращает использованные и оставшиеся генерации и число дней до сброса.
// @Tags Hustles
// @Produce json
// @Param X-Device-ID header string false "Идентификатор устройства"
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /api/usage [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.hustle.usage"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		id = quota.AnonymousIdentity("ip:" + middlewarectx.ClientIP(r))
	}

	st, err := h.service.Usage(r.Context(), id)
	if err != nil {
		log.Error("failed to load usage", sl.Err(err))
		response.WriteError(w, r, http.StatusServiceUnavailable, "usage check unavailable, please try again")
		return
	}

	render.JSON(w, r, Response{Response: response.OK(), Usage: st})
}
