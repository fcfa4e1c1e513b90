// Package signout реализует HTTP-обработчик выхода. Выход без токена
// или с недействительным токеном считается успешным.
package signout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hustlefinder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
)

// Service описывает интерфейс выхода.
type Service interface {
	SignOut(ctx context.Context, token string) error
}

// Handler обрабатывает выход.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse
// @Router /api/auth/sign-out [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if token := middlewarectx.BearerToken(r); token != "" {
		if err := h.service.SignOut(r.Context(), token); err != nil {
			log.Error("sign out failed", sl.Err(err))
			response.WriteError(w, r, http.StatusInternalServerError, "failed to sign out")
			return
		}
	}

	render.JSON(w, r, response.OK())
}
