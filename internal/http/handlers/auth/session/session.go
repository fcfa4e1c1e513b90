// Package session реализует HTTP-обработчик проверки текущей сессии.
// Если срок токена подходит к концу, в ответе приходит новый токен.
package session

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
	"github.com/magabrotheeeer/hustlefinder/internal/services/auth"
)

// Response текущая сессия.
type Response struct {
	response.Response
	Session auth.Session `json:"session"`
}

// Service описывает интерфейс проверки сессии.
type Service interface {
	Session(ctx context.Context, token string) (auth.Session, error)
}

// Handler обрабатывает проверку сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущая сессия
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/auth/session [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.session"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := middlewarectx.BearerToken(r)
	if token == "" {
		response.WriteError(w, r, http.StatusUnauthorized, "authorization required")
		return
	}

	session, err := h.service.Session(r.Context(), token)
	if errors.Is(err, auth.ErrInvalidSession) {
		response.WriteError(w, r, http.StatusUnauthorized, "invalid or expired session")
		return
	}
	if err != nil {
		log.Error("session check failed", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "failed to check session")
		return
	}

	if session.Refreshed {
		log.Info("session refreshed", slog.String("account_id", session.Account.ID))
	}
	render.JSON(w, r, Response{Response: response.OK(), Session: session})
}
