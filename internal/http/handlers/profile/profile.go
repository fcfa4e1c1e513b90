// Package profile реализует HTTP-обработчик профиля для панели пользователя.
// Ошибка загрузки не ломает панель: возвращаются значения по умолчанию.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hustlefinder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

// Response профиль. Degraded означает, что профиль не загрузился и показаны значения по умолчанию.
type Response struct {
	response.Response
	Profile  *models.Account `json:"profile"`
	Degraded bool            `json:"degraded"`
}

// Service описывает чтение профиля.
type Service interface {
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
}

// Handler обрабатывает запрос профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Возвращает профиль владельца токена. При сбое хранилища отдаёт бесплатный тариф и degraded=true.
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Router /api/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claims, ok := middlewarectx.ClaimsFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, http.StatusUnauthorized, "authorization required")
		return
	}

	account, err := h.service.GetAccountByID(r.Context(), claims.UserID)
	if err != nil {
		log.Warn("profile unavailable, serving defaults", sl.Err(err))
		render.JSON(w, r, Response{
			Response: response.OK(),
			Profile:  defaultProfile(claims.UserID, claims.Email),
			Degraded: true,
		})
		return
	}

	render.JSON(w, r, Response{Response: response.OK(), Profile: account})
}

func defaultProfile(id, email string) *models.Account {
	return &models.Account{
		ID:            id,
		Email:         email,
		Tier:          models.TierFree,
		Notifications: models.Notifications{Email: true},
	}
}
