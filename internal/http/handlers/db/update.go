package db

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
	"github.com/magabrotheeeer/hustlefinder/internal/storage/repository"
)

// ProfileValues изменяемые поля профиля. Отсутствующее поле не меняется.
type ProfileValues struct {
	DisplayName   *string               `json:"display_name" validate:"omitempty,max=100"`
	Notifications *models.Notifications `json:"notifications"`
}

// UpdateHandler изменение профиля владельца токена.
type UpdateHandler struct {
	base
}

// NewUpdate создает UpdateHandler.
func NewUpdate(log *slog.Logger, store Store) *UpdateHandler {
	return &UpdateHandler{base: newBase(log, store)}
}

// ServeHTTP godoc
// @Summary Изменение профиля
// @Description Меняет отображаемое имя и настройки уведомлений. Поддерживается только user_profiles.
// @Tags DB
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Таблица и значения"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/db/update [post]
func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.db.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	req, claims, ok := h.readRequest(w, r)
	if !ok {
		return
	}

	var values ProfileValues
	if req.Table != TableProfiles || decodeRaw(req.Values, &values) != nil {
		log.Info("unsupported update", slog.String("table", req.Table))
		response.WriteError(w, r, http.StatusBadRequest, errUnsupported.Error())
		return
	}
	if err := h.validate.Struct(values); err != nil {
		response.WriteValidationError(w, r, err)
		return
	}

	account, err := h.store.UpdateProfile(r.Context(), claims.UserID, models.ProfileUpdate{
		DisplayName:   values.DisplayName,
		Notifications: values.Notifications,
	})
	if errors.Is(err, repository.ErrNotFound) {
		response.WriteError(w, r, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		log.Error("update failed", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "failed to update profile")
		return
	}

	log.Info("profile updated")
	render.JSON(w, r, response.StatusOKWithData([]any{account}))
}
