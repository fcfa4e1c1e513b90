package db

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/storage/repository"
)

// OutcomeFilter фильтр выборки результатов.
type OutcomeFilter struct {
	HustleName string `json:"hustle_name" validate:"max=200"`
}

// SelectHandler выборка строк владельца токена.
type SelectHandler struct {
	base
}

// NewSelect создает SelectHandler.
func NewSelect(log *slog.Logger, store Store) *SelectHandler {
	return &SelectHandler{base: newBase(log, store)}
}

// ServeHTTP godoc
// @Summary Выборка данных пользователя
// @Description Возвращает профиль (user_profiles) или результаты по идеям (hustle_outcomes) владельца токена.
// @Tags DB
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Таблица и фильтр"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/db/select [post]
func (h *SelectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.db.select"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	req, claims, ok := h.readRequest(w, r)
	if !ok {
		return
	}
	log = log.With(slog.String("table", req.Table))

	var (
		rows any
		err  error
	)
	switch req.Table {
	case TableProfiles:
		// профиль выбирается только целиком, фильтр должен быть пустым
		if decodeRaw(req.Filter, &struct{}{}) != nil {
			err = errUnsupported
			break
		}
		account, getErr := h.store.GetAccountByID(r.Context(), claims.UserID)
		switch {
		case errors.Is(getErr, repository.ErrNotFound):
			rows = []any{}
		case getErr != nil:
			err = getErr
		default:
			rows = []any{account}
		}
	case TableOutcomes:
		var f OutcomeFilter
		if err = decodeRaw(req.Filter, &f); err != nil {
			err = errUnsupported
			break
		}
		if err = h.validate.Struct(f); err != nil {
			response.WriteValidationError(w, r, err)
			return
		}
		rows, err = h.store.ListOutcomes(r.Context(), claims.UserID, f.HustleName)
	default:
		err = errUnsupported
	}

	if errors.Is(err, errUnsupported) {
		log.Info("unsupported select")
		response.WriteError(w, r, http.StatusBadRequest, errUnsupported.Error())
		return
	}
	if err != nil {
		log.Error("select failed", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "failed to load data")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(rows))
}
