package db

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

// OutcomeValues запись результата по идее.
type OutcomeValues struct {
	HustleName string  `json:"hustle_name" validate:"required,max=200"`
	Action     string  `json:"action" validate:"max=100"`
	Launched   bool    `json:"launched"`
	Revenue    float64 `json:"revenue" validate:"min=0"`
	Feedback   string  `json:"feedback" validate:"max=2000"`
}

// UpsertHandler запись результата по идее.
type UpsertHandler struct {
	base
}

// NewUpsert создает UpsertHandler.
func NewUpsert(log *slog.Logger, store Store) *UpsertHandler {
	return &UpsertHandler{base: newBase(log, store)}
}

// ServeHTTP godoc
// @Summary Запись результата по идее
// @Description Создаёт или перезаписывает строку hustle_outcomes по паре (пользователь, идея).
// @Tags DB
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Таблица и значения"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/db/upsert [post]
func (h *UpsertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.db.upsert"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	req, claims, ok := h.readRequest(w, r)
	if !ok {
		return
	}

	var values OutcomeValues
	if req.Table != TableOutcomes || decodeRaw(req.Values, &values) != nil {
		log.Info("unsupported upsert", slog.String("table", req.Table))
		response.WriteError(w, r, http.StatusBadRequest, errUnsupported.Error())
		return
	}
	if err := h.validate.Struct(values); err != nil {
		response.WriteValidationError(w, r, err)
		return
	}

	outcome, err := h.store.UpsertOutcome(r.Context(), models.Outcome{
		UserID:     claims.UserID,
		HustleName: values.HustleName,
		Action:     values.Action,
		Launched:   values.Launched,
		Revenue:    values.Revenue,
		Feedback:   values.Feedback,
	})
	if err != nil {
		log.Error("upsert failed", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "failed to save outcome")
		return
	}

	render.JSON(w, r, response.StatusOKWithData([]any{outcome}))
}
