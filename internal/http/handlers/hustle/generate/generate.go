// Package generate реализует HTTP-обработчик генерации идей подработки.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/hustlefinder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
	"github.com/magabrotheeeer/hustlefinder/internal/services/generation"
	"github.com/magabrotheeeer/hustlefinder/internal/services/hustle"
	"github.com/magabrotheeeer/hustlefinder/internal/services/quota"
)

const maxBodyBytes = 8 << 10

// Response три идеи и состояние квоты после запроса.
type Response struct {
	response.Response
	Hustles  []models.Idea `json:"hustles"`
	Provider string        `json:"provider"`
	Fallback bool          `json:"fallback"`
	Usage    quota.Status  `json:"usage"`
}

// LimitResponse ответ при исчерпанном лимите.
type LimitResponse struct {
	response.ErrorResponse
	Usage quota.Status `json:"usage"`
}

// Service описывает сценарий генерации.
type Service interface {
	Generate(ctx context.Context, id quota.Identity, profile models.HustleProfile) (hustle.Result, error)
}

// Handler обрабатывает генерацию идей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Генерация идей
// @Description Проверяет лимит, генерирует ровно три идеи и учитывает генерацию.
// @Description Без токена квота считается по заголовку X-Device-ID или по IP.
// @Tags Hustles
// @Accept json
// @Produce json
// @Param request body models.HustleProfile true "Интерес, бюджет и время"
// @Param X-Device-ID header string false "Идентификатор устройства"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 429 {object} LimitResponse
// @Failure 502 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /api/generate-hustles [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.hustle.generate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		id = quota.AnonymousIdentity("ip:" + middlewarectx.ClientIP(r))
	}

	var profile models.HustleProfile
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&profile); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(profile); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.WriteValidationError(w, r, err)
		return
	}
	if msg := missingCustom(profile); msg != "" {
		response.WriteError(w, r, http.StatusBadRequest, msg)
		return
	}

	res, err := h.service.Generate(r.Context(), id, profile)
	if err != nil {
		h.writeError(w, r, log, res, err)
		return
	}

	log.Info("ideas generated",
		slog.String("provider", res.Provider),
		slog.Bool("fallback", res.Fallback),
		slog.String("identity", id.Kind.String()),
	)
	render.JSON(w, r, Response{
		Response: response.OK(),
		Hustles:  res.Ideas,
		Provider: res.Provider,
		Fallback: res.Fallback,
		Usage:    res.Usage,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, res hustle.Result, err error) {
	var genErr *generation.Error
	switch {
	case errors.Is(err, quota.ErrLimitReached):
		render.Status(r, http.StatusTooManyRequests)
		render.JSON(w, r, LimitResponse{
			ErrorResponse: response.Error("generation limit reached"),
			Usage:         res.Usage,
		})
	case errors.Is(err, hustle.ErrQuotaUnavailable):
		response.WriteError(w, r, http.StatusServiceUnavailable, "usage check unavailable, please try again")
	case errors.As(err, &genErr):
		log.Error("generation failed", slog.String("kind", genErr.Kind.String()), sl.Err(err))
		status := http.StatusBadGateway
		if genErr.Kind == generation.KindNotConfigured {
			status = http.StatusServiceUnavailable
		}
		response.WriteError(w, r, status, genErr.UserMessage())
	default:
		log.Error("generation failed", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "failed to generate ideas")
	}
}

// missingCustom проверяет, что для варианта "Custom" передан свободный текст.
func missingCustom(p models.HustleProfile) string {
	checks := []struct {
		choice, custom, field string
	}{
		{p.Interest, p.CustomInterest, "customInterest"},
		{p.Budget, p.CustomBudget, "customBudget"},
		{p.Time, p.CustomTime, "customTime"},
	}
	for _, c := range checks {
		if c.choice == models.CustomOption && strings.TrimSpace(c.custom) == "" {
			return "field " + c.field + " is required when Custom is selected"
		}
	}
	return ""
}
