// Package sendemail реализует HTTP-обработчик отправки письма владельцу токена.
// Если почта не настроена, письмо пропускается без ошибки.
package sendemail

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/hustlefinder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

const maxBodyBytes = 32 << 10

// Request тема и текст письма. Адресат всегда владелец токена.
type Request struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"body" validate:"required,max=20000"`
}

// Response результат отправки.
type Response struct {
	response.Response
	Skipped bool `json:"skipped"`
}

// Service описывает отправку письма.
type Service interface {
	Send(ctx context.Context, msg models.Email) (bool, error)
}

// Handler обрабатывает отправку письма.
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
// @Summary Отправка письма
// @Description Ставит письмо владельцу токена в очередь или отправляет его. Без настроенной почты возвращает skipped=true.
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Тема и текст"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /api/send-email [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notify.sendemail"

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
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.WriteValidationError(w, r, err)
		return
	}

	skipped, err := h.service.Send(r.Context(), models.Email{
		To:      claims.Email,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		log.Error("failed to send email", sl.Err(err))
		response.WriteError(w, r, http.StatusBadGateway, "failed to send email")
		return
	}

	render.JSON(w, r, Response{Response: response.OK(), Skipped: skipped})
}
