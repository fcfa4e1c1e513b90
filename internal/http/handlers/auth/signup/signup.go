// Package signup реализует HTTP-обработчик регистрации аккаунта.
//
// Регистрация не открывает сессию: клиент входит отдельным запросом.
// Причина отказа (занятый email) не раскрывается, чтобы нельзя было перебирать адреса.
package signup

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
	"github.com/magabrotheeeer/hustlefinder/internal/services/auth"
)

// Request входные данные для регистрации.
type Request struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,max=72"`
	DisplayName string `json:"displayName" validate:"max=100"`
}

// Response созданный аккаунт.
type Response struct {
	response.Response
	User *models.Account `json:"user"`
}

// Service описывает интерфейс регистрации.
type Service interface {
	SignUp(ctx context.Context, email, password, displayName string) (*models.Account, error)
}

// Handler обрабатывает регистрацию.
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
// @Summary Регистрация
// @Description Создаёт аккаунт. Сессия не выдаётся.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Данные аккаунта"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/auth/sign-up [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.WriteValidationError(w, r, err)
		return
	}

	account, err := h.service.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		response.WriteError(w, r, http.StatusBadRequest, "password must be at least 8 characters")
		return
	case errors.Is(err, auth.ErrSignUpRejected):
		log.Info("sign up rejected")
		response.WriteError(w, r, http.StatusBadRequest, "unable to create account")
		return
	case err != nil:
		log.Error("sign up failed", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "failed to create account")
		return
	}

	log.Info("account created", slog.String("account_id", account.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{Response: response.OK(), User: account})
}
