// Package db реализует обработчики /api/db/select, /api/db/update и /api/db/upsert.
//
// Набор операций закрыт: профиль пользователя (user_profiles) и результаты по
// идеям (hustle_outcomes). Все операции выполняются только над данными
// владельца bearer-токена, идентификатор аккаунта из тела запроса не принимается.
package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/hustlefinder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/jwt"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

// Таблицы, доступные через обработчики.
const (
	TableProfiles = "user_profiles"
	TableOutcomes = "hustle_outcomes"
)

const maxBodyBytes = 16 << 10

var errUnsupported = errors.New("unsupported operation")

// Store операции хранилища, доступные обработчикам.
type Store interface {
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.Account, error)
	UpsertOutcome(ctx context.Context, o models.Outcome) (*models.Outcome, error)
	ListOutcomes(ctx context.Context, userID, hustleName string) ([]*models.Outcome, error)
}

// Request общий вид запроса: таблица, фильтр для выборки и значения для записи.
type Request struct {
	Table  string          `json:"table" validate:"required"`
	Filter json.RawMessage `json:"filter,omitempty" swaggertype:"object"`
	Values json.RawMessage `json:"values,omitempty" swaggertype:"object"`
}

type base struct {
	log      *slog.Logger
	store    Store
	validate *validator.Validate
}

func newBase(log *slog.Logger, store Store) base {
	return base{log: log, store: store, validate: validator.New()}
}

// readRequest разбирает тело запроса, отклоняя неизвестные поля.
func (b base) readRequest(w http.ResponseWriter, r *http.Request) (Request, *jwt.Claims, bool) {
	claims, ok := middlewarectx.ClaimsFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, http.StatusUnauthorized, "authorization required")
		return Request{}, nil, false
	}

	var req Request
	if err := decodeStrict(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return Request{}, nil, false
	}
	if err := b.validate.Struct(req); err != nil {
		response.WriteValidationError(w, r, err)
		return Request{}, nil, false
	}
	return req, claims, true
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}

// decodeRaw разбирает вложенный объект. Пустой объект допустим.
func decodeRaw(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return decodeStrict(bytes.NewReader(raw), v)
}
