package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hustlefinder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/jwt"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
	"github.com/magabrotheeeer/hustlefinder/internal/storage/repository"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *StoreMock) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.Account, error) {
	args := m.Called(ctx, id, upd)
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *StoreMock) UpsertOutcome(ctx context.Context, o models.Outcome) (*models.Outcome, error) {
	args := m.Called(ctx, o)
	out, _ := args.Get(0).(*models.Outcome)
	return out, args.Error(1)
}

func (m *StoreMock) ListOutcomes(ctx context.Context, userID, hustleName string) ([]*models.Outcome, error) {
	args := m.Called(ctx, userID, hustleName)
	out, _ := args.Get(0).([]*models.Outcome)
	return out, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(t *testing.T, h http.Handler, body string, authed bool) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/db", bytes.NewBufferString(body))
	if authed {
		claims := &jwt.Claims{UserID: "acc-1", Email: "a@example.com"}
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.ClaimsKey, claims))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return rec, got
}

func TestSelectHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		authed     bool
		setup      func(m *StoreMock)
		wantStatus int
		wantRows   int
		wantError  string
	}{
		{
			name:       "requires token",
			body:       `{"table":"user_profiles"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "own profile",
			body:   `{"table":"user_profiles"}`,
			authed: true,
			setup: func(m *StoreMock) {
				m.On("GetAccountByID", mock.Anything, "acc-1").
					Return(&models.Account{ID: "acc-1", Tier: models.TierFree}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantRows:   1,
		},
		{
			name:   "missing profile yields empty rows",
			body:   `{"table":"user_profiles"}`,
			authed: true,
			setup: func(m *StoreMock) {
				m.On("GetAccountByID", mock.Anything, "acc-1").Return(nil, repository.ErrNotFound).Once()
			},
			wantStatus: http.StatusOK,
			wantRows:   0,
		},
		{
			name:       "profile filter by another id is rejected",
			body:       `{"table":"user_profiles","filter":{"id":"acc-2"}}`,
			authed:     true,
			wantStatus: http.StatusBadRequest,
			wantError:  "unsupported operation",
		},
		{
			name:   "outcomes filtered by name",
			body:   `{"table":"hustle_outcomes","filter":{"hustle_name":"Pet sitting"}}`,
			authed: true,
			setup: func(m *StoreMock) {
				m.On("ListOutcomes", mock.Anything, "acc-1", "Pet sitting").Return([]*models.Outcome{
					{UserID: "acc-1", HustleName: "Pet sitting"},
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantRows:   1,
		},
		{
			name:       "outcome filter by user is rejected",
			body:       `{"table":"hustle_outcomes","filter":{"user_id":"acc-2"}}`,
			authed:     true,
			wantStatus: http.StatusBadRequest,
			wantError:  "unsupported operation",
		},
		{
			name:       "unknown table",
			body:       `{"table":"payments"}`,
			authed:     true,
			wantStatus: http.StatusBadRequest,
			wantError:  "unsupported operation",
		},
		{
			name:       "unknown top-level field",
			body:       `{"table":"user_profiles","where":"1=1"}`,
			authed:     true,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:   "store failure",
			body:   `{"table":"hustle_outcomes"}`,
			authed: true,
			setup: func(m *StoreMock) {
				m.On("ListOutcomes", mock.Anything, "acc-1", "").Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "failed to load data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(StoreMock)
			if tt.setup != nil {
				tt.setup(store)
			}

			rec, got := serve(t, NewSelect(newNoopLogger(), store), tt.body, tt.authed)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantStatus == http.StatusOK {
				rows, ok := got["data"].([]any)
				require.True(t, ok)
				assert.Len(t, rows, tt.wantRows)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestUpdateHandler(t *testing.T) {
	t.Run("updates own profile", func(t *testing.T) {
		store := new(StoreMock)
		name := "Sam"
		store.On("UpdateProfile", mock.Anything, "acc-1", models.ProfileUpdate{
			DisplayName:   &name,
			Notifications: &models.Notifications{Email: false, WeeklyTips: true},
		}).Return(&models.Account{ID: "acc-1", DisplayName: "Sam"}, nil).Once()

		rec, got := serve(t, NewUpdate(newNoopLogger(), store),
			`{"table":"user_profiles","values":{"display_name":"Sam","notifications":{"email":false,"weekly_tips":true}}}`, true)

		assert.Equal(t, http.StatusOK, rec.Code)
		rows := got["data"].([]any)
		assert.Equal(t, "Sam", rows[0].(map[string]any)["display_name"])
		store.AssertExpectations(t)
	})

	t.Run("tier cannot be written", func(t *testing.T) {
		store := new(StoreMock)
		rec, got := serve(t, NewUpdate(newNoopLogger(), store),
			`{"table":"user_profiles","values":{"tier":"unlimited"}}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "unsupported operation", got["error"])
		store.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("outcomes are not updatable", func(t *testing.T) {
		store := new(StoreMock)
		rec, _ := serve(t, NewUpdate(newNoopLogger(), store),
			`{"table":"hustle_outcomes","values":{"hustle_name":"x"}}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("profile missing", func(t *testing.T) {
		store := new(StoreMock)
		store.On("UpdateProfile", mock.Anything, "acc-1", mock.Anything).Return(nil, repository.ErrNotFound).Once()

		rec, _ := serve(t, NewUpdate(newNoopLogger(), store), `{"table":"user_profiles","values":{}}`, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpsertHandler(t *testing.T) {
	t.Run("writes outcome for token owner", func(t *testing.T) {
		store := new(StoreMock)
		store.On("UpsertOutcome", mock.Anything, models.Outcome{
			UserID:     "acc-1",
			HustleName: "Pet sitting",
			Action:     "started",
			Launched:   true,
			Revenue:    120.5,
		}).Return(&models.Outcome{UserID: "acc-1", HustleName: "Pet sitting", Revenue: 120.5}, nil).Once()

		rec, got := serve(t, NewUpsert(newNoopLogger(), store),
			`{"table":"hustle_outcomes","values":{"hustle_name":"Pet sitting","action":"started","launched":true,"revenue":120.5}}`, true)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, got["data"], 1)
		store.AssertExpectations(t)
	})

	t.Run("user id in values is rejected", func(t *testing.T) {
		store := new(StoreMock)
		rec, _ := serve(t, NewUpsert(newNoopLogger(), store),
			`{"table":"hustle_outcomes","values":{"user_id":"acc-2","hustle_name":"x"}}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		store.AssertNotCalled(t, "UpsertOutcome", mock.Anything, mock.Anything)
	})

	t.Run("hustle name required", func(t *testing.T) {
		store := new(StoreMock)
		rec, got := serve(t, NewUpsert(newNoopLogger(), store),
			`{"table":"hustle_outcomes","values":{"action":"started"}}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "field HustleName is a required field", got["error"])
	})

	t.Run("profiles are not upsertable", func(t *testing.T) {
		store := new(StoreMock)
		rec, _ := serve(t, NewUpsert(newNoopLogger(), store), `{"table":"user_profiles","values":{}}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
