package signup

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

	"github.com/magabrotheeeer/hustlefinder/internal/models"
	"github.com/magabrotheeeer/hustlefinder/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SignUp(ctx context.Context, email, password, displayName string) (*models.Account, error) {
	args := m.Called(ctx, email, password, displayName)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSignUpHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *ServiceMock)
		wantStatus int
		wantError  string
	}{
		{
			name: "created",
			body: `{"email":"new@example.com","password":"password123","displayName":"New"}`,
			setup: func(m *ServiceMock) {
				m.On("SignUp", mock.Anything, "new@example.com", "password123", "New").
					Return(&models.Account{ID: "acc-1", Email: "new@example.com", PasswordHash: "secret-hash"}, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid json",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "invalid email",
			body:       `{"email":"nope","password":"password123"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "field Email must be a valid email",
		},
		{
			name: "weak password",
			body: `{"email":"new@example.com","password":"short"}`,
			setup: func(m *ServiceMock) {
				m.On("SignUp", mock.Anything, "new@example.com", "short", "").Return(nil, auth.ErrWeakPassword).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "password must be at least 8 characters",
		},
		{
			name: "taken email is not disclosed",
			body: `{"email":"taken@example.com","password":"password123"}`,
			setup: func(m *ServiceMock) {
				m.On("SignUp", mock.Anything, "taken@example.com", "password123", "").Return(nil, auth.ErrSignUpRejected).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "unable to create account",
		},
		{
			name: "storage failure",
			body: `{"email":"new@example.com","password":"password123"}`,
			setup: func(m *ServiceMock) {
				m.On("SignUp", mock.Anything, "new@example.com", "password123", "").Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "failed to create account",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setup != nil {
				tt.setup(svc)
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-up", bytes.NewBufferString(tt.body))
			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Contains(t, got["error"], tt.wantError)
			} else {
				assert.Equal(t, "OK", got["status"])
				user := got["user"].(map[string]any)
				assert.Equal(t, "acc-1", user["id"])
				assert.NotContains(t, rec.Body.String(), "secret-hash")
			}
			svc.AssertExpectations(t)
		})
	}
}
