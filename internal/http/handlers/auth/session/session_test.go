package session

import (
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

func (m *ServiceMock) Session(ctx context.Context, token string) (auth.Session, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(auth.Session), args.Error(1)
}

func TestSessionHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		header     string
		setup      func(m *ServiceMock)
		wantStatus int
		wantToken  string
	}{
		{
			name:       "no token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "valid",
			header: "Bearer old",
			setup: func(m *ServiceMock) {
				m.On("Session", mock.Anything, "old").Return(auth.Session{
					Token:   "old",
					Account: &models.Account{ID: "acc-1"},
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantToken:  "old",
		},
		{
			name:   "refreshed",
			header: "Bearer old",
			setup: func(m *ServiceMock) {
				m.On("Session", mock.Anything, "old").Return(auth.Session{
					Token:     "new",
					Refreshed: true,
					Account:   &models.Account{ID: "acc-1"},
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantToken:  "new",
		},
		{
			name:   "revoked",
			header: "Bearer gone",
			setup: func(m *ServiceMock) {
				m.On("Session", mock.Anything, "gone").Return(auth.Session{}, auth.ErrInvalidSession).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "store failure",
			header: "Bearer tok",
			setup: func(m *ServiceMock) {
				m.On("Session", mock.Anything, "tok").Return(auth.Session{}, errors.New("redis down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setup != nil {
				tt.setup(svc)
			}
			req := httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			New(log, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantToken != "" {
				var got Response
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, tt.wantToken, got.Session.Token)
			}
			svc.AssertExpectations(t)
		})
	}
}
