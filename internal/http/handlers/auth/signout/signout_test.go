package signout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func TestSignOutHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("revokes bearer token", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("SignOut", mock.Anything, "tok").Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()
		New(log, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("no token is a no-op", func(t *testing.T) {
		svc := new(ServiceMock)
		rec := httptest.NewRecorder()
		New(log, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertNotCalled(t, "SignOut", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("SignOut", mock.Anything, "tok").Return(errors.New("redis down")).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()
		New(log, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
