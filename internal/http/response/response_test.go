package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUpLike struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Table    string `validate:"oneof=user_profiles hustle_outcomes"`
}

func TestValidationError(t *testing.T) {
	err := validator.New().Struct(signUpLike{Email: "nope", Password: "short", Table: "users"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email")
	assert.Contains(t, resp.Error, "field Password must be at least 8 characters")
	assert.Contains(t, resp.Error, "field Table must be one of: user_profiles hustle_outcomes")
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, http.StatusTeapot, "no coffee")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"status": "Error", "error": "no coffee"}, body)
}

func TestEmbeddedResponseIsFlat(t *testing.T) {
	type urlResponse struct {
		Response
		URL string `json:"url"`
	}
	out, err := json.Marshal(urlResponse{Response: OK(), URL: "https://x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OK","url":"https://x"}`, string(out))
}
