package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hustlefinder/internal/services/generation"
)

const content = "```json\n{\"hustles\":[{\"name\":\"A\",\"description\":\"a\"},{\"name\":\"B\"},{\"name\":\"C\"}]}\n```"

func newServer(t *testing.T, status int, body string) (*httptest.Server, *apiRequest) {
	t.Helper()
	var got apiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func okBody(t *testing.T, text string) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": text}, "finish_reason": "stop"},
		},
	})
	require.NoError(t, err)
	return string(b)
}

func TestProvider_Generate_Success(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, okBody(t, content))
	p := New("gsk_test", WithBaseURL(srv.URL+"/"), WithModel("test-model"), WithHTTPClient(srv.Client()))

	ideas, err := p.Generate(context.Background(), "prompt text")
	require.NoError(t, err)
	require.Len(t, ideas, 3)
	assert.Equal(t, "A", ideas[0].Name)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "prompt text", got.Messages[1].Content)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestProvider_Generate_NotConfigured(t *testing.T) {
	_, err := New("").Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, generation.ErrNotConfigured)
}

func TestProvider_Generate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantErr: generation.ErrAuthFailed},
		{name: "forbidden", status: http.StatusForbidden, body: `{}`, wantErr: generation.ErrAuthFailed},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, wantErr: generation.ErrRateLimited},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"bad"}`, wantErr: generation.ErrInvalidRequest},
		{name: "server error", status: http.StatusBadGateway, body: ``, wantErr: generation.ErrUnavailable},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: generation.ErrFormat},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: generation.ErrFormat},
		{name: "prose content", status: http.StatusOK, body: okBody(t, "Sorry, I can't."), wantErr: generation.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			p := New("gsk_test", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

			_, err := p.Generate(context.Background(), "prompt")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProvider_Generate_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New("gsk_test", WithBaseURL(url)).Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, generation.ErrUnavailable)
}
