// Package health реализует HTTP-проверку здоровья сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
)

// Response состояние зависимостей.
type Response struct {
	response.Response
	Checks map[string]string `json:"checks"`
}

// Prober опрашивает зависимости.
type Prober interface {
	Probe(ctx context.Context) (map[string]string, bool)
}

// Handler обрабатывает проверку здоровья.
type Handler struct {
	log    *slog.Logger
	prober Prober
}

// New создает Handler.
func New(log *slog.Logger, prober Prober) *Handler {
	return &Handler{
		log:    log,
		prober: prober,
	}
}

// ServeHTTP godoc
// @Summary Проверка здоровья
// @Description Опрашивает Postgres и Redis. 503, если хотя бы одна зависимость недоступна.
// @Tags Health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	checks, healthy := h.prober.Probe(r.Context())
	resp := Response{Response: response.OK(), Checks: checks}
	if !healthy {
		h.log.Warn("health check failed", slog.String("op", op), slog.Any("checks", checks))
		resp.Status = response.StatusError
		resp.Error = "dependency unavailable"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}
