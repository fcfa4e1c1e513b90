// Package server gRPC-сервер проверки здоровья для оркестратора.
//
// Статус обновляется фоновым опросом зависимостей (Postgres, Redis):
// SERVING, пока все отвечают, иначе NOT_SERVING.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName имя сервиса в протоколе grpc.health.v1.
const ServiceName = "hustlefinder"

const probeTimeout = 2 * time.Second

// Pinger зависимость, которую можно проверить.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer держит статус сервиса и отдаёт его по gRPC.
type HealthServer struct {
	log      *slog.Logger
	grpc     *grpc.Server
	health   *health.Server
	checks   map[string]Pinger
	interval time.Duration

	mu   sync.RWMutex
	last map[string]string
}

// NewHealthServer создаёт сервер. checks: имя зависимости -> проверка.
func NewHealthServer(log *slog.Logger, checks map[string]Pinger, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	h := &HealthServer{
		log:      log,
		grpc:     grpc.NewServer(),
		health:   health.NewServer(),
		checks:   checks,
		interval: interval,
		last:     make(map[string]string),
	}
	healthpb.RegisterHealthServer(h.grpc, h.health)
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Probe опрашивает зависимости, обновляет статус и возвращает результат по каждой.
func (h *HealthServer) Probe(ctx context.Context) (map[string]string, bool) {
	const op = "server.Probe"
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			healthy = false
			result[name] = "unavailable"
			h.log.Warn("dependency unhealthy", sl.Op(op), slog.String("dependency", name), sl.Err(err))
			continue
		}
		result[name] = "ok"
	}

	if healthy {
		h.setStatus(healthpb.HealthCheckResponse_SERVING)
	} else {
		h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	}

	h.mu.Lock()
	h.last = result
	h.mu.Unlock()
	return result, healthy
}

// Last результат последнего опроса.
func (h *HealthServer) Last() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]string, len(h.last))
	for k, v := range h.last {
		out[k] = v
	}
	return out
}

// Run опрашивает зависимости с заданным интервалом до отмены контекста.
func (h *HealthServer) Run(ctx context.Context) {
	h.Probe(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

// Serve принимает gRPC-соединения на lis. Блокируется до остановки.
func (h *HealthServer) Serve(lis net.Listener) error {
	const op = "server.Serve"
	h.log.Info("grpc health server started", slog.String("address", lis.Addr().String()))
	if err := h.grpc.Serve(lis); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Stop переводит статус в NOT_SERVING и останавливает сервер, дожидаясь активных вызовов.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.grpc.GracefulStop()
}

func (h *HealthServer) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
