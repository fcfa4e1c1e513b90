// Package middlewarectx содержит HTTP middleware: проверку bearer-токена,
// определение личности для квоты и ограничение частоты запросов.
//
// Результат проверки токена кладётся в контекст запроса и читается
// обработчиками через ClaimsFromContext и IdentityFromContext.
package middlewarectx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/magabrotheeeer/hustlefinder/internal/http/response"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/jwt"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/services/quota"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// ClaimsKey ключ claims проверенного токена.
	ClaimsKey Key = "claims"
	// IdentityKey ключ личности, по которой считается квота.
	IdentityKey Key = "identity"
)

// DeviceHeader заголовок с идентификатором устройства анонимного пользователя.
const DeviceHeader = "X-Device-ID"

const maxDeviceIDLen = 128

// Authenticator проверяет bearer-токен.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
}

// BearerToken извлекает токен из заголовка Authorization. Пустая строка, если его нет.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// ClaimsFromContext возвращает claims, положенные RequireAccount или ResolveIdentity.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwt.Claims)
	return c, ok && c != nil
}

// IdentityFromContext возвращает личность, положенную ResolveIdentity.
func IdentityFromContext(ctx context.Context) (quota.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(quota.Identity)
	return id, ok
}

// RequireAccount пропускает только запросы с действующим токеном.
// Причина отказа не раскрывается клиенту.
func RequireAccount(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireAccount"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := BearerToken(r)
			if token == "" {
				log.Debug("missing or invalid authorization header")
				response.WriteError(w, r, http.StatusUnauthorized, "authorization required")
				return
			}
			claims, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Info("invalid or expired token", sl.Err(err))
				response.WriteError(w, r, http.StatusUnauthorized, "invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, IdentityKey, quota.AccountIdentity(claims.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResolveIdentity определяет, чью квоту расходует запрос: аккаунта по токену
// или анонимного устройства по заголовку X-Device-ID, а без него по IP клиента.
// Присланный, но недействительный токен отклоняется, а не понижается до анонима.
func ResolveIdentity(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.ResolveIdentity"

			ctx := r.Context()
			if token := BearerToken(r); token != "" {
				claims, err := auth.Authenticate(ctx, token)
				if err != nil {
					log.Info("invalid or expired token",
						slog.String("op", op),
						slog.String("request_id", middleware.GetReqID(ctx)),
						sl.Err(err),
					)
					response.WriteError(w, r, http.StatusUnauthorized, "invalid or expired session")
					return
				}
				ctx = context.WithValue(ctx, ClaimsKey, claims)
				ctx = context.WithValue(ctx, IdentityKey, quota.AccountIdentity(claims.UserID))
			} else {
				ctx = context.WithValue(ctx, IdentityKey, quota.AnonymousIdentity(deviceKey(r)))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deviceKey(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(DeviceHeader)); id != "" && len(id) <= maxDeviceIDLen && printable(id) {
		return "device:" + id
	}
	return "ip:" + ClientIP(r)
}

// ClientIP адрес клиента без порта. Ожидает, что middleware.RealIP уже отработал.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func printable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
