// Package auth управляет аккаунтами и сессиями: регистрация, вход по паролю,
// проверка и продление токена, выход с отзывом токена.
//
// Ошибки входа и проверки сессии намеренно одинаковы для всех причин,
// чтобы по ответу нельзя было узнать, существует ли аккаунт.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/hustlefinder/internal/lib/jwt"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/password"
	"github.com/magabrotheeeer/hustlefinder/internal/lib/sl"
	"github.com/magabrotheeeer/hustlefinder/internal/models"
	"github.com/magabrotheeeer/hustlefinder/internal/storage/repository"
)

var (
	// ErrInvalidCredentials неверный email или пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidSession токен отсутствует, просрочен, отозван или аккаунт удалён.
	ErrInvalidSession = errors.New("invalid or expired session")
	// ErrSignUpRejected аккаунт не создан: email занят или данные некорректны.
	ErrSignUpRejected = errors.New("unable to create account")
	// ErrWeakPassword пароль короче допустимого.
	ErrWeakPassword = errors.New("password is too short")
)

// AccountRepository хранилище аккаунтов.
type AccountRepository interface {
	CreateAccount(ctx context.Context, email, passwordHash, displayName string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
}

// SessionStore список отозванных токенов.
type SessionStore interface {
	RevokeSession(ctx context.Context, jti string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, jti string) (bool, error)
}

// TokenMaker выпускает и проверяет токены.
type TokenMaker interface {
	GenerateToken(userID, email string) (jwt.Token, error)
	ParseToken(token string) (*jwt.Claims, error)
}

// Session действующая сессия аккаунта.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Refreshed bool            `json:"refreshed"`
	Account   *models.Account `json:"user"`
}

// Service управляет аккаунтами и сессиями.
type Service struct {
	accounts     AccountRepository
	sessions     SessionStore
	tokens       TokenMaker
	events       *Broker
	refreshAfter time.Duration
	now          func() time.Time
	log          *slog.Logger
}

// NewService создаёт Service. Токен продлевается, если до его истечения осталось меньше refreshAfter.
func NewService(log *slog.Logger, accounts AccountRepository, sessions SessionStore, tokens TokenMaker, events *Broker, refreshAfter time.Duration) *Service {
	return &Service{
		accounts:     accounts,
		sessions:     sessions,
		tokens:       tokens,
		events:       events,
		refreshAfter: refreshAfter,
		now:          time.Now,
		log:          log,
	}
}

// NormalizeEmail приводит email к виду, в котором он хранится.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp создаёт аккаунт. Сессия не выдаётся.
func (s *Service) SignUp(ctx context.Context, email, rawPassword, displayName string) (*models.Account, error) {
	const op = "auth.SignUp"

	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%s: %w", op, ErrSignUpRejected)
	}
	if len(rawPassword) < password.MinLength {
		return nil, fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	hash, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	account, err := s.accounts.CreateAccount(ctx, email, hash, strings.TrimSpace(displayName))
	if errors.Is(err, repository.ErrEmailTaken) {
		return nil, fmt.Errorf("%s: %w", op, ErrSignUpRejected)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(EventSignedUp, account)
	return account, nil
}

// SignIn проверяет пароль и выдаёт новую сессию.
func (s *Service) SignIn(ctx context.Context, email, rawPassword string) (Session, error) {
	const op = "auth.SignIn"

	account, err := s.accounts.GetAccountByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		// Сравнение с фиктивным хэшем выравнивает время ответа.
		_ = password.CompareHash(dummyHash(), rawPassword)
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if err = password.CompareHash(account.PasswordHash, rawPassword); err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.tokens.GenerateToken(account.ID, account.Email)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(EventSignedIn, account)
	return Session{Token: token.Value, ExpiresAt: token.ExpiresAt, Account: account}, nil
}

// Authenticate проверяет токен и возвращает его claims без продления.
func (s *Service) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	const op = "auth.Authenticate"

	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidSession, err)
	}
	revoked, err := s.sessions.IsSessionRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}
	return claims, nil
}

// Session проверяет токен и возвращает текущую сессию.
// Токен, срок которого подходит к концу, заменяется новым, а старый отзывается.
func (s *Service) Session(ctx context.Context, token string) (Session, error) {
	const op = "auth.Session"

	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	account, err := s.accounts.GetAccountByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	expiresAt := claims.ExpiresAt.Time
	left := expiresAt.Sub(s.now())
	if left >= s.refreshAfter {
		return Session{Token: token, ExpiresAt: expiresAt, Account: account}, nil
	}

	fresh, err := s.tokens.GenerateToken(account.ID, account.Email)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if err = s.sessions.RevokeSession(ctx, claims.ID, left); err != nil {
		s.log.Warn("failed to revoke refreshed token", sl.Op(op), sl.Err(err))
	}

	s.publish(EventSessionRefreshed, account)
	return Session{Token: fresh.Value, ExpiresAt: fresh.ExpiresAt, Refreshed: true, Account: account}, nil
}

// SignOut отзывает токен до истечения его срока. Недействительный токен не считается ошибкой.
func (s *Service) SignOut(ctx context.Context, token string) error {
	const op = "auth.SignOut"

	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil
	}
	if err = s.sessions.RevokeSession(ctx, claims.ID, claims.ExpiresAt.Sub(s.now())); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.events.Publish(Event{Type: EventSignedOut, AccountID: claims.UserID, Email: claims.Email, At: s.now()})
	return nil
}

func (s *Service) publish(t EventType, a *models.Account) {
	s.events.Publish(Event{Type: t, AccountID: a.ID, Email: a.Email, At: s.now()})
}

var (
	dummyOnce sync.Once
	dummy     string
)

func dummyHash() string {
	dummyOnce.Do(func() {
		dummy, _ = password.GetHash("placeholder-password-for-timing")
	})
	return dummy
}
