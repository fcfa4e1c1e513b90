// Package repository реализует хранилище аккаунтов и результатов по идеям
// на основе PostgreSQL. Каждая операция выполняется одним запросом и
// возвращает результат этого запроса без повторного чтения.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken аккаунт с таким email уже существует.
	ErrEmailTaken = errors.New("email already registered")
	// ErrCustomerTaken клиент Stripe уже привязан к другому аккаунту.
	ErrCustomerTaken = errors.New("stripe customer already linked to another account")
	// ErrConflict прочие нарушения уникальности.
	ErrConflict = errors.New("unique constraint violated")
)

// Имена ограничений уникальности, которые Postgres выдаёт по умолчанию для миграции 000001.
const (
	constraintEmail    = "user_profiles_email_key"
	constraintCustomer = "user_profiles_stripe_customer_id_key"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Ping проверяет соединение с базой.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case constraintEmail:
			return fmt.Errorf("%s: %w", op, ErrEmailTaken)
		case constraintCustomer:
			return fmt.Errorf("%s: %w", op, ErrCustomerTaken)
		default:
			return fmt.Errorf("%s: %w: %s", op, ErrConflict, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
