package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

const accountColumns = `id, email, password_hash, display_name, subscription_tier,
	usage_count, usage_reset_date, stripe_customer_id, stripe_subscription_id,
	notify_email, notify_weekly_tips, notify_product_updates, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		a              models.Account
		tier           string
		resetDate      sql.NullTime
		customerID     sql.NullString
		subscriptionID sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.DisplayName, &tier,
		&a.UsageCount, &resetDate, &customerID, &subscriptionID,
		&a.Notifications.Email, &a.Notifications.WeeklyTips, &a.Notifications.ProductUpdates,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Tier = models.Tier(tier)
	if resetDate.Valid {
		t := resetDate.Time
		a.UsageResetDate = &t
	}
	a.StripeCustomerID = customerID.String
	a.StripeSubscriptionID = subscriptionID.String
	return &a, nil
}

// CreateAccount сохраняет новый аккаунт. Email должен быть уже нормализован.
func (s *Storage) CreateAccount(ctx context.Context, email, passwordHash, displayName string) (*models.Account, error) {
	const op = "storage.CreateAccount"

	query := `INSERT INTO user_profiles (email, password_hash, display_name)
			  VALUES ($1, $2, $3)
			  RETURNING ` + accountColumns
	a, err := scanAccount(s.DB.QueryRowContext(ctx, query, email, passwordHash, displayName))
	if err != nil {
		return nil, mapError(op, err)
	}
	return a, nil
}

// GetAccountByID возвращает аккаунт по идентификатору.
func (s *Storage) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	const op = "storage.GetAccountByID"

	query := `SELECT ` + accountColumns + ` FROM user_profiles WHERE id = $1`
	a, err := scanAccount(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return a, nil
}

// GetAccountByEmail возвращает аккаунт по нормализованному email.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"

	query := `SELECT ` + accountColumns + ` FROM user_profiles WHERE email = $1`
	a, err := scanAccount(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(op, err)
	}
	return a, nil
}

// GetAccountByStripeCustomer возвращает аккаунт по идентификатору клиента Stripe.
func (s *Storage) GetAccountByStripeCustomer(ctx context.Context, customerID string) (*models.Account, error) {
	const op = "storage.GetAccountByStripeCustomer"

	query := `SELECT ` + accountColumns + ` FROM user_profiles WHERE stripe_customer_id = $1`
	a, err := scanAccount(s.DB.QueryRowContext(ctx, query, customerID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return a, nil
}

// GetUsage возвращает тариф и состояние счётчика генераций.
func (s *Storage) GetUsage(ctx context.Context, id string) (models.Usage, error) {
	const op = "storage.GetUsage"

	var (
		u         models.Usage
		tier      string
		resetDate sql.NullTime
	)
	query := `SELECT subscription_tier, usage_count, usage_reset_date FROM user_profiles WHERE id = $1`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&tier, &u.Count, &resetDate); err != nil {
		return models.Usage{}, mapError(op, err)
	}
	u.Tier = models.Tier(tier)
	if resetDate.Valid {
		t := resetDate.Time
		u.ResetAt = &t
	}
	return u, nil
}

// SaveUsage перезаписывает счётчик и дату сброса. Последняя запись побеждает.
func (s *Storage) SaveUsage(ctx context.Context, id string, count int, resetAt time.Time) error {
	const op = "storage.SaveUsage"

	query := `UPDATE user_profiles
			  SET usage_count = $1, usage_reset_date = $2, updated_at = NOW()
			  WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, count, resetAt, id)
	if err != nil {
		return mapError(op, err)
	}
	return requireAffected(op, res)
}

// SetSubscription перезаписывает тариф и ссылки на объекты Stripe.
// Пустые ссылки не затирают уже сохранённые.
func (s *Storage) SetSubscription(ctx context.Context, id string, sub models.Subscription) error {
	const op = "storage.SetSubscription"

	query := `UPDATE user_profiles
			  SET subscription_tier = $1,
			      stripe_customer_id = COALESCE(NULLIF($2, ''), stripe_customer_id),
			      stripe_subscription_id = COALESCE(NULLIF($3, ''), stripe_subscription_id),
			      updated_at = NOW()
			  WHERE id = $4`
	res, err := s.DB.ExecContext(ctx, query, string(sub.Tier), sub.StripeCustomerID, sub.StripeSubscriptionID, id)
	if err != nil {
		return mapError(op, err)
	}
	return requireAffected(op, res)
}

// SetStripeCustomer сохраняет идентификатор клиента Stripe.
func (s *Storage) SetStripeCustomer(ctx context.Context, id, customerID string) error {
	const op = "storage.SetStripeCustomer"

	query := `UPDATE user_profiles SET stripe_customer_id = $1, updated_at = NOW() WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, customerID, id)
	if err != nil {
		return mapError(op, err)
	}
	return requireAffected(op, res)
}

// UpdateProfile меняет отображаемое имя и настройки уведомлений и возвращает обновлённый аккаунт.
func (s *Storage) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.Account, error) {
	const op = "storage.UpdateProfile"

	var (
		name                       sql.NullString
		notifyEmail, tips, updates sql.NullBool
	)
	if upd.DisplayName != nil {
		name = sql.NullString{String: *upd.DisplayName, Valid: true}
	}
	if upd.Notifications != nil {
		notifyEmail = sql.NullBool{Bool: upd.Notifications.Email, Valid: true}
		tips = sql.NullBool{Bool: upd.Notifications.WeeklyTips, Valid: true}
		updates = sql.NullBool{Bool: upd.Notifications.ProductUpdates, Valid: true}
	}

	query := `UPDATE user_profiles
			  SET display_name = COALESCE($1, display_name),
			      notify_email = COALESCE($2, notify_email),
			      notify_weekly_tips = COALESCE($3, notify_weekly_tips),
			      notify_product_updates = COALESCE($4, notify_product_updates),
			      updated_at = NOW()
			  WHERE id = $5
			  RETURNING ` + accountColumns
	a, err := scanAccount(s.DB.QueryRowContext(ctx, query, name, notifyEmail, tips, updates, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return a, nil
}

// ListDigestRecipients возвращает аккаунты, подписанные на еженедельные советы по email.
func (s *Storage) ListDigestRecipients(ctx context.Context) ([]*models.Account, error) {
	const op = "storage.ListDigestRecipients"

	query := `SELECT ` + accountColumns + `
			  FROM user_profiles
			  WHERE notify_email AND notify_weekly_tips
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}

func requireAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
