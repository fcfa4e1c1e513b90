package cache

import (
	"context"
	"fmt"
	"time"
)

// RevokeSession помечает токен с данным jti отозванным до истечения его срока.
func (c *Cache) RevokeSession(ctx context.Context, jti string, ttl time.Duration) error {
	const op = "cache.RevokeSession"
	if ttl <= 0 {
		return nil
	}
	if err := c.Db.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsSessionRevoked сообщает, был ли токен отозван.
func (c *Cache) IsSessionRevoked(ctx context.Context, jti string) (bool, error) {
	const op = "cache.IsSessionRevoked"
	n, err := c.Db.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// MarkEventProcessed запоминает идентификатор события вебхука.
// Возвращает true, если событие встречено впервые.
func (c *Cache) MarkEventProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	const op = "cache.MarkEventProcessed"
	first, err := c.Db.SetNX(ctx, eventKeyPrefix+eventID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return first, nil
}

// MarkDigestSent запоминает отправку дайджеста за период.
// Возвращает true, если за этот период дайджест ещё не отправлялся.
func (c *Cache) MarkDigestSent(ctx context.Context, accountID, period string, ttl time.Duration) (bool, error) {
	const op = "cache.MarkDigestSent"
	first, err := c.Db.SetNX(ctx, digestKeyPrefix+period+":"+accountID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return first, nil
}
