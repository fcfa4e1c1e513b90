package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DeviceLedger счётчик генераций анонимного устройства.
// Запись истекает через window после первой генерации независимо от значения счётчика.
type DeviceLedger struct {
	cache  *Cache
	window time.Duration
}

// NewDeviceLedger создаёт счётчик с заданным окном жизни записи.
func NewDeviceLedger(c *Cache, window time.Duration) *DeviceLedger {
	return &DeviceLedger{cache: c, window: window}
}

// incrScript увеличивает счётчик и выставляет срок жизни одной операцией.
// Ключ без срока (например, после сбоя старой версии) получает окно заново.
var incrScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// countScript читает счётчик и возвращает срок жизни записи, восстанавливая потерянный срок.
var countScript = redis.NewScript(`
local value = redis.call('GET', KEYS[1])
if not value then
	return {0, 0}
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl == -1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {tonumber(value), ttl}
`)

// Count возвращает текущее значение счётчика и время до его сброса.
// Отсутствующая запись означает ноль и нулевой TTL.
func (l *DeviceLedger) Count(ctx context.Context, key string) (int, time.Duration, error) {
	const op = "cache.DeviceLedger.Count"

	count, ttl, err := l.run(ctx, countScript, key)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, ttl, nil
}

// Incr увеличивает счётчик на единицу и возвращает новое значение.
// Срок жизни выставляется только при создании записи.
func (l *DeviceLedger) Incr(ctx context.Context, key string) (int, time.Duration, error) {
	const op = "cache.DeviceLedger.Incr"

	count, ttl, err := l.run(ctx, incrScript, key)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, ttl, nil
}

func (l *DeviceLedger) run(ctx context.Context, script *redis.Script, key string) (int, time.Duration, error) {
	res, err := script.Run(ctx, l.cache.Db, []string{deviceKeyPrefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("unexpected script reply of %d values", len(res))
	}
	return int(res[0]), positive(time.Duration(res[1]) * time.Millisecond), nil
}

// Отрицательный срок означает, что ключа уже нет.
func positive(ttl time.Duration) time.Duration {
	if ttl < 0 {
		return 0
	}
	return ttl
}
