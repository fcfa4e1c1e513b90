// Package quota ограничивает число генераций для анонимных устройств и
// аккаунтов бесплатного тарифа.
//
// Анонимное устройство получает AnonLimit генераций на окно, которое
// начинается с первой генерации и истекает целиком. Аккаунт бесплатного
// тарифа получает FreeLimit генераций на скользящее окно; истёкшее окно
// сбрасывается лениво при следующем обращении. Безлимитный тариф
// обозначается значением Unlimited и никогда не упирается в лимит.
package quota

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

// Unlimited значение остатка и лимита для безлимитного тарифа.
const Unlimited = -1

const day = 24 * time.Hour

// ErrLimitReached лимит генераций исчерпан.
var ErrLimitReached = errors.New("generation limit reached")

// Kind тип идентичности.
type Kind int

const (
	// Anonymous устройство без аккаунта.
	Anonymous Kind = iota
	// Account зарегистрированный аккаунт.
	Account
)

func (k Kind) String() string {
	if k == Account {
		return "account"
	}
	return "anonymous"
}

// Identity субъект учёта генераций.
type Identity struct {
	Kind Kind
	Key  string
}

// AnonymousIdentity идентичность анонимного устройства.
func AnonymousIdentity(deviceKey string) Identity {
	return Identity{Kind: Anonymous, Key: deviceKey}
}

// AccountIdentity идентичность аккаунта.
func AccountIdentity(accountID string) Identity {
	return Identity{Kind: Account, Key: accountID}
}

// DeviceLedger хранит счётчики анонимных устройств с автоматическим истечением.
type DeviceLedger interface {
	Count(ctx context.Context, key string) (int, time.Duration, error)
	Incr(ctx context.Context, key string) (int, time.Duration, error)
}

// AccountLedger хранит счётчики аккаунтов.
type AccountLedger interface {
	GetUsage(ctx context.Context, id string) (models.Usage, error)
	SaveUsage(ctx context.Context, id string, count int, resetAt time.Time) error
}

// Limits лимиты и длины окон.
type Limits struct {
	AnonLimit  int
	AnonWindow time.Duration
	FreeLimit  int
	FreeWindow time.Duration
}

// Status снимок квоты для отображения.
type Status struct {
	Tier           string     `json:"tier"`
	Used           int        `json:"used"`
	Limit          int        `json:"limit"`
	Remaining      int        `json:"remaining"`
	DaysUntilReset int        `json:"daysUntilReset"`
	ResetAt        *time.Time `json:"resetAt,omitempty"`
}

// Unlimited сообщает, что квота не ограничена.
func (s Status) Unlimited() bool {
	return s.Remaining == Unlimited
}

// Reached сообщает, что лимит исчерпан.
func (s Status) Reached() bool {
	return s.Remaining != Unlimited && s.Remaining == 0
}

// Policy вычисляет остаток и учитывает генерации.
type Policy struct {
	devices  DeviceLedger
	accounts AccountLedger
	limits   Limits
	now      func() time.Time
}

// New создаёт Policy.
func New(devices DeviceLedger, accounts AccountLedger, limits Limits) *Policy {
	return &Policy{
		devices:  devices,
		accounts: accounts,
		limits:   limits,
		now:      time.Now,
	}
}

// WithClock подменяет источник времени.
func (p *Policy) WithClock(now func() time.Time) *Policy {
	p.now = now
	return p
}

// Status возвращает полный снимок квоты одним чтением.
func (p *Policy) Status(ctx context.Context, id Identity) (Status, error) {
	const op = "quota.Status"

	var (
		st  Status
		err error
	)
	switch id.Kind {
	case Anonymous:
		st, err = p.deviceStatus(ctx, id.Key)
	case Account:
		st, err = p.accountStatus(ctx, id.Key)
	default:
		err = fmt.Errorf("unknown identity kind %d", id.Kind)
	}
	if err != nil {
		return Status{}, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// Remaining число оставшихся генераций или Unlimited.
func (p *Policy) Remaining(ctx context.Context, id Identity) (int, error) {
	st, err := p.Status(ctx, id)
	if err != nil {
		return 0, err
	}
	return st.Remaining, nil
}

// HasReachedLimit сообщает, исчерпан ли лимит.
func (p *Policy) HasReachedLimit(ctx context.Context, id Identity) (bool, error) {
	st, err := p.Status(ctx, id)
	if err != nil {
		return false, err
	}
	return st.Reached(), nil
}

// DaysUntilReset число дней до сброса, округлённое вверх, но не меньше 1.
func (p *Policy) DaysUntilReset(ctx context.Context, id Identity) (int, error) {
	st, err := p.Status(ctx, id)
	if err != nil {
		return 0, err
	}
	return st.DaysUntilReset, nil
}

// Increment учитывает одну успешную генерацию и возвращает новое значение счётчика.
// Для безлимитного тарифа счётчик не меняется и возвращается Unlimited.
func (p *Policy) Increment(ctx context.Context, id Identity) (int, error) {
	const op = "quota.Increment"

	switch id.Kind {
	case Anonymous:
		count, _, err := p.devices.Incr(ctx, id.Key)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		return count, nil
	case Account:
		usage, err := p.accounts.GetUsage(ctx, id.Key)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		if usage.Tier == models.TierUnlimited {
			return Unlimited, nil
		}
		count, resetAt := p.effectiveUsage(usage)
		count++
		if err = p.accounts.SaveUsage(ctx, id.Key, count, resetAt); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		return count, nil
	default:
		return 0, fmt.Errorf("%s: unknown identity kind %d", op, id.Kind)
	}
}

func (p *Policy) deviceStatus(ctx context.Context, key string) (Status, error) {
	count, ttl, err := p.devices.Count(ctx, key)
	if err != nil {
		return Status{}, err
	}
	st := Status{
		Tier:      Anonymous.String(),
		Used:      count,
		Limit:     p.limits.AnonLimit,
		Remaining: remaining(p.limits.AnonLimit, count),
	}
	if ttl > 0 {
		resetAt := p.now().Add(ttl)
		st.ResetAt = &resetAt
		st.DaysUntilReset = ceilDays(ttl)
	} else {
		st.DaysUntilReset = ceilDays(p.limits.AnonWindow)
	}
	return st, nil
}

func (p *Policy) accountStatus(ctx context.Context, id string) (Status, error) {
	usage, err := p.accounts.GetUsage(ctx, id)
	if err != nil {
		return Status{}, err
	}
	if usage.Tier == models.TierUnlimited {
		return Status{
			Tier:           string(models.TierUnlimited),
			Used:           usage.Count,
			Limit:          Unlimited,
			Remaining:      Unlimited,
			DaysUntilReset: p.daysUntil(usage.ResetAt),
			ResetAt:        usage.ResetAt,
		}, nil
	}

	st := Status{
		Tier:  string(models.TierFree),
		Limit: p.limits.FreeLimit,
	}
	if usage.ResetAt == nil {
		st.Used = usage.Count
		st.DaysUntilReset = ceilDays(p.limits.FreeWindow)
	} else {
		count, resetAt := p.effectiveUsage(usage)
		st.Used = count
		st.ResetAt = &resetAt
		st.DaysUntilReset = p.daysUntil(&resetAt)
	}
	st.Remaining = remaining(p.limits.FreeLimit, st.Used)
	return st, nil
}

// effectiveUsage применяет ленивый сброс: истёкшее окно даёт нулевой счётчик
// и новое окно от текущего момента.
func (p *Policy) effectiveUsage(u models.Usage) (int, time.Time) {
	now := p.now()
	if u.ResetAt == nil || !u.ResetAt.After(now) {
		count := u.Count
		if u.ResetAt != nil {
			count = 0
		}
		return count, now.Add(p.limits.FreeWindow)
	}
	return u.Count, *u.ResetAt
}

func (p *Policy) daysUntil(resetAt *time.Time) int {
	if resetAt == nil {
		return ceilDays(p.limits.FreeWindow)
	}
	return ceilDays(resetAt.Sub(p.now()))
}

func remaining(limit, count int) int {
	return max(0, limit-count)
}

func ceilDays(d time.Duration) int {
	return max(1, int(math.Ceil(float64(d)/float64(day))))
}
