// Package models содержит доменные модели сервиса: аккаунт пользователя,
// сгенерированные идеи подработки, результаты по идеям и письма уведомлений.
package models

import "time"

// Tier уровень подписки аккаунта.
type Tier string

const (
	// TierFree бесплатный тариф с недельным лимитом генераций.
	TierFree Tier = "free"
	// TierUnlimited платный тариф без лимита.
	TierUnlimited Tier = "unlimited"
)

// Notifications набор настроек уведомлений аккаунта.
type Notifications struct {
	Email          bool `json:"email"`
	WeeklyTips     bool `json:"weekly_tips"`
	ProductUpdates bool `json:"product_updates"`
}

// Account зарегистрированный пользователь.
// Email хранится в нормализованном виде и уникален.
type Account struct {
	ID                   string        `json:"id"`
	Email                string        `json:"email"`
	PasswordHash         string        `json:"-"`
	DisplayName          string        `json:"display_name"`
	Tier                 Tier          `json:"tier"`
	UsageCount           int           `json:"usage_count"`
	UsageResetDate       *time.Time    `json:"usage_reset_date,omitempty"`
	StripeCustomerID     string        `json:"-"`
	StripeSubscriptionID string        `json:"-"`
	Notifications        Notifications `json:"notifications"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// Usage состояние счётчика генераций аккаунта.
type Usage struct {
	Tier    Tier
	Count   int
	ResetAt *time.Time
}

// Subscription внешнее состояние подписки, которое пишет биллинг.
type Subscription struct {
	Tier                 Tier
	StripeCustomerID     string
	StripeSubscriptionID string
}

// ProfileUpdate изменяемые пользователем поля профиля.
type ProfileUpdate struct {
	DisplayName   *string
	Notifications *Notifications
}
