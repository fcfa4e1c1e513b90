package models

import "time"

// Outcome результат пользователя по конкретной идее.
// Пара (UserID, HustleName) уникальна.
type Outcome struct {
	UserID     string    `json:"user_id"`
	HustleName string    `json:"hustle_name"`
	Action     string    `json:"action"`
	Launched   bool      `json:"launched"`
	Revenue    float64   `json:"revenue"`
	Feedback   string    `json:"feedback"`
	UpdatedAt  time.Time `json:"updated_at"`
}
