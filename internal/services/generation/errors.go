package generation

import (
	"errors"
	"fmt"
)

// Ошибки провайдеров. Адаптеры оборачивают ими свои ответы.
var (
	ErrNotConfigured  = errors.New("provider not configured")
	ErrAuthFailed     = errors.New("provider authentication failed")
	ErrRateLimited    = errors.New("provider rate limited")
	ErrInvalidRequest = errors.New("provider rejected request")
	ErrUnavailable    = errors.New("provider unavailable")
	ErrFormat         = errors.New("malformed provider response")
	ErrTooFewIdeas    = errors.New("too few ideas in provider response")
)

// Kind класс ошибки генерации для пользовательского сообщения.
type Kind int

const (
	// KindUpstream временный сбой провайдера.
	KindUpstream Kind = iota
	// KindNotConfigured отсутствуют или отклонены учётные данные.
	KindNotConfigured
	// KindFormat ответ провайдера не удалось разобрать.
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindNotConfigured:
		return "not_configured"
	case KindFormat:
		return "format"
	default:
		return "upstream"
	}
}

// Error итоговая ошибка цепочки провайдеров.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generation: %s (provider=%s): %v", e.Kind, e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage текст ошибки, который можно показать пользователю.
func (e *Error) UserMessage() string {
	if e.Kind == KindNotConfigured {
		return "AI service is not configured. Please contact support."
	}
	return "Failed to generate ideas. Please try again shortly."
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, ErrNotConfigured), errors.Is(err, ErrAuthFailed):
		return KindNotConfigured
	case errors.Is(err, ErrFormat), errors.Is(err, ErrTooFewIdeas):
		return KindFormat
	default:
		return KindUpstream
	}
}
