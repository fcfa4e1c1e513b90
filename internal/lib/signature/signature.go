// Package signature проверяет подпись входящих платёжных вебхуков.
//
// Заголовок имеет вид "t=<unix>,v1=<hex>[,v1=<hex>...]". Подписывается строка
// "<t>.<payload>" алгоритмом HMAC-SHA256 на общем секрете.
package signature

import (
	"crypto/hmac"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79/webhook"
)

// DefaultTolerance допустимое расхождение между временем подписи и текущим временем.
const DefaultTolerance = 300 * time.Second

var (
	// ErrMissingHeader заголовок подписи отсутствует.
	ErrMissingHeader = errors.New("missing signature header")
	// ErrMalformedHeader заголовок не содержит метку времени или подпись.
	ErrMalformedHeader = errors.New("malformed signature header")
	// ErrTooOld метка времени вышла за пределы допуска.
	ErrTooOld = errors.New("signature timestamp outside tolerance")
	// ErrMismatch ни одна подпись не совпала с ожидаемой.
	ErrMismatch = errors.New("signature mismatch")
)

// Verifier проверяет подписи на одном секрете.
type Verifier struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier создаёт Verifier. Нулевой tolerance заменяется на DefaultTolerance.
func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Verifier{
		secret:    secret,
		tolerance: tolerance,
		now:       time.Now,
	}
}

// WithClock подменяет источник времени.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// Verify проверяет заголовок подписи для тела запроса.
func (v *Verifier) Verify(payload []byte, header string) error {
	const op = "signature.Verify"

	if header == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingHeader)
	}
	timestamp, signatures, err := parseHeader(header)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	age := v.now().Sub(time.Unix(timestamp, 0))
	if age < 0 {
		age = -age
	}
	if age > v.tolerance {
		return fmt.Errorf("%s: %w", op, ErrTooOld)
	}

	expected := webhook.ComputeSignature(time.Unix(timestamp, 0), payload, v.secret)
	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, ErrMismatch)
}

// Sign строит заголовок подписи для тела и метки времени.
func Sign(secret string, payload []byte, at time.Time) string {
	return "t=" + strconv.FormatInt(at.Unix(), 10) + ",v1=" + hex.EncodeToString(webhook.ComputeSignature(at, payload, secret))
}

func parseHeader(header string) (int64, [][]byte, error) {
	var (
		timestamp  int64
		haveTime   bool
		signatures [][]byte
	)
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, ErrMalformedHeader
			}
			timestamp, haveTime = ts, true
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}
	if !haveTime || len(signatures) == 0 {
		return 0, nil, ErrMalformedHeader
	}
	return timestamp, signatures, nil
}
