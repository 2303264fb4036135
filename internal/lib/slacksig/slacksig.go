// Package slacksig проверяет, что запрос действительно отправлен Slack.
//
// Подпись считается как HMAC-SHA256 от строки "v0:<timestamp>:<body>"
// с ключом signing secret и передаётся в виде "v0=<hex>".
package slacksig

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"time"
)

const (
	// HeaderSignature заголовок с подписью запроса.
	HeaderSignature = "X-Slack-Signature"
	// HeaderTimestamp заголовок со временем отправки запроса (unix-секунды).
	HeaderTimestamp = "X-Slack-Request-Timestamp"

	version = "v0"
	// MaxSkew максимально допустимое расхождение времени запроса и текущего времени.
	MaxSkew = 300 * time.Second
)

var (
	ErrMissingHeaders    = errors.New("missing signature or timestamp header")
	ErrInvalidTimestamp  = errors.New("timestamp is not an integer")
	ErrStaleTimestamp    = errors.New("timestamp is outside of the allowed window")
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// Verifier проверяет подписи входящих запросов.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// New создаёт Verifier с переданным signing secret.
func New(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock возвращает копию Verifier с другим источником текущего времени.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	return &Verifier{secret: v.secret, now: now}
}

// Sign возвращает подпись для timestamp и тела запроса.
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(version + ":" + timestamp + ":"))
	mac.Write(body)
	return version + "=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify проверяет подпись по заголовкам и сырому телу запроса.
func (v *Verifier) Verify(header http.Header, body []byte) error {
	signature := header.Get(HeaderSignature)
	timestamp := header.Get(HeaderTimestamp)
	if signature == "" || timestamp == "" {
		return ErrMissingHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidTimestamp
	}

	skew := v.now().Sub(time.Unix(ts, 0))
	if skew > MaxSkew || skew < -MaxSkew {
		return ErrStaleTimestamp
	}

	expected := Sign(string(v.secret), timestamp, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// Timestamp возвращает разобранный заголовок времени или 0, если он некорректен.
func Timestamp(header http.Header) int64 {
	ts, err := strconv.ParseInt(header.Get(HeaderTimestamp), 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
