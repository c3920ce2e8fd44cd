// Package confirm issues and checks signed tokens that guard destructive
// actions (delete, cancel). A token is bound to one action on one record and
// expires after a TTL.
package confirm

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldName is the form field carrying the token.
const FieldName = "confirm_token"

type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New returns a signer; a zero ttl defaults to ten minutes.
func New(secret string, ttl time.Duration) *Signer {
	if secret == "" {
		secret = "devconfirmsecret"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Signer) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func payload(action, resource string, id int64, exp int64) string {
	return fmt.Sprintf("%s|%s|%d|%d", action, resource, id, exp)
}

// Issue returns "<expiry>.<signature>" for action on resource/id.
func (s *Signer) Issue(action, resource string, id int64) string {
	exp := s.now().Add(s.ttl).Unix()
	return strconv.FormatInt(exp, 10) + "." + s.sign(payload(action, resource, id, exp))
}

// Verify checks signature, binding and expiry.
func (s *Signer) Verify(token, action, resource string, id int64) bool {
	expStr, sig, ok := strings.Cut(token, ".")
	if !ok || sig == "" {
		return false
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return false
	}
	if s.now().Unix() > exp {
		return false
	}
	expected := s.sign(payload(action, resource, id, exp))
	return hmac.Equal([]byte(sig), []byte(expected))
}
