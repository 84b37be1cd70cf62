// Package token issues and validates signed bearer tokens (HS256 JWT).
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

// MinKeyLen is the minimum signing key length in bytes. HS256 keys shorter
// than the hash output weaken the MAC, so the constructor rejects them.
const MinKeyLen = 32

// ErrInvalidToken is returned by Subject for any token that fails parsing,
// signature verification, or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Manager mints and verifies access/refresh tokens. The signing key is held
// only here; callers see opaque compact strings.
type Manager struct {
	signKey    []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager validates key strength and token lifetimes.
func NewManager(signKey []byte, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if len(signKey) < MinKeyLen {
		return nil, fmt.Errorf("signing key too short: %d bytes, need >= %d", len(signKey), MinKeyLen)
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	if accessTTL > refreshTTL {
		return nil, errors.New("access TTL must not exceed refresh TTL")
	}
	return &Manager{signKey: signKey, accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// IssueAccessToken creates a short-lived token for subject.
func (m *Manager) IssueAccessToken(subject string) (string, time.Time, error) {
	return m.issue(subject, m.accessTTL)
}

// IssueRefreshToken creates a long-lived token for subject. It shares the
// access-token structure; only the lifetime differs.
func (m *Manager) IssueRefreshToken(subject string) (string, time.Time, error) {
	return m.issue(subject, m.refreshTTL)
}

// issue signs a compact HS256 JWT. JWT numeric dates carry one-second
// resolution, so a per-issuance jti keeps two tokens for the same subject
// distinct even within the same second.
func (m *Manager) issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("empty subject")
	}
	jti, err := uuid.NewV4()
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        jti.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.signKey)
	return signed, exp, err
}

// Subject verifies the token and returns its subject claim. Any failure
// (malformed input, wrong key, expired) yields ErrInvalidToken; callers that
// only need a probe should use IsValid.
func (m *Manager) Subject(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.signKey, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// IsValid reports whether the token parses, the signature verifies, and the
// expiry has not passed. It never panics on arbitrary input.
func (m *Manager) IsValid(raw string) bool {
	_, err := m.Subject(raw)
	return err == nil
}
