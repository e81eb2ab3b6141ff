// Package token issues and validates the signed session tokens handed out at
// login. Tokens are HS256 JWTs carrying the subject id and role.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/loandesk/loandesk/pkg/model"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 24 * time.Hour

var (
	// ErrInvalid is returned for tokens that are malformed, badly signed or
	// carry unusable claims.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired is returned for tokens past their expiry.
	ErrExpired = errors.New("token expired")
)

// Claims is the token payload.
type Claims struct {
	ID   string     `json:"id"`
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(i *Issuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// NewIssuer creates an Issuer. The secret must not be empty.
func NewIssuer(secret []byte, opts ...Option) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("token signing secret is empty")
	}
	i := &Issuer{
		secret: secret,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// TTL returns the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a signed token for the subject along with its expiry.
func (i *Issuer) Issue(subjectID string, role model.Role) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		ID:   subjectID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates raw and returns its claims. The error is ErrExpired or
// ErrInvalid.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalid)
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalid, claims.Role)
	}
	return claims, nil
}
