package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret     = errors.New("jwtx: empty signing secret")
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// HS256Signer mints session tokens signed with HMAC-SHA256.
type HS256Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewHS256Signer builds a signer from the process-wide secret. An empty
// secret is a configuration fault and is rejected so the caller can treat it
// as startup-fatal. A non-positive ttl falls back to DefaultTokenTTL.
func NewHS256Signer(secret, issuer string, ttl time.Duration) (*HS256Signer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &HS256Signer{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (s *HS256Signer) TTL() time.Duration { return s.ttl }

// Sign issues a token for the given subject (user ID), valid from now until
// now+ttl.
func (s *HS256Signer) Sign(subject string, now time.Time) (string, error) {
	claims := NewClaims(subject, s.issuer, s.ttl, now)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// HS256Verifier validates session tokens signed with HMAC-SHA256.
type HS256Verifier struct {
	secret []byte
	issuer string
}

// NewHS256Verifier builds a verifier sharing the signer's secret.
func NewHS256Verifier(secret, issuer string) (*HS256Verifier, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &HS256Verifier{secret: []byte(secret), issuer: issuer}, nil
}

// Verify validates the JWT string and returns its parsed Claims. Failures
// map onto the package sentinel errors so callers can distinguish expiry from
// forgery when they need to (the HTTP guard deliberately does not).
func (v *HS256Verifier) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return nil, err
	}
	// The parser already checked exp/nbf; re-check so a claims struct obtained
	// elsewhere goes through the same gate.
	if err := claims.ValidateExpiry(); err != nil {
		return nil, err
	}

	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %w", ErrNotYetValid, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidClaim, err)
	}
}
