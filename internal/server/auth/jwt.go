// Package auth issues and verifies stateless bearer tokens (HS256 JWTs).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the signed claim set. UserID duplicates the subject so older
// consumers reading "uid" keep working.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// TokenIssuer signs and verifies tokens with a single shared secret. It holds
// no mutable state after construction and is safe for concurrent use.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
	issuer   string
	now      func() time.Time
}

type Option func(*TokenIssuer)

// WithIssuer sets the "iss" claim and requires it on verification.
func WithIssuer(iss string) Option {
	return func(t *TokenIssuer) { t.issuer = iss }
}

// WithClock overrides time.Now for both issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(t *TokenIssuer) { t.now = now }
}

func NewTokenIssuer(secretKey []byte, validity time.Duration, opts ...Option) (*TokenIssuer, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("token signing secret is empty")
	}
	if validity <= 0 {
		return nil, errors.New("token validity must be positive")
	}

	t := &TokenIssuer{
		secret:   append([]byte(nil), secretKey...),
		validity: validity,
		now:      time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Issue signs a token for userID and returns it with its expiry.
func (t *TokenIssuer) Issue(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("token subject is empty")
	}

	now := t.now()
	expires := now.Add(t.validity)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID: userID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify checks signature, algorithm and time window. Expired tokens fail
// with common.ErrTokenExpired, everything else with common.ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}

	return claims, nil
}

// UserID verifies tokenString and returns only the identity claim.
func (t *TokenIssuer) UserID(tokenString string) (string, error) {
	claims, err := t.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// Validity is the configured token lifetime.
func (t *TokenIssuer) Validity() time.Duration {
	return t.validity
}
