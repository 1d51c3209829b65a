// Package tokens issues and verifies the signed bearer tokens that carry a
// user's identity between requests.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// DefaultTTL is how long an access token stays valid after issuance.
const DefaultTTL = 72 * time.Hour

// Claims carries the user id in the registered "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for issuance and verification.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(secret string, ttl time.Duration, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a token for userID that expires ttl after now.
func (s *Service) Issue(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the user id embedded in a valid token. Any failure,
// whether signature, format or expiry, is reported as ErrInvalidToken.
func (s *Service) Verify(raw string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, s.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return Identity(token)
}

// Keyfunc resolves the signing key for jwt parsers, rejecting anything that
// is not HS256 signed.
func (s *Service) Keyfunc(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.secret, nil
}

// Identity extracts the user id from an already parsed token.
func Identity(token *jwt.Token) (uuid.UUID, error) {
	if token == nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
