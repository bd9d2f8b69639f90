// Package auth issues and verifies the signed identity tokens carried in
// the session cookie. Tokens are HS256 JWTs whose payload is the caller
// identity; nothing is persisted server-side.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Identity is the verified caller. Email is the only claim the
// authorization checks compare against; Claims carries the full payload
// the token was signed with, whatever shape the client sent.
type Identity struct {
	Email  string
	Role   string
	Claims map[string]any
}

type Service struct {
	secret []byte
	ttl    time.Duration
}

// DefaultTTL matches the lifetime the web client expects for the cookie.
const DefaultTTL = time.Hour

func NewService(secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: secret, ttl: ttl}
}

func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs an arbitrary string-keyed payload into a token expiring
// TTL from now. Every payload entry becomes a claim; iat and exp are
// always server-set.
func (s *Service) Issue(payload map[string]any) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{}
	for key, value := range payload {
		claims[key] = value
	}
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(s.ttl))
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the embedded
// identity with the full claim set. It returns ErrTokenExpired past the
// embedded expiry and ErrInvalidToken for anything else that fails to
// parse or validate.
func (s *Service) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	identity := Identity{Claims: claims}
	identity.Email, _ = claims["email"].(string)
	identity.Role, _ = claims["role"].(string)
	return identity, nil
}
