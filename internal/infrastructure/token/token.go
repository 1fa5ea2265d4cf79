// Package token issues and validates capability tokens. A token binds a
// bearer to exactly one room; it carries no identity beyond room scope and
// is never rotated or revoked; it simply stops mattering once the room's
// metadata key is gone.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token is malformed, carries a
	// bad signature, or names a different room.
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	RoomID string `json:"roomId"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	issuer string
}

func NewService(secret, issuer string) *Service {
	return &Service{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Issue produces a signed token scoped to roomID. Tokens deliberately have
// no expiry of their own: the room's TTL is the authoritative lifetime.
func (s *Service) Issue(roomID string) (string, error) {
	claims := Claims{
		RoomID: roomID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate checks the token decodes under the server secret and that its
// room claim equals roomID. It is side-effect-free and does not consult
// the store: a token can be valid for a room that has since expired, and
// that failure belongs to the existence check, not here.
func (s *Service) Validate(tokenString, roomID string) error {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return ErrInvalidToken
	}

	if claims.RoomID != roomID {
		return ErrInvalidToken
	}

	return nil
}
