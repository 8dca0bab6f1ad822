package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ridhambansal/office-booking/internal/entity"
)

type Claims struct {
	SessionID string `json:"session_id"`
	UserID    int    `json:"user_id"`
	jwt.RegisteredClaims
}

// NewToken mints the gateway's own session JWT. The upstream store's bearer
// token never leaves the session record.
func NewToken(secret, issuer string, ttl time.Duration, sessionID string, userID int) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		SessionID: sessionID,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, entity.ErrUnauthenticated
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, entity.ErrUnauthenticated
	}

	return claims, nil
}
