package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims binds a session ID to the cookie it travels in. The cookie value
// is this claim set signed with HS256, so a tampered session ID fails
// before Redis is ever consulted.
type Claims struct {
	SessionID string `json:"session_id"`
	UserID    uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// SignSession wraps a session ID into a signed cookie value.
func SignSession(secret, sessionID string, userID uint64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSession validates the cookie value and extracts the claims.
func ParseSession(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid session token")
}
