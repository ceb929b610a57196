package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret         []byte
	jwtDefaultExpiry  = 30 * 24 * time.Hour
	jwtShortExpiry    = 24 * time.Hour
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrTokensNotReady = errors.New("token service not initialized")
)

// InitTokens configures the signing secret and expiries. Called once from
// main before the router starts serving.
func InitTokens(secret string, defaultExpiry, shortExpiry time.Duration) {
	jwtSecret = []byte(secret)
	if defaultExpiry > 0 {
		jwtDefaultExpiry = defaultExpiry
	}
	if shortExpiry > 0 {
		jwtShortExpiry = shortExpiry
	}
}

// GenerateToken signs a session token for the user. rememberMe selects the
// 30-day expiry; otherwise the token lives 24 hours. The expiry is encoded in
// the token itself.
func GenerateToken(userID string, rememberMe bool) (string, error) {
	if len(jwtSecret) == 0 {
		return "", ErrTokensNotReady
	}
	expiry := jwtShortExpiry
	if rememberMe {
		expiry = jwtDefaultExpiry
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(expiry).Unix(),
		"iat": time.Now().Unix(),
	})
	return token.SignedString(jwtSecret)
}

// ParseToken validates a session token and returns the user id it carries.
func ParseToken(tokenString string) (string, error) {
	if len(jwtSecret) == 0 {
		return "", ErrTokensNotReady
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return "", ErrInvalidToken
	}
	return id, nil
}
