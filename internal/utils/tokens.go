package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the decoded payload of an access token. A token is only
// accepted while a device-session row matching DeviceToken still exists.
type TokenClaims struct {
	UserID      string
	Role        string
	DeviceToken string
}

var ErrInvalidToken = errors.New("invalid or expired token")

// NewAccessToken signs an HS256 JWT for a user bound to one device session.
func NewAccessToken(secret, userID, role, deviceToken string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub":          userID,
		"role":         role,
		"device_token": deviceToken,
		"exp":          exp.Unix(),
		"iat":          time.Now().UTC().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccessToken validates the signature and expiry of a token and
// extracts its claims.
func ParseAccessToken(secret, raw string) (*TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	deviceToken, _ := claims["device_token"].(string)
	if userID == "" || deviceToken == "" {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		UserID:      userID,
		Role:        role,
		DeviceToken: deviceToken,
	}, nil
}
