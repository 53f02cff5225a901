package auth

import (
	"fmt"
	"time"

	"busgo/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager mints and parses the HS256 identity tokens carried in
// cookies. Secrets are injected at construction, never read from globals.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) TokenManager {
	return TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// MintAccess issues the short-lived access token with the principal claims.
func (m TokenManager) MintAccess(userID int64, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(m.accessTTL).Unix(),
	})
	return token.SignedString(m.accessSecret)
}

// MintRefresh issues the long-lived refresh token. It carries only the
// user id; role is re-resolved at refresh time.
func (m TokenManager) MintRefresh(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(m.refreshTTL).Unix(),
	})
	return token.SignedString(m.refreshSecret)
}

// ParseAccess validates an access token and returns the principal.
func (m TokenManager) ParseAccess(raw string) (domain.RequestContext, error) {
	claims, err := parseHS256(raw, m.accessSecret)
	if err != nil {
		return domain.RequestContext{}, err
	}

	uid, ok := claims["user_id"].(float64)
	if !ok || uid <= 0 {
		return domain.RequestContext{}, domain.AuthorizationError{Msg: "unauthorized request, please login again"}
	}
	role, _ := claims["role"].(string)

	return domain.RequestContext{UserID: domain.ID(int64(uid)), Role: role}, nil
}

// ParseRefresh validates a refresh token and returns the user id.
func (m TokenManager) ParseRefresh(raw string) (int64, error) {
	claims, err := parseHS256(raw, m.refreshSecret)
	if err != nil {
		return 0, err
	}
	uid, ok := claims["user_id"].(float64)
	if !ok || uid <= 0 {
		return 0, domain.AuthorizationError{Msg: "unauthorized request, please login again"}
	}
	return int64(uid), nil
}

func parseHS256(raw string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.AuthorizationError{Msg: "unauthorized request, please login again", Err: err}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.AuthorizationError{Msg: "unauthorized request, please login again"}
	}
	return claims, nil
}
