// Package auth resolves caller identities from bearer tokens and guards admin and bot routes.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"quickbite/order-svc/internal/domain"
)

const DefaultTokenTTL = 24 * time.Hour

type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator resolves the caller of a request; ok is false when no valid credential is present.
type Authenticator interface {
	Identify(r *http.Request) (domain.Identity, bool)
}

type TokenAuthenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenAuthenticator(secret string, ttl time.Duration) *TokenAuthenticator {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenAuthenticator{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (a *TokenAuthenticator) Issue(userID int64, role domain.Role) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("auth: token secret not configured")
	}
	now := a.now()
	claims := &Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *TokenAuthenticator) Parse(tokenStr string) (domain.Identity, error) {
	if len(a.secret) == 0 {
		return domain.Identity{}, errors.New("auth: token secret not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.UserID <= 0 {
		return domain.Identity{}, fmt.Errorf("%w: token has no user", domain.ErrUnauthorized)
	}
	role := domain.Role(claims.Role)
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}
	return domain.Identity{UserID: claims.UserID, Role: role}, nil
}

func (a *TokenAuthenticator) Identify(r *http.Request) (domain.Identity, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return domain.Identity{}, false
	}
	identity, err := a.Parse(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
	if err != nil {
		return domain.Identity{}, false
	}
	return identity, true
}
