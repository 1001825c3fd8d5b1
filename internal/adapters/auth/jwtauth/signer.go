// Package jwtauth firma y verifica los tokens de sesión de la API (HS256).
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medication-manager/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("jwt secret not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
)

const DefaultTTL = 24 * time.Hour

// Signer implementa auth.AuthVerifier y además emite tokens.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

var (
	_ auth.AuthVerifier = (*Signer)(nil)
	_ auth.Issuer       = (*Signer)(nil)
)

func NewSigner(secret []byte, issuer string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{
		secret: secret,
		issuer: strings.TrimSpace(issuer),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue firma un token con sub = user id.
func (s *Signer) Issue(c auth.Claims) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", ErrNotConfigured
	}
	uid := strings.TrimSpace(c.UserID)
	if uid == "" {
		return "", errors.New("claims missing user id")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub":   uid,
		"email": c.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}
	if s.issuer != "" {
		claims["iss"] = s.issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Signer) Verify(_ context.Context, token string) (auth.Claims, error) {
	if s == nil || len(s.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Claims{}, ErrExpiredToken
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Claims{}, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	email, _ := mc["email"].(string)

	return auth.Claims{UserID: sub, Email: email}, nil
}
