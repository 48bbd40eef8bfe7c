package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 12 * time.Hour

// Credentials identify the single store administrator.
type Credentials struct {
	Email        string
	PasswordHash string
	Secret       string
	TokenTTL     time.Duration
}

type service struct {
	creds Credentials
	now   func() time.Time
}

// NewService creates a new auth service.
func NewService(creds Credentials) Service {
	if creds.TokenTTL <= 0 {
		creds.TokenTTL = defaultTokenTTL
	}
	return &service{creds: creds, now: time.Now}
}

func (s *service) Login(_ context.Context, email, password string) (string, error) {
	if s.creds.Email == "" || s.creds.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.creds.Email) {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	claims := &jwt.StandardClaims{
		Subject:   s.creds.Email,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.creds.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.creds.Secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks the signature and expiry of a token and returns its subject
func (s *service) Verify(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.creds.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject != s.creds.Email {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
