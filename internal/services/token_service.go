package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens are valid for 10 hours from issuance.
const tokenValidity = 10 * time.Hour

type TokenService interface {
	Generate(email string) (string, error)
	Validate(token, email string) error
	Subject(token string) (string, error)
}

type tokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) TokenService {
	return &tokenService{secret: []byte(secret), now: time.Now}
}

func (s *tokenService) Generate(email string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenValidity)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *tokenService) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token not valid")
	}
	return claims, nil
}

func (s *tokenService) Validate(tokenString, email string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	if claims.Subject != email {
		return errors.New("token subject mismatch")
	}
	return nil
}

func (s *tokenService) Subject(tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
