package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// CallerTokenService перевіряє bearer токени, якими Looply підписує запити до цього сервісу
type CallerTokenService interface {
	IssueToken(userID string, ttl time.Duration) (string, error)
	VerifyToken(tokenString string) (string, error)
}

// callerTokenService реалізація CallerTokenService (HS256)
type callerTokenService struct {
	secret   []byte
	issuer   string
	audience string
}

// NewCallerTokenService створює сервіс перевірки токенів викликача
func NewCallerTokenService(secret, issuer, audience string) CallerTokenService {
	return &callerTokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}
}

// CallerClaims представляє claims токена викликача; user ID передається в sub
type CallerClaims struct {
	jwt.RegisteredClaims
}

// IssueToken підписує токен для користувача (використовується CLI та тестами)
func (s *callerTokenService) IssueToken(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}

	now := time.Now()
	claims := CallerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        generateJTI(),
		},
	}
	if s.issuer != "" {
		claims.Issuer = s.issuer
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign caller token: %w", err)
	}

	logrus.WithField("user_id", userID).Debug("Caller token issued")
	return signed, nil
}

// VerifyToken валідує токен і повертає user ID з claim sub
func (s *callerTokenService) VerifyToken(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &CallerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to parse caller token: %w", err)
	}

	claims, ok := token.Claims.(*CallerClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid caller token claims")
	}
	return claims.Subject, nil
}

// generateJTI генерує унікальний JWT ID
func generateJTI() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
