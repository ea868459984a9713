package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dappvotes/internal/domain"
	"dappvotes/pkg/errors"
	"dappvotes/pkg/logger"
)

// Service turns bearer tokens into caller addresses
type Service struct {
	secret []byte
	logger *logger.Logger
}

// NewService creates a new auth service signing with HS256 secret
func NewService(secret string, logger *logger.Logger) *Service {
	return &Service{
		secret: []byte(secret),
		logger: logger,
	}
}

// ValidateToken verifies signature and expiry and returns the token subject
// as the caller address.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (domain.Address, error) {
	if len(s.secret) == 0 {
		s.logger.Error("JWT_SECRET not configured")
		return "", errors.NewAuthenticationError("JWT validation not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verify the signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		s.logger.WithError(err).Debug("Failed to parse/validate JWT token")
		return "", errors.NewAuthenticationError("Invalid or expired token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.NewAuthenticationError("Token has no subject")
	}
	return domain.Address(sub), nil
}

// IssueToken signs a token for caller valid for ttl
func (s *Service) IssueToken(caller domain.Address, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.NewAuthenticationError("JWT signing not configured")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   string(caller),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(s.secret)
}
