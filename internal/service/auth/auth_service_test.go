package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dappvotes/internal/domain"
	"dappvotes/pkg/errors"
	"dappvotes/pkg/logger"
)

func TestService_IssueAndValidate(t *testing.T) {
	s := NewService("test-secret", logger.NewNop())

	token, err := s.IssueToken("wasm1alice", time.Hour)
	require.NoError(t, err)

	caller, err := s.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.Address("wasm1alice"), caller)
}

func TestService_ValidateToken_Rejects(t *testing.T) {
	s := NewService("test-secret", logger.NewNop())
	other := NewService("other-secret", logger.NewNop())

	expired, err := s.IssueToken("alice", -time.Minute)
	require.NoError(t, err)
	foreign, err := other.IssueToken("alice", time.Hour)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"expired", expired},
		{"wrong secret", foreign},
		{"no subject", noSubject},
		{"no expiry", noExpiry},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ValidateToken(context.Background(), tt.token)
			assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication), "got %v", err)
		})
	}
}

func TestService_NoSecret(t *testing.T) {
	s := NewService("", logger.NewNop())

	_, err := s.ValidateToken(context.Background(), "x")
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))
	_, err = s.IssueToken("alice", time.Hour)
	assert.Error(t, err)
}
