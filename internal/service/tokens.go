// Package service — TokenService mints and validates the signed JWTs used
// by the auth flows and the request middleware.
package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neurobudget/neurobudget-api/internal/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	tokenIssuer = "neurobudget-api"
)

// JWTClaims are the custom claims carried by both access and refresh tokens.
// Sub is the user's email; Type discriminates the two token kinds so one can
// never be presented where the other is expected.
type JWTClaims struct {
	Sub  string `json:"sub"`
	UID  string `json:"uid"`
	Role string `json:"role"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService signs and validates HS256 JWTs. Tokens are self-contained:
// there is no server-side token state, so a refresh token stays valid until
// its expiry regardless of how often it is used.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a token service with the given signing secret and
// lifetimes.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL exposes the configured access token lifetime (for expires_in
// fields in responses).
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// IssuePair signs a fresh access/refresh token pair for user.
func (s *TokenService) IssuePair(user *domain.User) (*domain.TokenPair, error) {
	access, err := s.sign(user, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.sign(user, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateAccess parses and verifies an access token.
func (s *TokenService) ValidateAccess(tokenString string) (*JWTClaims, error) {
	return s.validate(tokenString, tokenTypeAccess)
}

// ValidateRefresh parses and verifies a refresh token.
func (s *TokenService) ValidateRefresh(tokenString string) (*JWTClaims, error) {
	return s.validate(tokenString, tokenTypeRefresh)
}

func (s *TokenService) validate(tokenString, wantType string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "invalid token"}
	}

	if claims.Type != wantType {
		return nil, &domain.ErrUnauthorized{Message: "invalid token type"}
	}

	return claims, nil
}

func (s *TokenService) sign(user *domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Sub:  user.Email,
		UID:  user.ID,
		Role: string(user.Role),
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
