package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/feefines/internal/domain"
)

const issuer = "feefines"

// Claims carries the staff member acting on fees/fines.
type Claims struct {
	UserID   string      `json:"user_id"`
	UserName string      `json:"user_name"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// StaffUser returns the staff member described by the claims.
func (c *Claims) StaffUser() *domain.StaffUser {
	return &domain.StaffUser{
		ID:       c.UserID,
		UserName: c.UserName,
		Role:     c.Role,
	}
}

// JWTManager issues and verifies HS256 staff tokens.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Generate signs a token for a staff member.
func (m *JWTManager) Generate(user *domain.StaffUser) (string, error) {
	if !user.Role.IsValid() {
		return "", fmt.Errorf("generate token: invalid role %q", user.Role)
	}

	now := m.now()
	claims := Claims{
		UserID:   user.ID,
		UserName: user.UserName,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify checks the signature and expiry of a token and returns its claims.
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Role.IsValid() {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
