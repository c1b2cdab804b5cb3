package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role the back office issues
const RoleAdmin = "admin"

// ErrExpired is returned by Parse for a well-formed but expired token
var ErrExpired = errors.New("token has expired")

// AdminClaims are the claims carried by an admin session token
type AdminClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AdminTokenService signs and validates HS256 admin session tokens
type AdminTokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewAdminTokenService creates a token service with the given signing secret and lifetime
func NewAdminTokenService(secret string, ttl time.Duration) *AdminTokenService {
	return &AdminTokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the admin identified by subject
func (s *AdminTokenService) Issue(subject, username string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := AdminClaims{
		Username: username,
		Role:     RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign admin token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates signature, algorithm and expiry and returns the claims
func (s *AdminTokenService) Parse(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, err
	}
	if !token.Valid || claims.Role != RoleAdmin {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
