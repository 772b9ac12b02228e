package services

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const tokenTTL = 24 * time.Hour

var ErrTokenRevoked = errors.New("token has been revoked")

type AuthService struct {
	secretKey []byte
	logger    zerolog.Logger

	mu      sync.Mutex
	revoked map[string]time.Time
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthService(secret string, logger zerolog.Logger) *AuthService {
	if secret == "" {
		secret = "default-secret-key-change-in-production"
		logger.Warn().Msg("JWT_SECRET not set, using default key")
	}

	return &AuthService{
		secretKey: []byte(secret),
		logger:    logger,
		revoked:   make(map[string]time.Time),
	}
}

func (s *AuthService) GenerateToken(userID, email, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error generating token")
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if s.isRevoked(claims.ID) {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Revoke rejects the token with claims c until it would have expired anyway.
func (s *AuthService) Revoke(c *Claims) {
	if c == nil || c.ID == "" {
		return
	}
	expires := time.Now().Add(tokenTTL)
	if c.ExpiresAt != nil {
		expires = c.ExpiresAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(time.Now())
	s.revoked[c.ID] = expires
	s.logger.Info().Str("user_id", c.UserID).Msg("Token revoked")
}

func (s *AuthService) isRevoked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[id]
	return ok
}

func (s *AuthService) pruneLocked(now time.Time) {
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
}
