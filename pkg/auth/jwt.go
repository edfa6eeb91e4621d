package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Audience separates admin back-office tokens from reader portal tokens.
type Audience string

const (
	AudienceAdmin  Audience = "admin"
	AudienceReader Audience = "reader"
)

// Claims carried by NewsAI access and refresh tokens.
type Claims struct {
	UserID   string   `json:"user_id"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Audience Audience `json:"aud_area"`
	Refresh  bool     `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

// Config holds signing secrets and expiries
type Config struct {
	Secret        string
	RefreshSecret string
	Expiry        time.Duration
	RefreshExpiry time.Duration
}

// TokenService issues and validates JWT tokens
type TokenService struct {
	cfg Config
}

func NewTokenService(cfg Config) *TokenService {
	if cfg.Expiry == 0 {
		cfg.Expiry = 24 * time.Hour
	}
	if cfg.RefreshExpiry == 0 {
		cfg.RefreshExpiry = 7 * 24 * time.Hour
	}
	return &TokenService{cfg: cfg}
}

func (s *TokenService) GenerateAccessToken(userID uuid.UUID, email, role string, aud Audience) (string, error) {
	return s.generate(userID, email, role, aud, false, s.cfg.Secret, s.cfg.Expiry)
}

func (s *TokenService) GenerateRefreshToken(userID uuid.UUID, email, role string, aud Audience) (string, error) {
	return s.generate(userID, email, role, aud, true, s.cfg.RefreshSecret, s.cfg.RefreshExpiry)
}

func (s *TokenService) generate(userID uuid.UUID, email, role string, aud Audience, refresh bool, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID.String(),
		Email:    email,
		Role:     role,
		Audience: aud,
		Refresh:  refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.cfg.Secret)
}

func (s *TokenService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := s.validate(tokenString, s.cfg.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if !claims.Refresh {
		return nil, fmt.Errorf("not a refresh token")
	}
	return claims, nil
}

func (s *TokenService) validate(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
