package service

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"shopcheck/internal/model"
	"shopcheck/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid gateway secret or unknown user")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService issues and validates tokens for the bot gateway. The
// gateway authenticates with a shared secret plus the chat identity of
// the person it is relaying; the token carries the resolved role.
type AuthService struct {
	userRepo      repository.UserRepo
	gatewaySecret string
	jwtSecret     []byte
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepo) *AuthService {
	gatewaySecret := os.Getenv("GATEWAY_SECRET")
	if gatewaySecret == "" {
		gatewaySecret = "dev-gateway-secret"
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "super-secret-key-change-in-production"
	}

	return &AuthService{
		userRepo:      userRepo,
		gatewaySecret: gatewaySecret,
		jwtSecret:     []byte(jwtSecret),
	}
}

// Login exchanges the gateway secret and a chat id for a user token
func (s *AuthService) Login(ctx context.Context, chatID int64, secret string) (*model.LoginResponse, error) {
	if secret != s.gatewaySecret {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	claims := &model.UserClaims{
		UserID: user.ID,
		ChatID: user.ChatID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:    tokenString,
		UserID:   user.ID,
		FullName: user.FullName,
		Role:     user.Role,
	}, nil
}

// ValidateToken validates a JWT and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
