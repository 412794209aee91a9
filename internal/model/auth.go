package model

import "github.com/golang-jwt/jwt/v5"

// LoginRequest is the bot gateway's credential exchange
type LoginRequest struct {
	ChatID int64  `json:"chatId"`
	Secret string `json:"secret"`
}

// LoginResponse carries the issued token and resolved identity
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// UserClaims are embedded in every issued JWT
type UserClaims struct {
	UserID string `json:"userId"`
	ChatID int64  `json:"chatId"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
