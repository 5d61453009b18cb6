package entity

import (
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username" validate:"required,min=3,max=50"`
	Email        string    `json:"email" validate:"required,email,max=254"`
	PasswordHash string    `json:"-"` // Никогда не отправляем пароль
	Avatar       int       `json:"avatar" validate:"min=1,max=8"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Регистрация
type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	RememberMe bool   `json:"rememberMe"`
}

func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *RegisterRequest) Validate() error {
	return validateStruct(r, ErrInvalidUserData)
}

// Логин
type LoginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

func (r *LoginRequest) Validate() error {
	return validateStruct(r, ErrInvalidUserData)
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// JWT Claims
type JWTClaims struct {
	UserID     string
	RememberMe bool
	ExpiresAt  time.Time
}

// Principal - аутентифицированная личность, полученная из токена
type Principal struct {
	UserID string
}
