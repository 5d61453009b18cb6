package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/St1cky1/todo-service/internal/entity"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const bearerPrefix = "Bearer "

type JWTConfig struct {
	SecretKey     string
	Issuer        string
	TokenTTL      time.Duration
	RememberMeTTL time.Duration
}

type claims struct {
	UserID     string `json:"user_id"`
	RememberMe bool   `json:"remember_me,omitempty"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	config JWTConfig
	now    func() time.Time
}

func NewJWTManager(config JWTConfig) *JWTManager {
	return &JWTManager{
		config: config,
		now:    time.Now,
	}
}

// GenerateToken выдает токен на TokenTTL (7 дней) или на RememberMeTTL (30 дней)
func (m *JWTManager) GenerateToken(userID string, rememberMe bool) (string, error) {
	ttl := m.config.TokenTTL
	if rememberMe {
		ttl = m.config.RememberMeTTL
	}

	now := m.now()
	c := claims{
		UserID:     userID,
		RememberMe: rememberMe,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenString, err := token.SignedString([]byte(m.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken проверяет подпись, алгоритм и срок действия
func (m *JWTManager) ValidateToken(tokenString string) (*entity.JWTClaims, error) {
	parsed := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.SecretKey), nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || parsed.UserID == "" {
		return nil, ErrInvalidToken
	}

	var expiresAt time.Time
	if parsed.ExpiresAt != nil {
		expiresAt = parsed.ExpiresAt.Time
	}

	return &entity.JWTClaims{
		UserID:     parsed.UserID,
		RememberMe: parsed.RememberMe,
		ExpiresAt:  expiresAt,
	}, nil
}

// VerifyToken никогда не возвращает ошибку: любой сбой - это nil
func (m *JWTManager) VerifyToken(tokenString string) *entity.Principal {
	if tokenString == "" {
		return nil
	}
	c, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil
	}
	return &entity.Principal{UserID: c.UserID}
}

// ExtractToken достает токен из заголовка "Authorization: Bearer <token>".
// Пустая строка - заголовка нет или он некорректный.
func ExtractToken(authorization string) string {
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(authorization[len(bearerPrefix):])
}
