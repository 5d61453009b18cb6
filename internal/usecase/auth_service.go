package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/St1cky1/todo-service/internal/entity"
	"github.com/St1cky1/todo-service/internal/infrastructure/auth"
	"github.com/St1cky1/todo-service/internal/repository"
)

const avatarCount = 8

type AuthService struct {
	userRepo        repository.IUserRepository
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	now             func() time.Time
}

func NewAuthService(
	userRepo repository.IUserRepository,
	passwordManager *auth.PasswordManager,
	jwtManager *auth.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		passwordManager: passwordManager,
		jwtManager:      jwtManager,
		now:             time.Now,
	}
}

// Register регистрирует нового пользователя
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Проверяем, что username и email свободны
	if err := s.ensureFree(ctx, s.userRepo.GetByUsername, req.Username); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, s.userRepo.GetByEmail, req.Email); err != nil {
		return nil, err
	}

	passwordHash, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	user, err := s.userRepo.Create(ctx, &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Avatar:       rand.IntN(avatarCount) + 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(user, req.RememberMe)
}

// Login логинит пользователя. Неизвестный логин и неверный пароль неразличимы.
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.passwordManager.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, entity.ErrInvalidCredentials
	}

	return s.issue(user, req.RememberMe)
}

// Verify возвращает пользователя по токену; удаленный пользователь считается неавторизованным
func (s *AuthService) Verify(ctx context.Context, token string) (*entity.User, error) {
	principal := s.jwtManager.VerifyToken(token)
	if principal == nil {
		return nil, entity.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, entity.ErrUnauthorized
		}
		return nil, err
	}

	return user, nil
}

func (s *AuthService) issue(user *entity.User, rememberMe bool) (*entity.AuthResponse, error) {
	token, err := s.jwtManager.GenerateToken(user.ID, rememberMe)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &entity.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

func (s *AuthService) ensureFree(ctx context.Context, lookup func(context.Context, string) (*entity.User, error), value string) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return entity.ErrUserExists
	case errors.Is(err, entity.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check existing user: %w", err)
	}
}
