package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/St1cky1/todo-service/internal/entity"
	"github.com/St1cky1/todo-service/internal/infrastructure/auth"
	"github.com/St1cky1/todo-service/internal/usecase"
)

type AuthHandler struct {
	authService *usecase.AuthService
	errors      errorMapper
}

func NewAuthHandler(authService *usecase.AuthService, exposeDetails bool, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		errors:      errorMapper{exposeDetails: exposeDetails, logger: logger},
	}
}

type VerifyResponse struct {
	User *entity.User `json:"user"`
}

// Register - POST /api/auth/register
func (h *AuthHandler) Register(ctx context.Context, req Request) Response {
	if req.Method == http.MethodOptions {
		return Response{Status: http.StatusOK}
	}
	if req.Method != http.MethodPost {
		return fail(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}

	var body entity.RegisterRequest
	if err := decodeBody(req.Body, &body); err != nil {
		return h.errors.invalidJSON(err)
	}

	resp, err := h.authService.Register(ctx, &body)
	if err != nil {
		if errors.Is(err, entity.ErrUserExists) {
			return fail(http.StatusConflict, "Username or email already taken")
		}
		return h.errors.respond("register", err, "Failed to register")
	}

	return Response{Status: http.StatusCreated, Body: resp}
}

// Login - POST /api/auth/login
func (h *AuthHandler) Login(ctx context.Context, req Request) Response {
	if req.Method == http.MethodOptions {
		return Response{Status: http.StatusOK}
	}
	if req.Method != http.MethodPost {
		return fail(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}

	var body entity.LoginRequest
	if err := decodeBody(req.Body, &body); err != nil {
		return h.errors.invalidJSON(err)
	}

	resp, err := h.authService.Login(ctx, &body)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidCredentials) {
			return fail(http.StatusUnauthorized, "Invalid credentials")
		}
		return h.errors.respond("login", err, "Failed to login")
	}

	return ok(resp)
}

// Verify - GET /api/auth/verify
func (h *AuthHandler) Verify(ctx context.Context, req Request) Response {
	if req.Method == http.MethodOptions {
		return Response{Status: http.StatusOK}
	}
	if req.Method != http.MethodGet {
		return fail(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}

	user, err := h.authService.Verify(ctx, auth.ExtractToken(req.Authorization))
	if err != nil {
		return h.errors.respond("verify", err, "Failed to verify token")
	}

	return ok(VerifyResponse{User: user})
}
