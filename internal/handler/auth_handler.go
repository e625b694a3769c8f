package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"moviematch/internal/middleware"
	"moviematch/internal/models"
	"moviematch/internal/service"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register creates a new account.
// POST /api/auth/register
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	user, token, err := h.svc.Register(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) || errors.Is(err, service.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
		}
		slog.Error("failed to register user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "registration failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"token":        token,
	})
}

// Login verifies credentials and issues a token.
// POST /api/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	user, token, err := h.svc.Login(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "invalid credentials"})
		}
		slog.Error("failed to log in user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "login failed"})
	}

	return c.JSON(fiber.Map{
		"message": "Logged in successfully",
		"token":   token,
		"user":    fiber.Map{"id": user.ID, "email": user.Email},
	})
}

// Me returns the authenticated user.
// GET /api/auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	user, err := h.svc.GetUser(c.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "unauthorized"})
		}
		slog.Error("failed to load current user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}

	return c.JSON(fiber.Map{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
	})
}
