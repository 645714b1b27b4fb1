package handlers

import (
	"errors"
	"fmt"
	"log"

	"mialtar/internal/middleware"
	"mialtar/internal/models"
	"mialtar/internal/repositories"
	"mialtar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and account recovery.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
// Registration, login and the reset flow are public; profile and password
// change require a token.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/profile", authRequired, h.HandleProfile)
	authRoutes.Post("/update-password", authRequired, h.HandleUpdatePassword)
	authRoutes.Post("/request-password-reset", h.HandleRequestPasswordReset)
	authRoutes.Post("/reset-password", h.HandleResetPassword)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(user); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Username, email, and password required.",
			"errors":  errorMessages,
		})
	}

	if err := h.authService.RegisterUser(&user); err != nil {
		log.Printf("Error registering user: %v", err)
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "User already exists."})
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email already in use."})
		case errors.Is(err, repositories.ErrDuplicate):
			// A conflict the pre-checks missed, e.g. a concurrent register or
			// a soft-deleted account still holding the unique index.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "User already exists."})
		default:
			return c.Status(statusForError(err)).JSON(fiber.Map{"message": "Registration failed."})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered."})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Username and password required.",
		})
	}

	token, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		// Same response for unknown user and wrong password.
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials."})
		}
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Login failed."})
	}

	return c.JSON(fiber.Map{"token": token})
}

// HandleProfile returns the authenticated caller's identity.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"username": middleware.Username(c)})
}

// UpdatePasswordRequest represents the request body for a password change.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// HandleUpdatePassword changes the caller's password after verifying the
// current one.
func (h *AuthHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Current and new password required."})
	}

	if err := h.authService.UpdatePassword(middleware.Username(c), req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Current password is incorrect."})
		}
		log.Printf("Error updating password: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{"message": "Password update failed."})
	}

	return c.JSON(fiber.Map{"message": "Password updated."})
}

// PasswordResetRequest represents the request body for requesting a reset link.
type PasswordResetRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// HandleRequestPasswordReset generates a reset token and emails the reset link.
func (h *AuthHandler) HandleRequestPasswordReset(c *fiber.Ctx) error {
	var req PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if req.Username == "" && req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username or email is required."})
	}

	if err := h.authService.RequestPasswordReset(req.Username, req.Email); err != nil {
		log.Printf("Password reset request error: %v", err)
		if status := statusForError(err); status == fiber.StatusNotFound {
			return c.Status(status).JSON(fiber.Map{"message": "User not found."})
		}
		// Mail delivery failure is user-visible here: the flow is pointless
		// without the email.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to send password reset email."})
	}

	return c.JSON(fiber.Map{"message": "Password reset email sent successfully."})
}

// ResetPasswordRequest represents the request body for completing a reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// HandleResetPassword consumes a reset token and sets the new password.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Token and new password are required."})
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid or expired reset token."})
		}
		log.Printf("Password reset error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to reset password."})
	}

	return c.JSON(fiber.Map{"message": "Password has been reset successfully."})
}
