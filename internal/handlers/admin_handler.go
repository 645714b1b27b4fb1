package handlers

import (
	"errors"
	"log"

	"mialtar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the admin-only overview and newsletter endpoints.
type AdminHandler struct {
	adminService *services.AdminService
	validate     *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the admin routes. Every route requires a token
// carrying the admin role; everyone else receives 403.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, authRequired, adminRequired fiber.Handler) {
	adminRoutes := router.Group("/admin", authRequired, adminRequired)
	adminRoutes.Get("/users", h.HandleOverview)
	adminRoutes.Get("/users/all", h.HandleListUsers)
	adminRoutes.Post("/newsletter", h.HandleNewsletter)
}

// HandleOverview returns every username plus all sessions grouped by owner.
func (h *AdminHandler) HandleOverview(c *fiber.Ctx) error {
	users, sessions, err := h.adminService.Overview()
	if err != nil {
		log.Printf("Error building admin overview: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch admin data."})
	}
	return c.JSON(fiber.Map{
		"users":    users,
		"sessions": sessions,
	})
}

// HandleListUsers returns every account with its email address.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers()
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch users."})
	}
	return c.JSON(users)
}

// NewsletterRequest represents the request body for a newsletter batch.
type NewsletterRequest struct {
	Subject    string   `json:"subject" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	Recipients []string `json:"recipients" validate:"required,min=1,dive,email"`
}

// HandleNewsletter emails each recipient individually and reports how many
// sends succeeded and failed.
func (h *AdminHandler) HandleNewsletter(c *fiber.Ctx) error {
	var req NewsletterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Subject, content, and recipients required."})
	}

	result, err := h.adminService.SendNewsletter(req.Subject, req.Content, req.Recipients)
	if err != nil {
		if errors.Is(err, services.ErrMailNotConfigured) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Email service not configured."})
		}
		log.Printf("Error sending newsletter: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to send newsletter."})
	}

	return c.JSON(fiber.Map{
		"message": "Newsletter sent.",
		"sent":    result.Sent,
		"failed":  result.Failed,
	})
}
