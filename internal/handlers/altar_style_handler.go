package handlers

import (
	"errors"
	"log"

	"mialtar/internal/middleware"
	"mialtar/internal/models"
	"mialtar/internal/repositories"
	"mialtar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AltarStyleHandler handles HTTP requests for per-user background templates.
type AltarStyleHandler struct {
	styleService *services.AltarStyleService
	validate     *validator.Validate
}

// NewAltarStyleHandler creates a new AltarStyleHandler.
func NewAltarStyleHandler(styleService *services.AltarStyleService) *AltarStyleHandler {
	return &AltarStyleHandler{
		styleService: styleService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the altar style routes; all of them require a token.
func (h *AltarStyleHandler) RegisterRoutes(router fiber.Router) {
	styleRoutes := router.Group("/altar-styles")
	styleRoutes.Get("/", h.HandleList)
	styleRoutes.Post("/", h.HandleCreate)
	styleRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList returns all altar styles owned by the caller.
func (h *AltarStyleHandler) HandleList(c *fiber.Ctx) error {
	styles, err := h.styleService.ListAltarStyles(middleware.Username(c))
	if err != nil {
		log.Printf("Error listing altar styles: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch altar styles."})
	}
	return c.JSON(styles)
}

// CreateAltarStyleRequest represents the request body for creating a style.
type CreateAltarStyleRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
	Image string `json:"image" validate:"required"`
}

// HandleCreate inserts a new altar style owned by the caller.
func (h *AltarStyleHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateAltarStyleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing altar style data."})
	}

	style := &models.AltarStyle{
		Username: middleware.Username(c),
		Name:     req.Name,
		Value:    req.Value,
		Image:    req.Image,
	}
	if err := h.styleService.CreateAltarStyle(style); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Style already exists."})
		}
		log.Printf("Error creating altar style: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to save altar style."})
	}

	return c.Status(fiber.StatusCreated).JSON(style)
}

// HandleDelete removes an altar style by ID, scoped to the caller.
func (h *AltarStyleHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.styleService.DeleteAltarStyle(c.Params("id"), middleware.Username(c)); err != nil {
		log.Printf("Error deleting altar style: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to delete altar style."})
	}
	return c.JSON(fiber.Map{"message": "Altar style deleted."})
}
