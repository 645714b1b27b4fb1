package handlers

import (
	"errors"
	"log"

	"mialtar/internal/models"
	"mialtar/internal/repositories"
	"mialtar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OfferingHandler handles HTTP requests for the global offering catalog.
type OfferingHandler struct {
	offeringService *services.OfferingService
	validate        *validator.Validate
}

// NewOfferingHandler creates a new OfferingHandler.
func NewOfferingHandler(offeringService *services.OfferingService) *OfferingHandler {
	return &OfferingHandler{
		offeringService: offeringService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the offering routes. Listing and creating require
// a token; deletion additionally requires the admin role, since the catalog
// is shared by every user.
func (h *OfferingHandler) RegisterRoutes(router fiber.Router, adminRequired fiber.Handler) {
	offeringRoutes := router.Group("/offerings")
	offeringRoutes.Get("/", h.HandleList)
	offeringRoutes.Post("/", h.HandleCreate)
	offeringRoutes.Delete("/:id", adminRequired, h.HandleDelete)
}

// HandleList returns the full offering catalog.
func (h *OfferingHandler) HandleList(c *fiber.Ctx) error {
	offerings, err := h.offeringService.ListOfferings()
	if err != nil {
		log.Printf("Error listing offerings: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch offerings."})
	}
	return c.JSON(offerings)
}

// CreateOfferingRequest represents the request body for creating an offering.
type CreateOfferingRequest struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
	Src      string `json:"src" validate:"required"`
}

// HandleCreate inserts a new offering into the global catalog.
func (h *OfferingHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateOfferingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing offering data."})
	}

	offering := &models.Offering{
		Name:     req.Name,
		Category: req.Category,
		Src:      req.Src,
	}
	if err := h.offeringService.CreateOffering(offering); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Offering already exists in this category."})
		}
		log.Printf("Error creating offering: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to save offering."})
	}

	return c.Status(fiber.StatusCreated).JSON(offering)
}

// HandleDelete removes an offering from the global catalog.
func (h *OfferingHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.offeringService.DeleteOffering(c.Params("id")); err != nil {
		log.Printf("Error deleting offering: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to delete offering."})
	}
	return c.JSON(fiber.Map{"message": "Offering deleted."})
}
