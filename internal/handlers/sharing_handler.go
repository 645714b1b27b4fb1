package handlers

import (
	"errors"
	"log"
	"strings"

	"mialtar/internal/middleware"
	"mialtar/internal/repositories"
	"mialtar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SharingHandler handles the sharing lifecycle of a session and the public,
// unauthenticated altar view.
type SharingHandler struct {
	sharingService *services.SharingService
}

// NewSharingHandler creates a new SharingHandler.
func NewSharingHandler(sharingService *services.SharingService) *SharingHandler {
	return &SharingHandler{
		sharingService: sharingService,
	}
}

// RegisterRoutes registers the sharing routes under /api. The settings routes
// require a token and re-verify session ownership; the public routes are
// keyed only by the opaque share ID and carry a rate limit.
func (h *SharingHandler) RegisterRoutes(router fiber.Router, authRequired, publicRateLimit fiber.Handler) {
	settings := router.Group("/sessions/:sessionId/sharing", authRequired)
	settings.Get("/", h.HandleGetSettings)
	settings.Put("/", h.HandleUpdateSettings)
	settings.Delete("/", h.HandleDeleteSettings)

	public := router.Group("/public/altar/:shareId", publicRateLimit)
	public.Get("/", h.HandleGetPublicAltar)
	public.Get("/stories", h.HandleGetStories)
	public.Post("/stories", h.HandleAddStory)
}

// HandleGetSettings returns the share state of the caller's session.
func (h *SharingHandler) HandleGetSettings(c *fiber.Ctx) error {
	settings, err := h.sharingService.GetSettings(middleware.Username(c), c.Params("sessionId"))
	if err != nil {
		return h.sharingError(c, "Get sharing settings", err)
	}
	return c.JSON(settings)
}

// UpdateSharingRequest represents the request body for toggling sharing.
type UpdateSharingRequest struct {
	Enabled bool `json:"enabled"`
}

// HandleUpdateSettings enables or disables sharing for the caller's session.
func (h *SharingHandler) HandleUpdateSettings(c *fiber.Ctx) error {
	var req UpdateSharingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	settings, err := h.sharingService.UpdateSettings(middleware.Username(c), c.Params("sessionId"), req.Enabled)
	if err != nil {
		return h.sharingError(c, "Update sharing settings", err)
	}
	return c.JSON(settings)
}

// HandleDeleteSettings removes sharing and all stories for the caller's session.
func (h *SharingHandler) HandleDeleteSettings(c *fiber.Ctx) error {
	if err := h.sharingService.DeleteSettings(middleware.Username(c), c.Params("sessionId")); err != nil {
		return h.sharingError(c, "Delete sharing settings", err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleGetPublicAltar serves the public view of a shared altar. Each
// successful read increments the view counter.
func (h *SharingHandler) HandleGetPublicAltar(c *fiber.Ctx) error {
	altar, err := h.sharingService.GetPublicAltar(c.Params("shareId"))
	if err != nil {
		return h.publicError(c, "Get public altar", err)
	}
	return c.JSON(altar)
}

// HandleGetStories returns the approved stories of a shared altar.
func (h *SharingHandler) HandleGetStories(c *fiber.Ctx) error {
	stories, err := h.sharingService.GetPublicStories(c.Params("shareId"))
	if err != nil {
		return h.publicError(c, "Get public altar stories", err)
	}
	return c.JSON(stories)
}

// AddStoryRequest represents the request body for a visitor story.
type AddStoryRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// HandleAddStory records a visitor story on a shared altar.
func (h *SharingHandler) HandleAddStory(c *fiber.Ctx) error {
	var req AddStoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	story, err := h.sharingService.AddPublicStory(c.Params("shareId"), req.Text, req.Author, c.IP())
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": userFacing(err)})
		}
		return h.publicError(c, "Add public altar story", err)
	}
	return c.JSON(story)
}

// sharingError maps errors on the owner-facing settings routes.
func (h *SharingHandler) sharingError(c *fiber.Ctx, op string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	log.Printf("%s error: %v", op, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

// publicError maps errors on the visitor-facing routes. A disabled share and
// an unknown share ID are indistinguishable.
func (h *SharingHandler) publicError(c *fiber.Ctx, op string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Altar not found or sharing is disabled"})
	}
	log.Printf("%s error: %v", op, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

// userFacing strips the sentinel suffix wrapped onto validation errors so the
// client sees only the human-readable part.
func userFacing(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+services.ErrInvalidInput.Error())
}
