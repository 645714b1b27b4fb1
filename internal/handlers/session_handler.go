package handlers

import (
	"log"
	"net/url"

	"mialtar/internal/middleware"
	"mialtar/internal/models"
	"mialtar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles HTTP requests for saved altar arrangements.
type SessionHandler struct {
	sessionService *services.SessionService
	validate       *validator.Validate
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the session routes; all of them require a token.
func (h *SessionHandler) RegisterRoutes(router fiber.Router) {
	sessionRoutes := router.Group("/sessions")
	sessionRoutes.Get("/", h.HandleList)
	sessionRoutes.Post("/", h.HandleSave)
	sessionRoutes.Delete("/:name", h.HandleDelete)
}

// HandleList returns all sessions owned by the caller.
func (h *SessionHandler) HandleList(c *fiber.Ctx) error {
	sessions, err := h.sessionService.ListSessions(middleware.Username(c))
	if err != nil {
		log.Printf("Error listing sessions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch sessions."})
	}
	return c.JSON(sessions)
}

// SaveSessionRequest represents the request body for saving a session.
type SaveSessionRequest struct {
	Name       string               `json:"name" validate:"required"`
	Items      []models.SessionItem `json:"items" validate:"required"`
	AltarStyle string               `json:"altarStyle" validate:"required"`
	Timestamp  int64                `json:"timestamp" validate:"required"`
}

// HandleSave upserts a session under the caller's (owner, name) key.
func (h *SessionHandler) HandleSave(c *fiber.Ctx) error {
	var req SaveSessionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing save session request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing session data."})
	}

	session := &models.Session{
		Username:   middleware.Username(c),
		Name:       req.Name,
		Items:      req.Items,
		AltarStyle: req.AltarStyle,
		Timestamp:  req.Timestamp,
	}
	if err := h.sessionService.SaveSession(session); err != nil {
		log.Printf("Error saving session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to save session."})
	}

	return c.JSON(fiber.Map{"message": "Session saved."})
}

// HandleDelete removes a session by name. A missing session still succeeds.
func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		name = c.Params("name")
	}

	if err := h.sessionService.DeleteSession(middleware.Username(c), name); err != nil {
		log.Printf("Error deleting session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to delete session."})
	}
	return c.JSON(fiber.Map{"message": "Session deleted."})
}
