package repositories

import "mialtar/internal/models"

// AltarStyleRepository defines the interface for altar style data access.
type AltarStyleRepository interface {
	GetByUsername(username string) ([]models.AltarStyle, error)
	// Create inserts a style; a duplicate (username, name) pair surfaces as
	// ErrDuplicate from the store's unique index.
	Create(style *models.AltarStyle) error
	// Delete removes a style by ID, scoped to its owner. Zero matches are not
	// an error.
	Delete(id, username string) error
}
