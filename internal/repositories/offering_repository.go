package repositories

import "mialtar/internal/models"

// OfferingRepository defines the interface for offering catalog data access.
// Offerings are a global catalog, not owner-scoped.
type OfferingRepository interface {
	GetAll() ([]models.Offering, error)
	// Create inserts an offering; a duplicate (name, category) pair surfaces
	// as ErrDuplicate from the store's unique index.
	Create(offering *models.Offering) error
	Delete(id string) error
}
