package services

import (
	"mialtar/internal/models"
	"mialtar/internal/repositories"
)

// OfferingService handles business logic for the global offering catalog.
type OfferingService struct {
	repo repositories.OfferingRepository
}

// NewOfferingService creates a new OfferingService.
func NewOfferingService(repo repositories.OfferingRepository) *OfferingService {
	return &OfferingService{
		repo: repo,
	}
}

// ListOfferings retrieves the full catalog; offerings are not owner-scoped.
func (s *OfferingService) ListOfferings() ([]models.Offering, error) {
	return s.repo.GetAll()
}

// CreateOffering inserts an offering. A duplicate (name, category) pair
// surfaces as repositories.ErrDuplicate from the store's unique index.
func (s *OfferingService) CreateOffering(offering *models.Offering) error {
	return s.repo.Create(offering)
}

// DeleteOffering removes an offering from the global catalog. The handler
// restricts this to admins: the catalog is shared by every user.
func (s *OfferingService) DeleteOffering(id string) error {
	return s.repo.Delete(id)
}
