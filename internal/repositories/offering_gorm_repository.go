package repositories

import (
	"errors"
	"fmt"

	"mialtar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOfferingRepository is a GORM implementation of OfferingRepository.
type GORMOfferingRepository struct {
	db *gorm.DB
}

// NewGORMOfferingRepository creates a new instance of GORMOfferingRepository.
func NewGORMOfferingRepository(db *gorm.DB) *GORMOfferingRepository {
	return &GORMOfferingRepository{
		db: db,
	}
}

// GetAll retrieves the full offering catalog.
func (r *GORMOfferingRepository) GetAll() ([]models.Offering, error) {
	var offerings []models.Offering
	if err := r.db.Find(&offerings).Error; err != nil {
		return nil, fmt.Errorf("failed to get all offerings: %w", err)
	}
	return offerings, nil
}

// Create inserts a new offering. The (name, category) unique index is the
// single source of truth for duplicates.
func (r *GORMOfferingRepository) Create(offering *models.Offering) error {
	if offering.ID == "" {
		offering.ID = uuid.New().String()
	}
	if err := r.db.Create(offering).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("offering %s: %w", offering.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to create offering: %w", err)
	}
	return nil
}

// Delete removes an offering by its ID.
func (r *GORMOfferingRepository) Delete(id string) error {
	if err := r.db.Delete(&models.Offering{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete offering %s: %w", id, err)
	}
	return nil
}
