package repositories

import (
	"errors"
	"fmt"

	"mialtar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAltarStyleRepository is a GORM implementation of AltarStyleRepository.
type GORMAltarStyleRepository struct {
	db *gorm.DB
}

// NewGORMAltarStyleRepository creates a new instance of GORMAltarStyleRepository.
func NewGORMAltarStyleRepository(db *gorm.DB) *GORMAltarStyleRepository {
	return &GORMAltarStyleRepository{
		db: db,
	}
}

// GetByUsername retrieves all altar styles owned by the given user.
func (r *GORMAltarStyleRepository) GetByUsername(username string) ([]models.AltarStyle, error) {
	var styles []models.AltarStyle
	if err := r.db.Find(&styles, "username = ?", username).Error; err != nil {
		return nil, fmt.Errorf("failed to get altar styles for user %s: %w", username, err)
	}
	return styles, nil
}

// Create inserts a new altar style. The (username, name) unique index is the
// single source of truth for duplicates.
func (r *GORMAltarStyleRepository) Create(style *models.AltarStyle) error {
	if style.ID == "" {
		style.ID = uuid.New().String()
	}
	if err := r.db.Create(style).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("altar style %s: %w", style.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to create altar style: %w", err)
	}
	return nil
}

// Delete removes an altar style by ID, scoped to its owner.
func (r *GORMAltarStyleRepository) Delete(id, username string) error {
	if err := r.db.Delete(&models.AltarStyle{}, "id = ? AND username = ?", id, username).Error; err != nil {
		return fmt.Errorf("failed to delete altar style %s: %w", id, err)
	}
	return nil
}
